package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/dto"
	"github.com/noah-isme/pjbl-tracker-api/internal/models"
	appErrors "github.com/noah-isme/pjbl-tracker-api/pkg/errors"
)

type submissionStore interface {
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	UpdateScore(ctx context.Context, id string, score float64, breakdown models.DimensionBreakdown, feedback string) error
}

type questionCatalog interface {
	FindInstrument(ctx context.Context, id string) (*models.Instrument, error)
	ListByInstrument(ctx context.Context, instrumentID string) ([]models.Question, error)
}

type rollupInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ScoringService converts one submission's raw answers into normalized
// dimension scores and writes them back.
type ScoringService struct {
	submissions submissionStore
	catalog     questionCatalog
	cache       rollupInvalidator
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewScoringService constructs ScoringService.
func NewScoringService(submissions submissionStore, catalog questionCatalog, cache rollupInvalidator, metrics *MetricsService, logger *zap.Logger) *ScoringService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringService{
		submissions: submissions,
		catalog:     catalog,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// ScoreSubmission recomputes a single submission's dimension breakdown and
// overall score. Exactly one store write happens on success, none on
// failure; scoring the same inputs twice yields identical results.
func (s *ScoringService) ScoreSubmission(ctx context.Context, submissionID string) (*dto.SubmissionScoreResponse, error) {
	if submissionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission id required")
	}
	start := time.Now()

	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("submission %s not found", submissionID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}

	if _, err := s.catalog.FindInstrument(ctx, submission.InstrumentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("instrument %s not found", submission.InstrumentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}

	answers, err := submission.AnswerValues()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed submission content")
	}

	questions, err := s.catalog.ListByInstrument(ctx, submission.InstrumentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question catalog")
	}

	breakdown := ApplyQualitative(AggregateDimensions(questions, answers, submission.Kind.DefaultDimensionName(), s.logger))
	overall, hasData := overallAverage(breakdown)
	feedback := NoDataLabel
	if hasData {
		feedback, _ = QualitativeBand(overall)
	}

	if err := s.submissions.UpdateScore(ctx, submission.ID, overall, breakdown, feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to persist submission score")
	}

	s.invalidateRollups(ctx, submission.StudentID)
	if s.metrics != nil {
		s.metrics.ObserveScoring(time.Since(start))
	}

	return &dto.SubmissionScoreResponse{
		ID:        submission.ID,
		Score:     overall,
		Breakdown: breakdown,
		Feedback:  feedback,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func (s *ScoringService) invalidateRollups(ctx context.Context, studentID string) {
	if s.cache == nil {
		return
	}
	// class membership is unknown here, so class roll-ups are cleared wholesale
	for _, pattern := range []string{fmt.Sprintf("rollup:student:%s:*", studentID), "rollup:class:*"} {
		if err := s.cache.Invalidate(ctx, pattern); err != nil {
			s.logger.Warn("rollup cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

// overallAverage is the unweighted mean of dimension averages, counting
// only dimensions backed by at least one answered question.
func overallAverage(scores []models.DimensionScore) (float64, bool) {
	sum := 0.0
	count := 0
	for _, score := range scores {
		if score.TotalSubmissions == 0 {
			continue
		}
		sum += score.AverageScore
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}
