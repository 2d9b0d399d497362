package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/dto"
	"github.com/noah-isme/pjbl-tracker-api/internal/models"
	appErrors "github.com/noah-isme/pjbl-tracker-api/pkg/errors"
)

type recomputeLister interface {
	ListForRecompute(ctx context.Context, projectID string, force bool) ([]models.Submission, error)
}

type submissionScorer interface {
	ScoreSubmission(ctx context.Context, submissionID string) (*dto.SubmissionScoreResponse, error)
}

// BatchService recomputes scores for a project's submissions. One bad
// submission never aborts the run; its error is collected and the rest
// continue.
type BatchService struct {
	submissions recomputeLister
	scorer      submissionScorer
	validator   *validator.Validate
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewBatchService constructs BatchService.
func NewBatchService(submissions recomputeLister, scorer submissionScorer, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *BatchService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{
		submissions: submissions,
		scorer:      scorer,
		validator:   validate,
		metrics:     metrics,
		logger:      logger,
	}
}

// RecomputeBatch scores every eligible submission in the project
// sequentially. Without force only unscored submissions are eligible,
// which makes repeated runs converge to a no-op.
func (s *BatchService) RecomputeBatch(ctx context.Context, req dto.RecomputeRequest) (*models.BatchResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recompute request")
	}

	submissions, err := s.submissions.ListForRecompute(ctx, req.ProjectID, req.Force)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions for recompute")
	}

	result := &models.BatchResult{Errors: []models.BatchError{}}
	for i := range submissions {
		if err := ctx.Err(); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "recompute cancelled")
		}
		id := submissions[i].ID
		if _, err := s.scorer.ScoreSubmission(ctx, id); err != nil {
			s.logger.Warn("recompute failed for submission",
				zap.String("submission_id", id),
				zap.String("project_id", req.ProjectID),
				zap.Error(err),
			)
			result.Errors = append(result.Errors, models.BatchError{
				SubmissionID: id,
				Message:      err.Error(),
			})
			continue
		}
		result.Processed++
	}

	if s.metrics != nil {
		s.metrics.ObserveBatchRun(len(result.Errors))
	}
	s.logger.Info("recompute batch finished",
		zap.String("project_id", req.ProjectID),
		zap.Bool("force", req.Force),
		zap.Int("processed", result.Processed),
		zap.Int("failed", len(result.Errors)),
	)
	return result, nil
}
