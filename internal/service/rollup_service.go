package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/dto"
	"github.com/noah-isme/pjbl-tracker-api/internal/models"
	appErrors "github.com/noah-isme/pjbl-tracker-api/pkg/errors"
)

type rollupSubmissionReader interface {
	ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]models.Submission, error)
}

type rosterReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
	FindClass(ctx context.Context, id string) (*models.Class, error)
}

// RollupService merges per-submission dimension scores into student and
// class summaries.
type RollupService struct {
	submissions rollupSubmissionReader
	roster      rosterReader
	catalog     questionCatalog
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *zap.Logger
}

// NewRollupService constructs RollupService.
func NewRollupService(submissions rollupSubmissionReader, roster rosterReader, catalog questionCatalog, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *RollupService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollupService{
		submissions: submissions,
		roster:      roster,
		catalog:     catalog,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

// StudentDimensionScores aggregates one student's submissions within a
// project. A student with no submissions gets the explicit empty result
// rather than an error.
func (s *RollupService) StudentDimensionScores(ctx context.Context, studentID, projectID string) (*dto.StudentRollupResponse, error) {
	if studentID == "" || projectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId and projectId required")
	}

	student, err := s.roster.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	cacheKey := fmt.Sprintf("rollup:student:%s:%s", studentID, projectID)
	if s.cache.Enabled() {
		var cached dto.StudentRollupResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	result, err := s.computeStudent(ctx, student, projectID)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, result, s.cacheTTL)
	}
	return result, nil
}

// ClassDimensionScores aggregates every student in a class within a
// project. One student's failure is logged and replaced with the empty
// placeholder so the rest of the roster still returns.
func (s *RollupService) ClassDimensionScores(ctx context.Context, classID, projectID string) (*dto.ClassRollupResponse, error) {
	if classID == "" || projectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "classId and projectId required")
	}

	class, err := s.roster.FindClass(ctx, classID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class %s not found", classID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}

	cacheKey := fmt.Sprintf("rollup:class:%s:%s", classID, projectID)
	if s.cache.Enabled() {
		var cached dto.ClassRollupResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	roster, err := s.roster.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list class roster")
	}

	merger := newDimensionMerger()
	students := make([]dto.StudentRollupResponse, 0, len(roster))
	for i := range roster {
		student := roster[i]
		result, err := s.computeStudent(ctx, &student, projectID)
		if err != nil {
			s.logger.Warn("student rollup failed, using placeholder",
				zap.String("student_id", student.ID),
				zap.String("project_id", projectID),
				zap.Error(err),
			)
			result = emptyStudentRollup(&student, projectID)
		}
		students = append(students, *result)
		for _, score := range result.DimensionScores {
			merger.add(score)
		}
	}

	classScores := ApplyQualitative(merger.merged())
	overall, hasData := overallAverage(classScores)
	label := NoDataLabel
	if hasData {
		label, _ = QualitativeBand(overall)
	}

	result := &dto.ClassRollupResponse{
		ClassID:                 class.ID,
		ClassName:               class.Name,
		ProjectID:               projectID,
		Students:                students,
		DimensionScores:         classScores,
		OverallAverageScore:     overall,
		OverallQualitativeLabel: label,
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, result, s.cacheTTL)
	}
	return result, nil
}

func (s *RollupService) computeStudent(ctx context.Context, student *models.Student, projectID string) (*dto.StudentRollupResponse, error) {
	submissions, err := s.submissions.ListByStudentAndProject(ctx, student.ID, projectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	if len(submissions) == 0 {
		return emptyStudentRollup(student, projectID), nil
	}

	merger := newDimensionMerger()
	for i := range submissions {
		breakdown, err := s.submissionBreakdown(ctx, &submissions[i])
		if err != nil {
			s.logger.Warn("skipping submission in rollup",
				zap.String("submission_id", submissions[i].ID),
				zap.Error(err),
			)
			continue
		}
		for _, score := range breakdown {
			merger.add(score)
		}
	}

	scores := ApplyQualitative(merger.merged())
	overall, hasData := overallAverage(scores)
	label, code := NoDataLabel, ""
	if hasData {
		label, code = QualitativeBand(overall)
	}

	return &dto.StudentRollupResponse{
		StudentID:               student.ID,
		StudentName:             student.FullName,
		ProjectID:               projectID,
		DimensionScores:         scores,
		OverallAverageScore:     overall,
		OverallQualitativeLabel: label,
		OverallQualitativeCode:  code,
	}, nil
}

// submissionBreakdown prefers the breakdown the scorer persisted and
// falls back to aggregating the raw answers for unscored submissions.
func (s *RollupService) submissionBreakdown(ctx context.Context, submission *models.Submission) ([]models.DimensionScore, error) {
	if len(submission.Breakdown) > 0 {
		return submission.Breakdown, nil
	}

	answers, err := submission.AnswerValues()
	if err != nil {
		return nil, err
	}
	questions, err := s.catalog.ListByInstrument(ctx, submission.InstrumentID)
	if err != nil {
		return nil, err
	}
	return AggregateDimensions(questions, answers, submission.Kind.DefaultDimensionName(), s.logger), nil
}

func emptyStudentRollup(student *models.Student, projectID string) *dto.StudentRollupResponse {
	return &dto.StudentRollupResponse{
		StudentID:               student.ID,
		StudentName:             student.FullName,
		ProjectID:               projectID,
		DimensionScores:         []models.DimensionScore{},
		OverallAverageScore:     0,
		OverallQualitativeLabel: NoDataLabel,
	}
}

// dimensionMerger computes a weighted average per dimension where the
// weight is each contribution's answered-question count, so sparsely
// answered submissions do not dilute well-evidenced ones.
type dimensionMerger struct {
	order  []string
	names  map[string]string
	sums   map[string]float64
	counts map[string]int
}

func newDimensionMerger() *dimensionMerger {
	return &dimensionMerger{
		names:  make(map[string]string),
		sums:   make(map[string]float64),
		counts: make(map[string]int),
	}
}

func (m *dimensionMerger) add(score models.DimensionScore) {
	if _, ok := m.names[score.DimensionID]; !ok {
		m.order = append(m.order, score.DimensionID)
		m.names[score.DimensionID] = score.DimensionName
	}
	m.sums[score.DimensionID] += score.AverageScore * float64(score.TotalSubmissions)
	m.counts[score.DimensionID] += score.TotalSubmissions
}

// merged returns one score per dimension, sorted by dimension identifier
// for deterministic responses.
func (m *dimensionMerger) merged() []models.DimensionScore {
	ids := make([]string, len(m.order))
	copy(ids, m.order)
	sort.Strings(ids)

	scores := make([]models.DimensionScore, 0, len(ids))
	for _, id := range ids {
		score := models.DimensionScore{
			DimensionID:      id,
			DimensionName:    m.names[id],
			TotalSubmissions: m.counts[id],
			MaxScore:         models.MaxDimensionScore,
		}
		if m.counts[id] > 0 {
			score.AverageScore = m.sums[id] / float64(m.counts[id])
		}
		scores = append(scores, score)
	}
	return scores
}
