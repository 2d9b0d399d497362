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

type submissionTimesReader interface {
	SubmissionTimes(ctx context.Context, studentID string) ([]time.Time, error)
}

type streakStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// StreakService reports how many consecutive days, counted back from the
// most recent submission, a student has stayed active.
type StreakService struct {
	submissions submissionTimesReader
	students    streakStudentReader
	logger      *zap.Logger
}

// NewStreakService constructs StreakService.
func NewStreakService(submissions submissionTimesReader, students streakStudentReader, logger *zap.Logger) *StreakService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreakService{submissions: submissions, students: students, logger: logger}
}

// StudentStreak returns the trailing streak for one student.
func (s *StreakService) StudentStreak(ctx context.Context, studentID string) (*dto.StreakResponse, error) {
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "studentId required")
	}

	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %s not found", studentID))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	times, err := s.submissions.SubmissionTimes(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submission times")
	}

	return &dto.StreakResponse{
		StudentID: studentID,
		Streak:    TrailingStreak(times),
	}, nil
}

// TrailingStreak walks backward from the latest event counting adjacent
// events no more than a whole day apart. The first larger gap ends the
// streak; the count measures the trailing run, not the longest run.
func TrailingStreak(events []time.Time) int {
	if len(events) == 0 {
		return 0
	}

	sorted := make([]time.Time, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	streak := 1
	for i := len(sorted) - 1; i > 0; i-- {
		gap := int(sorted[i].Sub(sorted[i-1]) / (24 * time.Hour))
		if gap > 1 {
			break
		}
		streak++
	}
	return streak
}
