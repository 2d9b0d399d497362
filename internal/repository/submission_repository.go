package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pjbl-tracker-api/internal/models"
)

// SubmissionRepository is the submission store: raw answer payloads in,
// computed scores back out.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository creates a new submission repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, instrument_id, project_id, student_id, kind, content, score, breakdown, feedback, submitted_at, created_at, updated_at`

// FindByID returns the submission or sql.ErrNoRows.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE id = $1`, submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// UpdateScore writes the computed score, breakdown and feedback in a
// single statement. This is the only write the scoring engine performs.
func (r *SubmissionRepository) UpdateScore(ctx context.Context, id string, score float64, breakdown models.DimensionBreakdown, feedback string) error {
	const query = `UPDATE submissions
        SET score = $2, breakdown = $3, feedback = $4, updated_at = $5
        WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, score, breakdown, feedback, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update submission score: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("submission %s vanished during score write", id)
	}
	return nil
}

// ListForRecompute returns submissions in scope for a batch run. Without
// force only unscored submissions are returned; projectID narrows the
// scope when set.
func (r *SubmissionRepository) ListForRecompute(ctx context.Context, projectID string, force bool) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions WHERE 1=1`, submissionColumns)
	var args []interface{}
	if projectID != "" {
		query += fmt.Sprintf(" AND project_id = $%d", len(args)+1)
		args = append(args, projectID)
	}
	if !force {
		query += " AND score IS NULL"
	}
	query += " ORDER BY submitted_at ASC"
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions for recompute: %w", err)
	}
	return submissions, nil
}

// ListByStudentAndProject returns one student's submissions within a
// project, oldest first.
func (r *SubmissionRepository) ListByStudentAndProject(ctx context.Context, studentID, projectID string) ([]models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM submissions
        WHERE student_id = $1 AND project_id = $2
        ORDER BY submitted_at ASC`, submissionColumns)
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, studentID, projectID); err != nil {
		return nil, fmt.Errorf("list student submissions: %w", err)
	}
	return submissions, nil
}

// SubmissionTimes returns every submission timestamp for a student,
// oldest first, for the engagement streak calculation.
func (r *SubmissionRepository) SubmissionTimes(ctx context.Context, studentID string) ([]time.Time, error) {
	const query = `SELECT submitted_at FROM submissions WHERE student_id = $1 ORDER BY submitted_at ASC`
	var times []time.Time
	if err := r.db.SelectContext(ctx, &times, query, studentID); err != nil {
		return nil, fmt.Errorf("list submission times: %w", err)
	}
	return times, nil
}
