package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pjbl-tracker-api/internal/models"
)

// QuestionRepository is the question catalog: ordered question metadata
// per instrument, with dimension names resolved.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// FindInstrument returns the instrument or sql.ErrNoRows.
func (r *QuestionRepository) FindInstrument(ctx context.Context, id string) (*models.Instrument, error) {
	const query = `SELECT id, project_id, title, created_at FROM instruments WHERE id = $1`
	var instrument models.Instrument
	if err := r.db.GetContext(ctx, &instrument, query, id); err != nil {
		return nil, err
	}
	return &instrument, nil
}

// ListByInstrument returns the instrument's questions ordered by creation
// time ascending. That ordering is the contract aligning answers[i] to
// questions[i]; it must never change.
func (r *QuestionRepository) ListByInstrument(ctx context.Context, instrumentID string) ([]models.Question, error) {
	const query = `SELECT q.id, q.instrument_id, q.text, q.dimension_id, d.name AS dimension_name, q.created_at
        FROM questions q
        LEFT JOIN dimensions d ON d.id = q.dimension_id
        WHERE q.instrument_id = $1
        ORDER BY q.created_at ASC`
	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, query, instrumentID); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}
