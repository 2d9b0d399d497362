package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/pjbl-tracker-api/internal/models"
)

// DimensionRepository lists the competency dimensions for report UIs.
type DimensionRepository struct {
	db *sqlx.DB
}

// NewDimensionRepository creates a new dimension repository.
func NewDimensionRepository(db *sqlx.DB) *DimensionRepository {
	return &DimensionRepository{db: db}
}

// List returns all dimensions ordered by name.
func (r *DimensionRepository) List(ctx context.Context) ([]models.Dimension, error) {
	const query = `SELECT id, name, description FROM dimensions ORDER BY name ASC`
	var dimensions []models.Dimension
	if err := r.db.SelectContext(ctx, &dimensions, query); err != nil {
		return nil, fmt.Errorf("list dimensions: %w", err)
	}
	return dimensions, nil
}
