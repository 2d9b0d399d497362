package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/models"
	appErrors "github.com/noah-isme/pjbl-tracker-api/pkg/errors"
)

type dimensionLister interface {
	List(ctx context.Context) ([]models.Dimension, error)
}

// CatalogService serves read-only instrument and dimension lookups.
type CatalogService struct {
	questions  questionCatalog
	dimensions dimensionLister
	logger     *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(questions questionCatalog, dimensions dimensionLister, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{questions: questions, dimensions: dimensions, logger: logger}
}

// InstrumentQuestions returns an instrument's questions in authoring
// order, the same order answer arrays are aligned against.
func (s *CatalogService) InstrumentQuestions(ctx context.Context, instrumentID string) (*models.Instrument, []models.Question, error) {
	if instrumentID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "instrumentId required")
	}

	instrument, err := s.questions.FindInstrument(ctx, instrumentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("instrument %s not found", instrumentID))
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instrument")
	}

	questions, err := s.questions.ListByInstrument(ctx, instrumentID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return instrument, questions, nil
}

// Dimensions lists every known scoring dimension.
func (s *CatalogService) Dimensions(ctx context.Context) ([]models.Dimension, error) {
	dimensions, err := s.dimensions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dimensions")
	}
	return dimensions, nil
}
