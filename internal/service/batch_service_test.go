package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/dto"
	"github.com/noah-isme/pjbl-tracker-api/internal/models"
)

type mockRecomputeLister struct {
	unscored []models.Submission
	scored   []models.Submission
	err      error
}

func (m *mockRecomputeLister) ListForRecompute(ctx context.Context, projectID string, force bool) ([]models.Submission, error) {
	if m.err != nil {
		return nil, m.err
	}
	if force {
		return append(append([]models.Submission{}, m.unscored...), m.scored...), nil
	}
	return m.unscored, nil
}

type mockScorer struct {
	failFor map[string]error
	scored  []string
}

func (m *mockScorer) ScoreSubmission(ctx context.Context, submissionID string) (*dto.SubmissionScoreResponse, error) {
	if err, ok := m.failFor[submissionID]; ok {
		return nil, err
	}
	m.scored = append(m.scored, submissionID)
	return &dto.SubmissionScoreResponse{ID: submissionID}, nil
}

func TestRecomputeBatch(t *testing.T) {
	lister := &mockRecomputeLister{
		unscored: []models.Submission{{ID: "sub-1"}, {ID: "sub-2"}, {ID: "sub-3"}},
	}
	scorer := &mockScorer{failFor: map[string]error{}}
	svc := NewBatchService(lister, scorer, nil, nil, zap.NewNop())

	result, err := svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{ProjectID: "proj-1"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Processed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"sub-1", "sub-2", "sub-3"}, scorer.scored)
}

func TestRecomputeBatchIsolatesFailures(t *testing.T) {
	lister := &mockRecomputeLister{
		unscored: []models.Submission{{ID: "sub-1"}, {ID: "sub-2"}, {ID: "sub-3"}},
	}
	scorer := &mockScorer{failFor: map[string]error{
		"sub-2": errors.New("malformed submission content"),
	}}
	svc := NewBatchService(lister, scorer, nil, nil, zap.NewNop())

	result, err := svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{ProjectID: "proj-1"})
	require.NoError(t, err)

	// the bad submission is reported, the rest still run
	assert.Equal(t, 2, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "sub-2", result.Errors[0].SubmissionID)
	assert.Contains(t, result.Errors[0].Message, "malformed")
	assert.Equal(t, []string{"sub-1", "sub-3"}, scorer.scored)
}

func TestRecomputeBatchSkipsScoredWithoutForce(t *testing.T) {
	lister := &mockRecomputeLister{
		unscored: []models.Submission{{ID: "sub-1"}},
		scored:   []models.Submission{{ID: "sub-2"}},
	}
	scorer := &mockScorer{failFor: map[string]error{}}
	svc := NewBatchService(lister, scorer, nil, nil, zap.NewNop())

	result, err := svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{ProjectID: "proj-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	result, err = svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{ProjectID: "proj-1", Force: true})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
}

func TestRecomputeBatchEmptyProject(t *testing.T) {
	lister := &mockRecomputeLister{}
	scorer := &mockScorer{failFor: map[string]error{}}
	svc := NewBatchService(lister, scorer, nil, nil, zap.NewNop())

	result, err := svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{ProjectID: "proj-1"})
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Empty(t, result.Errors)
}

func TestRecomputeBatchNoProjectScope(t *testing.T) {
	lister := &mockRecomputeLister{
		unscored: []models.Submission{{ID: "sub-1"}, {ID: "sub-2"}},
	}
	scorer := &mockScorer{failFor: map[string]error{}}
	svc := NewBatchService(lister, scorer, nil, nil, zap.NewNop())

	// an empty project id widens the scope to every eligible submission
	result, err := svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Empty(t, result.Errors)
}

func TestRecomputeBatchListFailure(t *testing.T) {
	lister := &mockRecomputeLister{err: errors.New("connection reset")}
	svc := NewBatchService(lister, &mockScorer{}, nil, nil, zap.NewNop())

	_, err := svc.RecomputeBatch(context.Background(), dto.RecomputeRequest{ProjectID: "proj-1"})
	require.Error(t, err)
}
