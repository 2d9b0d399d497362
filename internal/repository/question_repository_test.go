package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newQuestionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestQuestionRepositoryFindInstrument(t *testing.T) {
	db, mock, cleanup := newQuestionRepoMock(t)
	defer cleanup()

	repo := NewQuestionRepository(db)
	rows := sqlmock.NewRows([]string{"id", "project_id", "title", "created_at"}).
		AddRow("inst-1", "proj-1", "Penilaian Diri", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, project_id, title, created_at FROM instruments")).
		WithArgs("inst-1").
		WillReturnRows(rows)

	instrument, err := repo.FindInstrument(context.Background(), "inst-1")
	require.NoError(t, err)
	require.Equal(t, "inst-1", instrument.ID)
	require.Equal(t, "Penilaian Diri", instrument.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryFindInstrumentMissing(t *testing.T) {
	db, mock, cleanup := newQuestionRepoMock(t)
	defer cleanup()

	repo := NewQuestionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, project_id, title, created_at FROM instruments")).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindInstrument(context.Background(), "ghost")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepositoryListByInstrument(t *testing.T) {
	db, mock, cleanup := newQuestionRepoMock(t)
	defer cleanup()

	repo := NewQuestionRepository(db)
	rows := sqlmock.NewRows([]string{"id", "instrument_id", "text", "dimension_id", "dimension_name", "created_at"}).
		AddRow("q-1", "inst-1", "Bekerja sama dalam kelompok", "kolaborasi", "Kolaborasi", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)).
		AddRow("q-2", "inst-1", "Mencatat refleksi harian", nil, nil, time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC))
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN dimensions d ON d.id = q.dimension_id")).
		WithArgs("inst-1").
		WillReturnRows(rows)

	questions, err := repo.ListByInstrument(context.Background(), "inst-1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	require.Equal(t, "kolaborasi", *questions[0].DimensionID)
	require.Equal(t, "Kolaborasi", *questions[0].DimensionName)
	require.Nil(t, questions[1].DimensionID)
	require.True(t, questions[0].CreatedAt.Before(questions[1].CreatedAt))
	require.NoError(t, mock.ExpectationsWereMet())
}
