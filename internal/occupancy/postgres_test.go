package occupancy

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

const testQuery = "SELECT person_count FROM occupancy ORDER BY sampled_at DESC LIMIT 1"

var errTestQuery = errors.New("test query error")

// setupMockDB creates a Postgres source backed by sqlmock.
func setupMockDB(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewPostgres(db, testQuery), mock
}

// TestPostgres_Count reads the first column of the first row.
func TestPostgres_Count(t *testing.T) {
	t.Parallel()

	source, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(testQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"person_count"}).AddRow(42))

	count, err := source.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, count)

	require.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgres_Errors covers query failures, empty results, NULL and negative counts.
func TestPostgres_Errors(t *testing.T) {
	t.Parallel()

	source, mock := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(testQuery)).WillReturnError(errTestQuery)

	_, err := source.Count(ctx)
	require.ErrorIs(t, err, errTestQuery)

	mock.ExpectQuery(regexp.QuoteMeta(testQuery)).WillReturnError(sql.ErrNoRows)

	_, err = source.Count(ctx)
	require.ErrorIs(t, err, ErrNoReading)

	mock.ExpectQuery(regexp.QuoteMeta(testQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"person_count"}).AddRow(nil))

	_, err = source.Count(ctx)
	require.ErrorIs(t, err, ErrNoReading)

	mock.ExpectQuery(regexp.QuoteMeta(testQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"person_count"}).AddRow(-5))

	_, err = source.Count(ctx)
	require.ErrorIs(t, err, ErrNegativeCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

// TestPostgres_Close closes the pool.
func TestPostgres_Close(t *testing.T) {
	t.Parallel()

	source, mock := setupMockDB(t)
	mock.ExpectClose()

	require.NoError(t, source.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}
