package repository_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const saveLastSyncQuery = `
		INSERT INTO sync_status (kind, last_synced_at)
		VALUES ($1, $2)
		ON CONFLICT (kind) DO UPDATE SET last_synced_at = $2, updated_at = CURRENT_TIMESTAMP;`

func TestSaveLastSync(t *testing.T) {
	t.Parallel()

	now := time.Now()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewSyncStatusRepository(mock, mtr)

		mock.ExpectExec(regexp.QuoteMeta(saveLastSyncQuery)).
			WithArgs("tasks", now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		require.NoError(t, repo.SaveLastSync(t.Context(), "tasks", now))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewSyncStatusRepository(mock, mtr)

		mock.ExpectExec(regexp.QuoteMeta(saveLastSyncQuery)).
			WithArgs("tasks", now).
			WillReturnError(assert.AnError)

		err := repo.SaveLastSync(t.Context(), "tasks", now)

		require.ErrorIs(t, err, assert.AnError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetLastSync(t *testing.T) {
	t.Parallel()

	query := "SELECT last_synced_at FROM sync_status WHERE kind = $1"
	last := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewSyncStatusRepository(mock, mtr)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("employees").
			WillReturnRows(pgxmock.NewRows([]string{"last_synced_at"}).AddRow(last))

		got, err := repo.GetLastSync(t.Context(), "employees")

		require.NoError(t, err)
		assert.Equal(t, last, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("never synced", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewSyncStatusRepository(mock, mtr)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("employees").
			WillReturnError(pgx.ErrNoRows)

		got, err := repo.GetLastSync(t.Context(), "employees")

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.True(t, got.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewSyncStatusRepository(mock, mtr)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("employees").
			WillReturnError(assert.AnError)

		_, err := repo.GetLastSync(t.Context(), "employees")

		require.ErrorIs(t, err, assert.AnError)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
