package repository_test

import (
	"regexp"
	"testing"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const saveEmployeeQuery = `
		INSERT INTO employees (id, fullname, shortname, position, email, phone, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;`

const getEmployeeByIDQuery = `SELECT id, fullname, shortname, position, email, phone, avatar FROM employees WHERE id = $1`

var testEmployee = models.Employee{
	ID:        123,
	FullName:  "Test User",
	ShortName: "T. User",
	Position:  "qa",
	Email:     "test@test.com",
	Phone:     "123456789",
}

func TestSaveEmployee_Success(t *testing.T) {
	t.Parallel()

	mock, mtr := newMock(t)
	repo := repository.NewEmployeeRepository(mock, mtr)

	mock.ExpectExec(regexp.QuoteMeta(saveEmployeeQuery)).
		WithArgs(123, "Test User", "T. User", "qa", "test@test.com", "123456789", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.SaveEmployee(t.Context(), testEmployee))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveEmployee_QueryError(t *testing.T) {
	t.Parallel()

	mock, mtr := newMock(t)
	repo := repository.NewEmployeeRepository(mock, mtr)

	mock.ExpectExec(regexp.QuoteMeta(saveEmployeeQuery)).
		WithArgs(123, "Test User", "T. User", "qa", "test@test.com", "123456789", "").
		WillReturnError(assert.AnError)

	err := repo.SaveEmployee(t.Context(), testEmployee)

	require.Error(t, err)
	assert.Equal(t, "failed to save employee: "+assert.AnError.Error(), err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployee(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewEmployeeRepository(mock, mtr)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).
			WithArgs(123, "Test User", "T. User", "qa", "test@test.com", "123456789", "").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		require.NoError(t, repo.UpdateEmployee(t.Context(), testEmployee))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewEmployeeRepository(mock, mtr)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).
			WithArgs(123, "Test User", "T. User", "qa", "test@test.com", "123456789", "").
			WillReturnError(assert.AnError)

		err := repo.UpdateEmployee(t.Context(), testEmployee)

		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to update employee data")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetEmployeeByID(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewEmployeeRepository(mock, mtr)

		mock.ExpectQuery(regexp.QuoteMeta(getEmployeeByIDQuery)).
			WithArgs(123).
			WillReturnRows(pgxmock.NewRows([]string{"id", "fullname", "shortname", "position", "email", "phone", "avatar"}).
				AddRow(123, "Test User", "T. User", "qa", "test@test.com", "123456789", ""))

		employee, err := repo.GetEmployeeByID(t.Context(), 123)

		require.NoError(t, err)
		assert.Equal(t, testEmployee, employee)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewEmployeeRepository(mock, mtr)

		mock.ExpectQuery(regexp.QuoteMeta(getEmployeeByIDQuery)).
			WithArgs(7).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetEmployeeByID(t.Context(), 7)

		require.ErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()

		mock, mtr := newMock(t)
		repo := repository.NewEmployeeRepository(mock, mtr)

		mock.ExpectQuery(regexp.QuoteMeta(getEmployeeByIDQuery)).
			WithArgs(7).
			WillReturnError(assert.AnError)

		_, err := repo.GetEmployeeByID(t.Context(), 7)

		require.ErrorIs(t, err, assert.AnError)
		require.NotErrorIs(t, err, repository.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
