package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/jackc/pgx/v5"
)

// SaveEmployee inserts a new employee unless one with the same identifier already exists.
func (r *Repository) SaveEmployee(ctx context.Context, employee models.Employee) error {
	defer r.observe("save_employee", time.Now())

	query := `
		INSERT INTO employees (id, fullname, shortname, position, email, phone, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;`

	_, err := r.db.Exec(ctx, query, employee.ID, employee.FullName, employee.ShortName,
		employee.Position, employee.Email, employee.Phone, employee.Avatar)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}

	return nil
}

// UpdateEmployee overwrites the stored data of an employee.
func (r *Repository) UpdateEmployee(ctx context.Context, employee models.Employee) error {
	defer r.observe("update_employee", time.Now())

	query := `
		UPDATE employees
		SET fullname = $2, shortname = $3, position = $4, email = $5, phone = $6, avatar = $7,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1;`

	_, err := r.db.Exec(ctx, query, employee.ID, employee.FullName, employee.ShortName,
		employee.Position, employee.Email, employee.Phone, employee.Avatar)
	if err != nil {
		return fmt.Errorf("failed to update employee data: %w", err)
	}

	return nil
}

// GetEmployeeByID retrieves an employee by id. A missing employee yields ErrNotFound.
func (r *Repository) GetEmployeeByID(ctx context.Context, identifier int) (models.Employee, error) {
	defer r.observe("get_employee_by_id", time.Now())

	query := `SELECT id, fullname, shortname, position, email, phone, avatar FROM employees WHERE id = $1`

	var result models.Employee
	err := r.db.QueryRow(ctx, query, identifier).Scan(
		&result.ID, &result.FullName, &result.ShortName, &result.Position, &result.Email, &result.Phone, &result.Avatar)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, fmt.Errorf("employee %d: %w", identifier, ErrNotFound)
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return result, nil
}
