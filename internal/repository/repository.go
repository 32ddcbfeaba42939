package repository

import (
	"context"
	"errors"
	"time"

	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// observe records the duration of one query under the given query type.
func (r *Repository) observe(queryType string, startTime time.Time) {
	r.metrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(startTime).Seconds())
}

// SyncStatusRepoIface stores when each kind of data was last synced from the backend.
type SyncStatusRepoIface interface {
	SaveLastSync(ctx context.Context, kind string, at time.Time) error
	GetLastSync(ctx context.Context, kind string) (time.Time, error)
}

func NewSyncStatusRepository(db Database, metrics *metrics.Metrics) SyncStatusRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	SaveEmployee(ctx context.Context, employee models.Employee) error
	UpdateEmployee(ctx context.Context, employee models.Employee) error
	GetEmployeeByID(ctx context.Context, identifier int) (models.Employee, error)
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}

// TaskRepoIface mirrors the backend's tasks and labels and keeps the audit of board status changes.
type TaskRepoIface interface {
	SaveTaskData(ctx context.Context, task models.Task) error
	PruneTasks(ctx context.Context, keep []string) (int64, error)
	SaveLabels(ctx context.Context, labels []models.Label) error
	SaveStatusChange(ctx context.Context, change models.StatusChange) error
	ListStatusChanges(ctx context.Context, taskID string, limit int) ([]models.StatusChange, error)
}

func NewTaskRepository(db Database, metrics *metrics.Metrics) TaskRepoIface {
	return &Repository{db: db, metrics: metrics}
}
