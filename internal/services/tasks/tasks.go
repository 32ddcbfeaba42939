package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
)

// SyncKind names task syncs in the sync_status table and in metrics.
const SyncKind = "task"

// Fetcher is the read side of the backend the sync needs.
type Fetcher interface {
	FetchTasks(ctx context.Context, filter models.Filter) ([]models.Task, error)
	FetchLabels(ctx context.Context) ([]models.Label, error)
}

// Loader receives the fetched collection. The board implements it. Mark is taken before
// the fetch so the loader can tell which of its own updates the collection may predate.
type Loader interface {
	Mark() uint64
	LoadSince(mark uint64, tasks []models.Task)
}

// SessionKeeper provides a usable backend session.
type SessionKeeper interface {
	Ensure(ctx context.Context) (auth.Session, error)
	Invalidate()
}

type TaskService struct {
	log        *slog.Logger
	crm        Fetcher
	board      Loader
	repo       repository.TaskRepoIface
	statusRepo repository.SyncStatusRepoIface
	sessions   SessionKeeper
	metrics    *metrics.Metrics
}

func NewTaskService(
	log *slog.Logger,
	crm Fetcher,
	board Loader,
	repo repository.TaskRepoIface,
	statusRepo repository.SyncStatusRepoIface,
	sessions SessionKeeper,
	metrics *metrics.Metrics,
) *TaskService {
	return &TaskService{
		log:        log,
		crm:        crm,
		board:      board,
		repo:       repo,
		statusRepo: statusRepo,
		sessions:   sessions,
		metrics:    metrics,
	}
}

func (ts *TaskService) initLogger(opn string) *slog.Logger {
	return ts.log.With(
		sl.Op(opn),
		slog.String("division", "task"),
	)
}

// Start syncs once and then on every tick until ctx is done. Failed runs are logged and
// retried on the next tick.
func (ts *TaskService) Start(ctx context.Context, interval time.Duration) error {
	const opn = "Tasks.Start"
	log := ts.initLogger(opn)

	if last, err := ts.statusRepo.GetLastSync(ctx, SyncKind); err == nil {
		log.InfoContext(ctx, "Resuming task sync", "last_sync", last.Format(time.RFC3339))
	}

	log.InfoContext(ctx, "Starting initial sync")
	if err := ts.Sync(ctx); err != nil {
		log.ErrorContext(ctx, "Initial sync failed", sl.Err(err))
	}

	log.InfoContext(ctx, "Switching to maintenance mode.", "interval", interval.String())
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			log.DebugContext(ctx, "Periodic check triggered.")
			if err := ts.Sync(ctx); err != nil {
				log.ErrorContext(ctx, "Periodic run failed", sl.Err(err))
			}
		case <-ctx.Done():
			log.InfoContext(ctx, "Service shutting down.")
			return nil
		}
	}
}

// Sync fetches the whole task collection, replaces the board contents with it and
// mirrors it into the repository.
func (ts *TaskService) Sync(ctx context.Context) error {
	const opn = "Tasks.Sync"
	log := ts.initLogger(opn)
	startTime := time.Now()

	if err := ts.sync(ctx, log); err != nil {
		ts.metrics.Runs.WithLabelValues("failure").Inc()
		return err
	}

	ts.metrics.Runs.WithLabelValues("success").Inc()
	ts.metrics.LastSuccessfulRun.WithLabelValues(SyncKind).SetToCurrentTime()
	ts.metrics.RunDuration.WithLabelValues(SyncKind).Observe(time.Since(startTime).Seconds())
	return nil
}

func (ts *TaskService) sync(ctx context.Context, log *slog.Logger) error {
	if _, err := ts.sessions.Ensure(ctx); err != nil {
		return fmt.Errorf("failed to obtain backend session: %w", err)
	}

	mark := ts.board.Mark()
	tasks, err := ts.crm.FetchTasks(ctx, models.Filter{})
	if err != nil {
		if client.IsUnauthorized(err) {
			ts.sessions.Invalidate()
		}
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}

	ts.board.LoadSince(mark, tasks)
	log.DebugContext(ctx, "Board reloaded", "count", len(tasks))

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if err = ts.repo.SaveTaskData(ctx, task); err != nil {
			return fmt.Errorf("failed to save task '%s': %w", task.ID, err)
		}
		ids = append(ids, task.ID)
	}
	ts.metrics.ItemsSynced.WithLabelValues(SyncKind).Add(float64(len(tasks)))

	removed, err := ts.repo.PruneTasks(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to prune tasks: %w", err)
	}
	if removed > 0 {
		log.InfoContext(ctx, "Removed tasks deleted on the backend", "count", removed)
	}

	ts.syncLabels(ctx, log)

	if err = ts.statusRepo.SaveLastSync(ctx, SyncKind, time.Now()); err != nil {
		return fmt.Errorf("failed to save last sync: %w", err)
	}

	log.InfoContext(ctx, "Successfully synced tasks", "count", len(tasks))
	return nil
}

// syncLabels mirrors the label directory. Its failures do not fail the task sync.
func (ts *TaskService) syncLabels(ctx context.Context, log *slog.Logger) {
	labels, err := ts.crm.FetchLabels(ctx)
	if err != nil {
		log.WarnContext(ctx, "Failed to fetch labels", sl.Err(err))
		return
	}
	if err = ts.repo.SaveLabels(ctx, labels); err != nil {
		log.WarnContext(ctx, "Failed to save labels", sl.Err(err))
		return
	}
	ts.metrics.ItemsSynced.WithLabelValues("label").Add(float64(len(labels)))
}
