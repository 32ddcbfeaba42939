package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
)

var (
	ErrNotFound      = errors.New("task not found on board")
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrMismatchedRecord means the backend confirmed an update with a record of another task.
	ErrMismatchedRecord = errors.New("backend returned a different task")
)

const (
	outcomeNoop       = "noop"
	outcomeCommitted  = "committed"
	outcomeRolledBack = "rolled_back"
	outcomeStale      = "stale"
)

const defaultSession = "default"

// TaskUpdater sends a partial task update to the backend and returns the
// authoritative record.
type TaskUpdater interface {
	UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error)
}

// SessionKeeper provides a usable backend session and drops it once the backend rejects it.
type SessionKeeper interface {
	Ensure(ctx context.Context) (auth.Session, error)
	Invalidate()
}

// StatusAuditor records status transitions issued from the board.
type StatusAuditor interface {
	SaveStatusChange(ctx context.Context, change models.StatusChange) error
}

// entry is the board's copy of one task. task is what readers see, confirmed is the last
// record the backend returned, and version increases with every mutation issued for the task.
// confirmedVersion is the version of the request that produced confirmed, confirmedSeq the
// board commit sequence at which it landed. pending counts requests still awaiting an answer.
type entry struct {
	task             models.Task
	confirmed        models.Task
	version          uint64
	confirmedVersion uint64
	confirmedSeq     uint64
	pending          int
}

// Board is the in-memory task collection shared by every projection. All mutations
// replace whole records under the lock, so readers always get a consistent snapshot.
type Board struct {
	log      *slog.Logger
	api      TaskUpdater
	sessions SessionKeeper
	notifier Notifier
	auditor  StatusAuditor
	metrics  *metrics.Metrics
	now      func() time.Time

	mu      sync.RWMutex
	order   []string
	entries map[string]*entry
	seq     uint64

	dragMu sync.Mutex
	drags  map[string]*DragMachine
}

// NewBoard creates an empty board. sessions and auditor may be nil.
func NewBoard(
	log *slog.Logger,
	api TaskUpdater,
	sessions SessionKeeper,
	notifier Notifier,
	auditor StatusAuditor,
	metrics *metrics.Metrics,
) *Board {
	return &Board{
		log:      log,
		api:      api,
		sessions: sessions,
		notifier: notifier,
		auditor:  auditor,
		metrics:  metrics,
		now:      time.Now,
		entries:  make(map[string]*entry),
		drags:    make(map[string]*DragMachine),
	}
}

func (b *Board) initLogger(opn string) *slog.Logger {
	return b.log.With(
		sl.Op(opn),
		slog.String("division", "board"),
	)
}

// Mark returns the commit sequence of the board. Taken before a fetch, it tells LoadSince
// which confirmations the fetched collection may not contain yet.
func (b *Board) Mark() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.seq
}

// Load replaces the board contents with a collection fetched just now.
func (b *Board) Load(tasks []models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loadLocked(b.seq, tasks)
}

// LoadSince replaces the board contents with a collection whose fetch started at mark.
// A task with a request in flight, or confirmed by the backend after mark, keeps its
// board copy: the fetched record may predate that update.
func (b *Board) LoadSince(mark uint64, tasks []models.Task) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.loadLocked(mark, tasks)
}

func (b *Board) loadLocked(mark uint64, tasks []models.Task) {
	order := make([]string, 0, len(tasks))
	entries := make(map[string]*entry, len(tasks))
	for _, task := range tasks {
		if _, seen := entries[task.ID]; !seen {
			order = append(order, task.ID)
		}

		previous, ok := b.entries[task.ID]
		if ok && (previous.pending > 0 || previous.confirmedSeq > mark) {
			entries[task.ID] = previous
			continue
		}

		var version uint64
		if ok {
			version = previous.version
		}
		entries[task.ID] = &entry{
			task:             task.Clone(),
			confirmed:        task.Clone(),
			version:          version,
			confirmedVersion: version,
		}
	}

	b.order = order
	b.entries = entries
	b.metrics.BoardTasks.Set(float64(len(order)))
}

// Snapshot returns a copy of the tasks in fetch order.
func (b *Board) Snapshot() []models.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tasks := make([]models.Task, 0, len(b.order))
	for _, id := range b.order {
		tasks = append(tasks, b.entries[id].task.Clone())
	}
	return tasks
}

// Task returns the current copy of a single task.
func (b *Board) Task(taskID string) (models.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ent, ok := b.entries[taskID]
	if !ok {
		return models.Task{}, false
	}
	return ent.task.Clone(), true
}

func (b *Board) List(filter models.Filter) []models.Task {
	return List(b.Snapshot(), filter)
}

func (b *Board) Kanban(filter models.Filter) Columns {
	return Kanban(List(b.Snapshot(), filter))
}

func (b *Board) Gantt(filter models.Filter) GanttChart {
	return Gantt(List(b.Snapshot(), filter))
}

// UpdateStatus moves a task to next. The new status is visible to readers before the
// backend answers; a success replaces the whole record with the backend's copy and a
// failure puts the last confirmed status back. An answer to an older request changes what
// readers see only when no newer request is still waiting and it is the newest confirmation.
func (b *Board) UpdateStatus(ctx context.Context, taskID string, next models.Status) (models.Task, error) {
	const opn = "Board.UpdateStatus"
	log := b.initLogger(opn)

	next = next.Normalize()
	if !next.IsKnown() {
		return models.Task{}, fmt.Errorf("%w: '%s'", ErrInvalidStatus, next)
	}

	b.mu.Lock()
	ent, ok := b.entries[taskID]
	if !ok {
		b.mu.Unlock()
		err := fmt.Errorf("%w: '%s'", ErrNotFound, taskID)
		b.notifier.Failure(ctx, "Failed to update task status", err)
		return models.Task{}, err
	}

	if ent.task.Status.EqualFold(next) {
		current := ent.task.Clone()
		b.mu.Unlock()
		b.metrics.StatusUpdates.WithLabelValues(outcomeNoop).Inc()
		log.DebugContext(ctx, "Status unchanged, nothing to update", "task", taskID, "status", next)
		return current, nil
	}

	previous := ent.task.Status
	ent.version++
	ent.pending++
	version := ent.version
	optimistic := ent.task.Clone()
	optimistic.Status = next
	ent.task = optimistic
	b.mu.Unlock()

	log.DebugContext(ctx, "Optimistic status applied", "task", taskID, "from", previous, "to", next)

	if b.sessions != nil {
		if _, err := b.sessions.Ensure(ctx); err != nil {
			return b.rollback(ctx, log, taskID, version, previous, next,
				fmt.Errorf("failed to obtain backend session: %w", err))
		}
	}

	updated, err := b.api.UpdateTask(ctx, taskID, models.TaskPatch{Status: &next})
	if err != nil {
		if b.sessions != nil && client.IsUnauthorized(err) {
			b.sessions.Invalidate()
		}
		return b.rollback(ctx, log, taskID, version, previous, next, err)
	}
	if updated.ID != taskID {
		return b.rollback(ctx, log, taskID, version, previous, next,
			fmt.Errorf("%w: asked for '%s', got '%s'", ErrMismatchedRecord, taskID, updated.ID))
	}

	return b.commit(ctx, log, taskID, version, previous, updated)
}

func (b *Board) commit(
	ctx context.Context,
	log *slog.Logger,
	taskID string,
	version uint64,
	previous models.Status,
	updated models.Task,
) (models.Task, error) {
	outcome := outcomeCommitted

	b.mu.Lock()
	if ent, ok := b.entries[taskID]; ok {
		ent.pending--
		newest := version > ent.confirmedVersion
		if newest {
			b.seq++
			ent.confirmed = updated.Clone()
			ent.confirmedVersion = version
			ent.confirmedSeq = b.seq
		}
		if ent.version == version || (newest && ent.pending == 0) {
			ent.task = updated.Clone()
		} else {
			outcome = outcomeStale
		}
	} else {
		outcome = outcomeStale
	}
	b.mu.Unlock()

	b.metrics.StatusUpdates.WithLabelValues(outcome).Inc()
	log.InfoContext(ctx, "Task status updated", "task", taskID, "status", updated.Status, "outcome", outcome)
	b.notifier.Success(ctx, "Task status updated")
	b.audit(ctx, log, models.StatusChange{TaskID: taskID, From: previous, To: updated.Status, Outcome: outcome})

	return updated, nil
}

func (b *Board) rollback(
	ctx context.Context,
	log *slog.Logger,
	taskID string,
	version uint64,
	previous, next models.Status,
	cause error,
) (models.Task, error) {
	outcome := outcomeRolledBack

	var current models.Task
	b.mu.Lock()
	if ent, ok := b.entries[taskID]; ok {
		ent.pending--
		if ent.version == version {
			restored := ent.task.Clone()
			restored.Status = ent.confirmed.Status
			ent.task = restored
		} else {
			outcome = outcomeStale
		}
		current = ent.task.Clone()
	} else {
		outcome = outcomeStale
	}
	b.mu.Unlock()

	b.metrics.StatusUpdates.WithLabelValues(outcome).Inc()
	log.WarnContext(ctx, "Task status update failed", "task", taskID, "outcome", outcome, sl.Err(cause))
	b.notifier.Failure(ctx, "Failed to update task status", cause)
	b.audit(ctx, log, models.StatusChange{TaskID: taskID, From: previous, To: next, Outcome: outcome})

	return current, fmt.Errorf("failed to update status of task '%s': %w", taskID, cause)
}

func (b *Board) audit(ctx context.Context, log *slog.Logger, change models.StatusChange) {
	if b.auditor == nil {
		return
	}
	change.At = b.now().UTC()
	if err := b.auditor.SaveStatusChange(ctx, change); err != nil {
		log.WarnContext(ctx, "Failed to record status change", "task", change.TaskID, sl.Err(err))
	}
}

// Drag returns the drag machine of a board session, creating it on first use.
func (b *Board) Drag(session string) *DragMachine {
	if session == "" {
		session = defaultSession
	}

	b.dragMu.Lock()
	defer b.dragMu.Unlock()

	machine, ok := b.drags[session]
	if !ok {
		machine = NewDragMachine()
		b.drags[session] = machine
	}
	return machine
}

// StartDrag picks up a card in the given session.
func (b *Board) StartDrag(session, taskID string) (DragSnapshot, error) {
	task, ok := b.Task(taskID)
	if !ok {
		return DragSnapshot{}, fmt.Errorf("%w: '%s'", ErrNotFound, taskID)
	}
	return b.Drag(session).Start(task), nil
}

// Drop releases the session's card over target and, when the drop asks for a status
// change, runs it through UpdateStatus. The returned bool reports whether an update was issued.
func (b *Board) Drop(ctx context.Context, session string, target models.Status) (models.Task, bool, error) {
	intent, ok := b.Drag(session).Drop(target, b.Task)
	if !ok {
		return models.Task{}, false, nil
	}

	task, err := b.UpdateStatus(ctx, intent.TaskID, intent.To)
	return task, true, err
}
