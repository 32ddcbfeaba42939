package board_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/hestia/internal/board"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateStatus_SameStatusIsNoop(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	api := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		calls.Add(1)
		return models.Task{}, nil
	})
	brd, notifier, auditor := newTestBoard(t, api)
	brd.Load([]models.Task{task("1", "In-Progress")})
	before := brd.Snapshot()

	got, err := brd.UpdateStatus(t.Context(), "1", "in-progress")

	require.NoError(t, err)
	assert.Equal(t, models.Status("In-Progress"), got.Status)
	assert.Zero(t, calls.Load(), "no network call expected")
	assert.Equal(t, before, brd.Snapshot(), "no state mutation expected")
	successes, failures := notifier.counts()
	assert.Zero(t, successes)
	assert.Zero(t, failures)
	assert.Empty(t, auditor.changes)
}

func TestUpdateStatus_RollbackOnFailure(t *testing.T) {
	t.Parallel()

	api := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		return models.Task{}, assert.AnError
	})
	brd, notifier, auditor := newTestBoard(t, api)
	brd.Load([]models.Task{task("1", models.StatusTodo)})

	_, err := brd.UpdateStatus(t.Context(), "1", models.StatusDone)

	require.ErrorIs(t, err, assert.AnError)
	current, ok := brd.Task("1")
	require.True(t, ok)
	assert.Equal(t, models.StatusTodo, current.Status)

	successes, failures := notifier.counts()
	assert.Zero(t, successes)
	assert.Equal(t, 1, failures, "failure must be notified exactly once")

	require.Len(t, auditor.changes, 1)
	assert.Equal(t, "rolled_back", auditor.changes[0].Outcome)
	assert.Equal(t, models.StatusTodo, auditor.changes[0].From)
	assert.Equal(t, models.StatusDone, auditor.changes[0].To)
}

func TestUpdateStatus_CommitReplacesWholeRecord(t *testing.T) {
	t.Parallel()

	var sent models.TaskPatch
	api := updaterFunc(func(_ context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
		sent = patch
		return models.Task{ID: taskID, Status: models.StatusDone, Title: "X"}, nil
	})
	brd, notifier, _ := newTestBoard(t, api)
	original := models.Task{
		ID: "1", Title: "Old", Status: models.StatusTodo, Priority: models.PriorityHigh, Tags: []string{"crm"},
	}
	brd.Load([]models.Task{original})

	got, err := brd.UpdateStatus(t.Context(), "1", models.StatusDone)

	require.NoError(t, err)
	require.NotNil(t, sent.Status)
	assert.Equal(t, models.StatusDone, *sent.Status)

	want := models.Task{ID: "1", Status: models.StatusDone, Title: "X"}
	assert.Equal(t, want, got)
	current, ok := brd.Task("1")
	require.True(t, ok)
	assert.Equal(t, want, current, "fields absent from the response must not survive")

	successes, failures := notifier.counts()
	assert.Equal(t, 1, successes)
	assert.Zero(t, failures)
}

func TestUpdateStatus_OptimisticStateVisibleInFlight(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	api := updaterFunc(func(_ context.Context, taskID string, _ models.TaskPatch) (models.Task, error) {
		close(entered)
		<-release
		return task(taskID, models.StatusReview), nil
	})
	brd, _, _ := newTestBoard(t, api)
	brd.Load([]models.Task{task("1", models.StatusTodo)})

	done := make(chan error, 1)
	go func() {
		_, err := brd.UpdateStatus(context.Background(), "1", models.StatusReview)
		done <- err
	}()

	<-entered
	current, _ := brd.Task("1")
	assert.Equal(t, models.StatusReview, current.Status)
	assert.Len(t, brd.Kanban(models.Filter{})[models.StatusReview], 1)

	close(release)
	require.NoError(t, <-done)
}

func TestUpdateStatus_UnknownTask(t *testing.T) {
	t.Parallel()

	api := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		t.Fatal("backend must not be called")
		return models.Task{}, nil
	})
	brd, notifier, _ := newTestBoard(t, api)

	_, err := brd.UpdateStatus(t.Context(), "missing", models.StatusDone)

	require.ErrorIs(t, err, board.ErrNotFound)
	_, failures := notifier.counts()
	assert.Equal(t, 1, failures)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	t.Parallel()

	brd, _, _ := newTestBoard(t, updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		t.Fatal("backend must not be called")
		return models.Task{}, nil
	}))
	brd.Load([]models.Task{task("1", models.StatusTodo)})

	_, err := brd.UpdateStatus(t.Context(), "1", "archived")

	require.ErrorIs(t, err, board.ErrInvalidStatus)
}

func TestUpdateStatus_StaleResponsesAreDiscarded(t *testing.T) {
	t.Parallel()

	// The first request (todo -> review) answers after the second one (review -> done).
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	api := updaterFunc(func(_ context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
		if *patch.Status == models.StatusReview {
			close(firstEntered)
			<-releaseFirst
			return task(taskID, models.StatusReview), nil
		}
		return task(taskID, models.StatusDone), nil
	})
	brd, _, auditor := newTestBoard(t, api)
	brd.Load([]models.Task{task("1", models.StatusTodo)})

	firstDone := make(chan error, 1)
	go func() {
		_, err := brd.UpdateStatus(context.Background(), "1", models.StatusReview)
		firstDone <- err
	}()
	<-firstEntered

	_, err := brd.UpdateStatus(t.Context(), "1", models.StatusDone)
	require.NoError(t, err)

	close(releaseFirst)
	require.NoError(t, <-firstDone)

	current, _ := brd.Task("1")
	assert.Equal(t, models.StatusDone, current.Status, "late response of an older request must not win")

	outcomes := map[string]int{}
	for _, change := range auditor.changes {
		outcomes[change.Outcome]++
	}
	assert.Equal(t, map[string]int{"committed": 1, "stale": 1}, outcomes)
}

func TestUpdateStatus_LatestFailureRestoresConfirmedStatus(t *testing.T) {
	t.Parallel()

	// todo -> review is in flight when review -> done fails; done must not roll back
	// to the unconfirmed intermediate review status.
	firstEntered := make(chan struct{})
	releaseFirst := make(chan struct{})
	api := updaterFunc(func(_ context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
		if *patch.Status == models.StatusReview {
			close(firstEntered)
			<-releaseFirst
			return models.Task{}, assert.AnError
		}
		return models.Task{}, assert.AnError
	})
	brd, notifier, _ := newTestBoard(t, api)
	brd.Load([]models.Task{task("1", models.StatusTodo)})

	firstDone := make(chan error, 1)
	go func() {
		_, err := brd.UpdateStatus(context.Background(), "1", models.StatusReview)
		firstDone <- err
	}()
	<-firstEntered

	_, err := brd.UpdateStatus(t.Context(), "1", models.StatusDone)
	require.Error(t, err)

	current, _ := brd.Task("1")
	assert.Equal(t, models.StatusTodo, current.Status)

	close(releaseFirst)
	require.Error(t, <-firstDone)

	current, _ = brd.Task("1")
	assert.Equal(t, models.StatusTodo, current.Status)
	_, failures := notifier.counts()
	assert.Equal(t, 2, failures)
}

func TestUpdateStatus_AuditErrorIsNotSurfaced(t *testing.T) {
	t.Parallel()

	api := updaterFunc(func(_ context.Context, taskID string, _ models.TaskPatch) (models.Task, error) {
		return task(taskID, models.StatusDone), nil
	})
	brd, _, auditor := newTestBoard(t, api)
	auditor.err = assert.AnError
	brd.Load([]models.Task{task("1", models.StatusTodo)})

	_, err := brd.UpdateStatus(t.Context(), "1", models.StatusDone)

	require.NoError(t, err)
	require.Len(t, auditor.changes, 1)
	assert.WithinDuration(t, time.Now(), auditor.changes[0].At, time.Minute)
}

func TestLoad_ReplacesContentsAndDeduplicates(t *testing.T) {
	t.Parallel()

	brd, _, _ := newTestBoard(t, updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		return models.Task{}, nil
	}))

	brd.Load([]models.Task{task("1", models.StatusTodo), task("2", models.StatusDone)})
	brd.Load([]models.Task{task("3", models.StatusBacklog), task("1", models.StatusTodo), task("1", models.StatusReview)})

	snapshot := brd.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "3", snapshot[0].ID)
	assert.Equal(t, "1", snapshot[1].ID)
	assert.Equal(t, models.StatusReview, snapshot[1].Status)

	_, ok := brd.Task("2")
	assert.False(t, ok)
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()

	brd, _, _ := newTestBoard(t, updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		return models.Task{}, nil
	}))
	brd.Load([]models.Task{{ID: "1", Status: models.StatusTodo, Tags: []string{"a"}}})

	snapshot := brd.Snapshot()
	snapshot[0].Tags[0] = "mutated"
	snapshot[0].Status = models.StatusDone

	current, _ := brd.Task("1")
	assert.Equal(t, []string{"a"}, current.Tags)
	assert.Equal(t, models.StatusTodo, current.Status)
}
