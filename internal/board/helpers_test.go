package board_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/board"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

type updaterFunc func(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error)

func (f updaterFunc) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
	return f(ctx, taskID, patch)
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *recordingNotifier) Success(_ context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *recordingNotifier) Failure(_ context.Context, message string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.failures)
}

type recordingAuditor struct {
	mu      sync.Mutex
	changes []models.StatusChange
	err     error
}

func (a *recordingAuditor) SaveStatusChange(_ context.Context, change models.StatusChange) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.changes = append(a.changes, change)
	return a.err
}

type stubSessions struct {
	mu          sync.Mutex
	err         error
	ensured     int
	invalidated int
}

func (s *stubSessions) Ensure(context.Context) (auth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensured++
	if s.err != nil {
		return auth.Session{}, s.err
	}
	return auth.Session{Token: "token"}, nil
}

func (s *stubSessions) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated++
}

func newTestBoard(t *testing.T, api board.TaskUpdater) (*board.Board, *recordingNotifier, *recordingAuditor) {
	t.Helper()

	return newTestBoardWithSessions(t, api, nil)
}

func newTestBoardWithSessions(
	t *testing.T,
	api board.TaskUpdater,
	sessions board.SessionKeeper,
) (*board.Board, *recordingNotifier, *recordingAuditor) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := &recordingNotifier{}
	auditor := &recordingAuditor{}
	appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

	return board.NewBoard(logger, api, sessions, notifier, auditor, appMetrics), notifier, auditor
}

func task(id string, status models.Status) models.Task {
	return models.Task{ID: id, Title: "Task " + id, Status: status}
}
