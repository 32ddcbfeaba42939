package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/UnknownOlympus/hestia/internal/board"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/server"
	mocks "github.com/UnknownOlympus/hestia/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type updaterFunc func(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error)

func (f updaterFunc) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
	return f(ctx, taskID, patch)
}

// echoUpdater confirms every update by returning the task with the requested status.
func echoUpdater(b **board.Board) updaterFunc {
	return func(_ context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
		task, _ := (*b).Task(taskID)
		task.Status = *patch.Status
		return task, nil
	}
}

var boardTasks = []models.Task{
	{ID: "t1", Title: "Write docs", Status: models.StatusTodo, Priority: models.PriorityLow,
		Start: "2024-05-01", Deadline: "2024-05-03", Tags: []string{"docs"}},
	{ID: "t2", Title: "Fix bug", Status: models.StatusInProgress, Priority: models.PriorityHigh,
		Deadline: "2024-05-05", Assignees: []models.Assignee{{Name: "alice"}}},
	{ID: "t3", Title: "Ship it", Status: models.StatusDone},
}

type apiFixture struct {
	board   *board.Board
	history *mocks.TaskRepoIface
	handler http.Handler
}

func newAPIFixture(t *testing.T, updater board.TaskUpdater) *apiFixture {
	t.Helper()

	log := slog.New(slog.DiscardHandler)
	reg := prometheus.NewRegistry()
	mtr := metrics.NewMetrics(reg)

	f := &apiFixture{history: mocks.NewTaskRepoIface(t)}
	if updater == nil {
		updater = echoUpdater(&f.board)
	}
	f.board = board.NewBoard(log, updater, nil, board.NewLogNotifier(log, mtr), nil, mtr)
	f.board.Load(boardTasks)

	health := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	f.handler = server.New(log, server.NewAPI(log, f.board, f.history), health, reg)

	return f
}

func (f *apiFixture) do(t *testing.T, method, target, body, session string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(server.SessionHeader, session)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type listBody struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
}

type dragBody struct {
	Drag    board.DragSnapshot `json:"drag"`
	Updated bool               `json:"updated"`
	Task    *models.Task       `json:"task"`
}

func TestList(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)

	tests := []struct {
		name  string
		query string
		ids   []string
	}{
		{"no filter", "", []string{"t1", "t2", "t3"}},
		{"status", "?status=IN-PROGRESS", []string{"t2"}},
		{"priority", "?priority=HIGH", []string{"t2"}},
		{"assignee", "?assignee=alice", []string{"t2"}},
		{"tag", "?tag=docs", []string{"t1"}},
		{"query", "?q=ship", []string{"t3"}},
		{"deadline range", "?deadline_from=2024-05-04&deadline_to=2024-05-10", []string{"t2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := f.do(t, http.MethodGet, "/api/board/list"+tt.query, "", "")
			require.Equal(t, http.StatusOK, rec.Code)

			body := decode[listBody](t, rec)
			ids := make([]string, 0, len(body.Tasks))
			for _, task := range body.Tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.ids, ids)
			assert.Equal(t, len(tt.ids), body.Count)
		})
	}
}

func TestKanban(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/board/kanban", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	columns := decode[map[string][]models.Task](t, rec)
	require.Len(t, columns, len(models.Statuses))
	assert.Empty(t, columns["backlog"])
	require.Len(t, columns["in-progress"], 1)
	assert.Equal(t, "t2", columns["in-progress"][0].ID)
	require.Len(t, columns["done"], 1)
}

func TestGantt(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/api/board/gantt", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	chart := decode[board.GanttChart](t, rec)
	require.Len(t, chart.Rows, 2)
	assert.Equal(t, "t1", chart.Rows[0].Task.ID)
	assert.Equal(t, 3, chart.Rows[0].Span)
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{"status":"review"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		task := decode[models.Task](t, rec)
		assert.Equal(t, models.StatusReview, task.Status)

		stored, ok := f.board.Task("t1")
		require.True(t, ok)
		assert.Equal(t, models.StatusReview, stored.Status)
	})

	t.Run("unknown task", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/nope/status", `{"status":"done"}`, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid status", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{"status":"archived"}`, "")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing status", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{}`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{"status":`, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("backend failure rolls back", func(t *testing.T) {
		t.Parallel()

		failing := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
			return models.Task{}, client.ErrNetwork
		})
		f := newAPIFixture(t, failing)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{"status":"done"}`, "")
		require.Equal(t, http.StatusBadGateway, rec.Code)

		stored, ok := f.board.Task("t1")
		require.True(t, ok)
		assert.Equal(t, models.StatusTodo, stored.Status)
	})

	t.Run("backend confirms another record", func(t *testing.T) {
		t.Parallel()

		empty := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
			return models.Task{}, nil
		})
		f := newAPIFixture(t, empty)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{"status":"done"}`, "")
		require.Equal(t, http.StatusBadGateway, rec.Code)

		stored, ok := f.board.Task("t1")
		require.True(t, ok)
		assert.Equal(t, "t1", stored.ID)
		assert.Equal(t, models.StatusTodo, stored.Status)
	})

	t.Run("backend lost the task", func(t *testing.T) {
		t.Parallel()

		gone := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
			return models.Task{}, &client.StatusError{Operation: "update_task", Code: http.StatusNotFound}
		})
		f := newAPIFixture(t, gone)

		rec := f.do(t, http.MethodPatch, "/api/board/tasks/t1/status", `{"status":"done"}`, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskHistory(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)
		changes := []models.StatusChange{{TaskID: "t1", From: models.StatusTodo, To: models.StatusDone, Outcome: "committed"}}
		f.history.On("ListStatusChanges", mock.Anything, "t1", 5).Return(changes, nil).Once()

		rec := f.do(t, http.MethodGet, "/api/board/tasks/t1/history?limit=5", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		got := decode[[]models.StatusChange](t, rec)
		require.Len(t, got, 1)
		assert.Equal(t, models.StatusDone, got[0].To)
	})

	t.Run("invalid limit", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodGet, "/api/board/tasks/t1/history?limit=-1", "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("limit above maximum", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)

		rec := f.do(t, http.MethodGet, "/api/board/tasks/t1/history?limit=1000000000", "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("maximum limit accepted", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)
		f.history.On("ListStatusChanges", mock.Anything, "t1", repository.MaxChangesLimit).
			Return([]models.StatusChange{}, nil).Once()

		rec := f.do(t, http.MethodGet, "/api/board/tasks/t1/history?limit=500", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		t.Parallel()

		f := newAPIFixture(t, nil)
		f.history.On("ListStatusChanges", mock.Anything, "t1", 0).Return(nil, assert.AnError).Once()

		rec := f.do(t, http.MethodGet, "/api/board/tasks/t1/history", "", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestDragFlow(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)
	const sess = "pointer-1"

	rec := f.do(t, http.MethodPost, "/api/board/drag/start", `{"taskId":"t1"}`, sess)
	require.Equal(t, http.StatusOK, rec.Code)
	started := decode[dragBody](t, rec)
	assert.Equal(t, board.DragDragging, started.Drag.State)
	assert.Equal(t, models.StatusTodo, started.Drag.Origin)

	rec = f.do(t, http.MethodPost, "/api/board/drag/enter", `{"status":"review"}`, sess)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, board.DragHovering, decode[dragBody](t, rec).Drag.State)

	// another session is unaffected
	rec = f.do(t, http.MethodGet, "/api/board/drag", "", "pointer-2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, board.DragIdle, decode[dragBody](t, rec).Drag.State)

	rec = f.do(t, http.MethodPost, "/api/board/drag/leave", "", sess)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, board.DragDragging, decode[dragBody](t, rec).Drag.State)

	rec = f.do(t, http.MethodPost, "/api/board/drag/drop", `{"status":"Done"}`, sess)
	require.Equal(t, http.StatusOK, rec.Code)
	dropped := decode[dragBody](t, rec)
	assert.True(t, dropped.Updated)
	assert.Equal(t, board.DragIdle, dropped.Drag.State)
	require.NotNil(t, dropped.Task)
	assert.Equal(t, models.StatusDone, dropped.Task.Status)

	stored, ok := f.board.Task("t1")
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, stored.Status)
}

func TestDragDropSameColumnIsNoop(t *testing.T) {
	t.Parallel()

	called := false
	updater := updaterFunc(func(context.Context, string, models.TaskPatch) (models.Task, error) {
		called = true
		return models.Task{}, nil
	})
	f := newAPIFixture(t, updater)

	rec := f.do(t, http.MethodPost, "/api/board/drag/start", `{"taskId":"t2"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/board/drag/drop", `{"status":"in-progress"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	dropped := decode[dragBody](t, rec)
	assert.False(t, dropped.Updated)
	assert.Nil(t, dropped.Task)
	assert.False(t, called)
}

func TestDragStartUnknownTask(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/board/drag/start", `{"taskId":"missing"}`, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDragCancel(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/api/board/drag/start", `{"taskId":"t1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/board/drag/cancel", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, board.DragIdle, decode[dragBody](t, rec).Drag.State)

	rec = f.do(t, http.MethodPost, "/api/board/drag/drop", `{"status":"done"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[dragBody](t, rec).Updated)
}

func TestRenderProposal(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)
	body := `{"number":"PRO-1","clientName":"Acme","date":"2024-05-01",
		"items":[{"description":"Work","quantity":2,"rate":50}],"taxes":[{"name":"VAT","percent":10}]}`

	rec := f.do(t, http.MethodPost, "/api/proposals/render?autoprint=true", body, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "110.00 USD")
	assert.Contains(t, rec.Body.String(), "window.print()")

	rec = f.do(t, http.MethodPost, "/api/proposals/render", `{"number":"PRO-2"}`, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHealthAndMetricsRoutes(t *testing.T) {
	t.Parallel()

	f := newAPIFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hestia_board_tasks 3")
}
