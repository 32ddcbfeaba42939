package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/hestia/internal/board"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/UnknownOlympus/hestia/internal/proposal"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// SessionHeader identifies the board session whose drag machine a request drives.
const SessionHeader = "X-Board-Session"

// BoardService is the part of the board the API exposes.
type BoardService interface {
	List(filter models.Filter) []models.Task
	Kanban(filter models.Filter) board.Columns
	Gantt(filter models.Filter) board.GanttChart
	UpdateStatus(ctx context.Context, taskID string, next models.Status) (models.Task, error)
	StartDrag(session, taskID string) (board.DragSnapshot, error)
	Drag(session string) *board.DragMachine
	Drop(ctx context.Context, session string, target models.Status) (models.Task, bool, error)
}

// HistoryReader lists the recorded status changes of a task.
type HistoryReader interface {
	ListStatusChanges(ctx context.Context, taskID string, limit int) ([]models.StatusChange, error)
}

type API struct {
	log      *slog.Logger
	board    BoardService
	history  HistoryReader
	validate *validator.Validate
}

// NewAPI creates the board API. history may be nil when no audit store is configured.
func NewAPI(log *slog.Logger, board BoardService, history HistoryReader) *API {
	return &API{
		log:      log.With(slog.String("division", "api")),
		board:    board,
		history:  history,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Register wires up all API routes on the provided Echo instance.
func (a *API) Register(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/board/list", a.list)
	api.GET("/board/kanban", a.kanban)
	api.GET("/board/gantt", a.gantt)
	api.PATCH("/board/tasks/:id/status", a.updateStatus)
	api.GET("/board/tasks/:id/history", a.taskHistory)

	api.GET("/board/drag", a.dragState)
	api.POST("/board/drag/start", a.dragStart)
	api.POST("/board/drag/enter", a.dragEnter)
	api.POST("/board/drag/leave", a.dragLeave)
	api.POST("/board/drag/drop", a.dragDrop)
	api.POST("/board/drag/cancel", a.dragCancel)

	api.POST("/proposals/render", a.renderProposal)
}

type listResponse struct {
	Tasks []models.Task `json:"tasks"`
	Count int           `json:"count"`
}

type statusRequest struct {
	Status models.Status `json:"status" validate:"required"`
}

type dragStartRequest struct {
	TaskID string `json:"taskId" validate:"required"`
}

type dragResponse struct {
	Drag    board.DragSnapshot `json:"drag"`
	Updated bool               `json:"updated"`
	Task    *models.Task       `json:"task,omitempty"`
}

func (a *API) list(c echo.Context) error {
	filter, err := bindFilter(c)
	if err != nil {
		return err
	}

	tasks := a.board.List(filter)
	return c.JSON(http.StatusOK, listResponse{Tasks: tasks, Count: len(tasks)})
}

func (a *API) kanban(c echo.Context) error {
	filter, err := bindFilter(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, a.board.Kanban(filter))
}

func (a *API) gantt(c echo.Context) error {
	filter, err := bindFilter(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, a.board.Gantt(filter))
}

func (a *API) updateStatus(c echo.Context) error {
	var req statusRequest
	if err := a.bind(c, &req); err != nil {
		return err
	}

	task, err := a.board.UpdateStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return a.mapError(c, err)
	}

	return c.JSON(http.StatusOK, task)
}

func (a *API) taskHistory(c echo.Context) error {
	if a.history == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "status history is not recorded")
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > repository.MaxChangesLimit {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("limit must be between 1 and %d", repository.MaxChangesLimit))
		}
		limit = parsed
	}

	changes, err := a.history.ListStatusChanges(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return a.mapError(c, err)
	}

	return c.JSON(http.StatusOK, changes)
}

func (a *API) dragState(c echo.Context) error {
	return c.JSON(http.StatusOK, dragResponse{Drag: a.board.Drag(session(c)).Snapshot()})
}

func (a *API) dragStart(c echo.Context) error {
	var req dragStartRequest
	if err := a.bind(c, &req); err != nil {
		return err
	}

	snapshot, err := a.board.StartDrag(session(c), req.TaskID)
	if err != nil {
		return a.mapError(c, err)
	}

	return c.JSON(http.StatusOK, dragResponse{Drag: snapshot})
}

func (a *API) dragEnter(c echo.Context) error {
	var req statusRequest
	if err := a.bind(c, &req); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dragResponse{Drag: a.board.Drag(session(c)).Enter(req.Status)})
}

func (a *API) dragLeave(c echo.Context) error {
	return c.JSON(http.StatusOK, dragResponse{Drag: a.board.Drag(session(c)).Leave()})
}

func (a *API) dragDrop(c echo.Context) error {
	var req statusRequest
	if err := a.bind(c, &req); err != nil {
		return err
	}

	sess := session(c)
	task, updated, err := a.board.Drop(c.Request().Context(), sess, req.Status)
	if err != nil {
		return a.mapError(c, err)
	}

	resp := dragResponse{Drag: a.board.Drag(sess).Snapshot(), Updated: updated}
	if updated {
		resp.Task = &task
	}
	return c.JSON(http.StatusOK, resp)
}

func (a *API) dragCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, dragResponse{Drag: a.board.Drag(session(c)).Cancel()})
}

func (a *API) renderProposal(c echo.Context) error {
	var p models.Proposal
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid proposal body")
	}

	var opts []proposal.Option
	if autoPrint, _ := strconv.ParseBool(c.QueryParam("autoprint")); autoPrint {
		opts = append(opts, proposal.WithAutoPrint())
	}

	doc, err := proposal.Render(p, opts...)
	if err != nil {
		return a.mapError(c, err)
	}

	return c.HTML(http.StatusOK, doc)
}

func (a *API) bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := a.validate.Struct(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// mapError translates domain errors into HTTP statuses.
func (a *API) mapError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, board.ErrNotFound), errors.Is(err, client.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, board.ErrInvalidStatus), errors.Is(err, client.ErrInvalidTask),
		errors.Is(err, proposal.ErrInvalidProposal):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, client.ErrNetwork), errors.Is(err, client.ErrServerRejected),
		errors.Is(err, board.ErrMismatchedRecord):
		code = http.StatusBadGateway
	}

	if code == http.StatusInternalServerError {
		a.log.ErrorContext(c.Request().Context(), "Request failed", "path", c.Path(), "error", err)
	}

	return echo.NewHTTPError(code, err.Error())
}

func bindFilter(c echo.Context) (models.Filter, error) {
	var filter models.Filter
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &filter); err != nil {
		return models.Filter{}, echo.NewHTTPError(http.StatusBadRequest, "invalid filter")
	}
	return filter, nil
}

func session(c echo.Context) string {
	return c.Request().Header.Get(SessionHeader)
}
