package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const maxErrorBody = 4 << 10

// CRMIface is the subset of the backend API the services depend on.
type CRMIface interface {
	FetchTasks(ctx context.Context, filter models.Filter) ([]models.Task, error)
	GetTask(ctx context.Context, taskID string) (models.Task, error)
	CreateTask(ctx context.Context, task models.NewTask) (models.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	FetchEmployees(ctx context.Context) ([]models.Employee, error)
	FetchLabels(ctx context.Context) ([]models.Label, error)
	CreateLabel(ctx context.Context, label models.Label) (models.Label, error)
	DeleteLabel(ctx context.Context, labelID string) error
	UploadFile(ctx context.Context, taskID, fileName string, content io.Reader) (models.Attachment, error)
}

// CRM is the REST client of the CRM backend. Every request is authorized with the
// session held by the store and is paced by the limiter.
type CRM struct {
	log      *slog.Logger
	client   *http.Client
	baseURL  *url.URL
	sessions *auth.SessionStore
	limiter  *rate.Limiter
	validate *validator.Validate
	metrics  *metrics.Metrics
}

// NewCRM creates a backend client. A nil limiter disables pacing.
func NewCRM(
	log *slog.Logger,
	httpClient *http.Client,
	baseURL string,
	sessions *auth.SessionStore,
	limiter *rate.Limiter,
	metrics *metrics.Metrics,
) (*CRM, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse backend URL %s: %w", baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("backend URL must be absolute, got '%s'", baseURL)
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 0)
	}

	return &CRM{
		log:      log.With(slog.String("division", "crm")),
		client:   httpClient,
		baseURL:  parsed,
		sessions: sessions,
		limiter:  limiter,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
	}, nil
}

// FetchTasks returns the task collection, narrowed on the backend by filter.
func (c *CRM) FetchTasks(ctx context.Context, filter models.Filter) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, request{
		operation: "fetch_tasks",
		method:    http.MethodGet,
		path:      []string{"api", "tasks"},
		query:     filterQuery(filter),
	}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *CRM) GetTask(ctx context.Context, taskID string) (models.Task, error) {
	var task models.Task
	if err := c.do(ctx, request{
		record:    true,
		operation: "get_task",
		method:    http.MethodGet,
		path:      []string{"api", "tasks", taskID},
	}, &task); err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// CreateTask validates the payload locally before sending it.
func (c *CRM) CreateTask(ctx context.Context, task models.NewTask) (models.Task, error) {
	if err := c.validate.Struct(task); err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	body, err := json.Marshal(task)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to encode task: %w", err)
	}

	var created models.Task
	if err = c.do(ctx, request{
		record:      true,
		operation:   "create_task",
		method:      http.MethodPost,
		path:        []string{"api", "tasks"},
		body:        body,
		contentType: "application/json",
	}, &created); err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// UpdateTask sends a partial update and returns the backend's full record.
func (c *CRM) UpdateTask(ctx context.Context, taskID string, patch models.TaskPatch) (models.Task, error) {
	body, err := json.Marshal(patch)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to encode task patch: %w", err)
	}

	var updated models.Task
	if err = c.do(ctx, request{
		record:      true,
		operation:   "update_task",
		method:      http.MethodPatch,
		path:        []string{"api", "tasks", taskID},
		body:        body,
		contentType: "application/json",
	}, &updated); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

func (c *CRM) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, request{
		operation: "delete_task",
		method:    http.MethodDelete,
		path:      []string{"api", "tasks", taskID},
	}, nil)
}

func (c *CRM) FetchEmployees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := c.do(ctx, request{
		operation: "fetch_employees",
		method:    http.MethodGet,
		path:      []string{"api", "employees"},
	}, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (c *CRM) FetchLabels(ctx context.Context) ([]models.Label, error) {
	var labels []models.Label
	if err := c.do(ctx, request{
		operation: "fetch_labels",
		method:    http.MethodGet,
		path:      []string{"api", "labels"},
	}, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

func (c *CRM) CreateLabel(ctx context.Context, label models.Label) (models.Label, error) {
	if strings.TrimSpace(label.Name) == "" {
		return models.Label{}, fmt.Errorf("%w: label name is empty", ErrInvalidTask)
	}

	body, err := json.Marshal(label)
	if err != nil {
		return models.Label{}, fmt.Errorf("failed to encode label: %w", err)
	}

	var created models.Label
	if err = c.do(ctx, request{
		operation:   "create_label",
		method:      http.MethodPost,
		path:        []string{"api", "labels"},
		body:        body,
		contentType: "application/json",
	}, &created); err != nil {
		return models.Label{}, err
	}
	return created, nil
}

func (c *CRM) DeleteLabel(ctx context.Context, labelID string) error {
	return c.do(ctx, request{
		operation: "delete_label",
		method:    http.MethodDelete,
		path:      []string{"api", "labels", labelID},
	}, nil)
}

// UploadFile attaches a file to a task with a multipart request.
func (c *CRM) UploadFile(
	ctx context.Context,
	taskID, fileName string,
	content io.Reader,
) (models.Attachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("taskId", taskID); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to write multipart field: %w", err)
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to create multipart file: %w", err)
	}
	if _, err = io.Copy(part, content); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to copy file content: %w", err)
	}
	if err = writer.Close(); err != nil {
		return models.Attachment{}, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	var attachment models.Attachment
	if err = c.do(ctx, request{
		operation:   "upload_file",
		method:      http.MethodPost,
		path:        []string{"api", "tasks", taskID, "files"},
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
	}, &attachment); err != nil {
		return models.Attachment{}, err
	}
	return attachment, nil
}

type request struct {
	// record marks operations whose response must carry an entity; an empty body fails them.
	record      bool
	operation   string
	method      string
	path        []string
	query       url.Values
	body        []byte
	contentType string
}

func (c *CRM) do(ctx context.Context, rq request, out any) error {
	startTime := time.Now()
	outcome := "success"
	defer func() {
		c.metrics.BackendRequests.WithLabelValues(rq.operation, outcome).Inc()
		c.metrics.BackendDuration.WithLabelValues(rq.operation).Observe(time.Since(startTime).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		outcome = "network_error"
		return fmt.Errorf("%w: %s: rate limiter: %w", ErrNetwork, rq.operation, err)
	}

	req, err := c.newRequest(ctx, rq)
	if err != nil {
		outcome = "invalid_request"
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		outcome = "network_error"
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, rq.method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		outcome = "rejected"
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.DebugContext(ctx, "Backend rejected request",
			"operation", rq.operation, "status_code", resp.StatusCode, "request_id", req.Header.Get("X-Request-ID"))
		return &StatusError{Operation: rq.operation, Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}
	if resp.StatusCode == http.StatusNoContent {
		if rq.record {
			outcome = "decode_error"
			return fmt.Errorf("%w: %s: %w", ErrNetwork, rq.operation, ErrEmptyResponse)
		}
		return nil
	}

	err = json.NewDecoder(resp.Body).Decode(out)
	switch {
	case errors.Is(err, io.EOF) && rq.record:
		outcome = "decode_error"
		return fmt.Errorf("%w: %s: %w", ErrNetwork, rq.operation, ErrEmptyResponse)
	case err != nil && !errors.Is(err, io.EOF):
		outcome = "decode_error"
		return fmt.Errorf("%w: %s: failed to decode response: %w", ErrNetwork, rq.operation, err)
	}

	return nil
}

func (c *CRM) newRequest(ctx context.Context, rq request) (*http.Request, error) {
	segments := make([]string, 0, len(rq.path))
	for _, segment := range rq.path {
		if segment == "" {
			return nil, fmt.Errorf("%w: %s: empty path segment", ErrNotFound, rq.operation)
		}
		segments = append(segments, url.PathEscape(segment))
	}

	target := c.baseURL.JoinPath(segments...)
	if len(rq.query) > 0 {
		target.RawQuery = rq.query.Encode()
	}

	var body io.Reader
	if rq.body != nil {
		body = bytes.NewReader(rq.body)
	}

	req, err := http.NewRequestWithContext(ctx, rq.method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", target.String(), err)
	}

	if err = c.sessions.Get().Authorize(req); err != nil {
		return nil, fmt.Errorf("%s: %w", rq.operation, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", models.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if rq.contentType != "" {
		req.Header.Set("Content-Type", rq.contentType)
	}

	return req, nil
}

func filterQuery(filter models.Filter) url.Values {
	query := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			query.Set(key, value)
		}
	}

	set("q", filter.Query)
	set("status", string(filter.Status))
	set("priority", string(filter.Priority))
	set("assignee", filter.Assignee)
	set("tag", filter.Tag)
	set("deadline_from", filter.DeadlineFrom)
	set("deadline_to", filter.DeadlineTo)

	return query
}
