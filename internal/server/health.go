package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
)

// Pinger is a dependency that can report its availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthChecker struct {
	db         Pinger
	cache      Pinger
	backendURL string
	httpClient *http.Client
	log        *slog.Logger
}

// NewHealthChecker creates the /healthz handler. cache may be nil when caching is disabled.
func NewHealthChecker(db, cache Pinger, backendURL string, log *slog.Logger) *HealthChecker {
	const clientTO = 5 * time.Second
	return &HealthChecker{
		db:         db,
		cache:      cache,
		backendURL: backendURL,
		httpClient: &http.Client{Timeout: clientTO},
		log:        log.With(slog.String("division", "health")),
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	h.log.DebugContext(ctx, "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: DB ping", sl.Err(err))
	} else {
		status["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// cache loss degrades, never fails, the report
			status["cache"] = "unavailable"
			h.log.WarnContext(ctx, "Health check failed: cache ping", sl.Err(err))
		} else {
			status["cache"] = "ok"
		}
	}

	backend, healthy := h.checkBackend(ctx)
	status["backend"] = backend
	if !healthy {
		overallStatus = http.StatusServiceUnavailable
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}

func (h *HealthChecker) checkBackend(ctx context.Context) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.backendURL, nil)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: invalid backend url", "host", h.backendURL, sl.Err(err))
		return "unreachable", false
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: backend unreachable", "host", h.backendURL, sl.Err(err))
		return "unreachable", false
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			h.log.WarnContext(ctx, "Failed to close response body", sl.Err(closeErr))
		}
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.WarnContext(ctx, "Health check failed: backend returned error status",
			"host", h.backendURL, "status_code", resp.StatusCode)
		return "degraded", false
	}

	return "ok", true
}
