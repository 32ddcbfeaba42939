package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the HTTP server: the board API, /healthz and /metrics.
func New(log *slog.Logger, api *API, health http.Handler, reg *prometheus.Registry) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.WarnContext(c.Request().Context(), "Request failed", append(attrs, slog.String("error", v.Error.Error()))...)
				return nil
			}
			log.DebugContext(c.Request().Context(), "Request served", attrs...)
			return nil
		},
	}))

	api.Register(e)
	e.GET("/healthz", echo.WrapHandler(health))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	return e
}

// Start serves e on port until ctx is done, then shuts it down gracefully.
func Start(ctx context.Context, log *slog.Logger, e *echo.Echo, port int) error {
	const shutdownTimeout = 10 * time.Second

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", port)
		log.InfoContext(ctx, "HTTP server listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	log.InfoContext(ctx, "HTTP server stopped")
	return nil
}
