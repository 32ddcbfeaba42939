package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/UnknownOlympus/hestia/internal/auth"
	"github.com/UnknownOlympus/hestia/internal/board"
	"github.com/UnknownOlympus/hestia/internal/cache"
	"github.com/UnknownOlympus/hestia/internal/client"
	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/metrics"
	"github.com/UnknownOlympus/hestia/internal/repository"
	"github.com/UnknownOlympus/hestia/internal/server"
	"github.com/UnknownOlympus/hestia/internal/services/employees"
	"github.com/UnknownOlympus/hestia/internal/services/tasks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	var wgr sync.WaitGroup

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	dtb, err := repository.NewDatabase(ctx,
		cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Dbname)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer dtb.Close()

	var rdb *redis.Client
	var cachePinger server.Pinger
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		cachePinger = server.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	var limiter *rate.Limiter
	if cfg.Backend.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Backend.RateLimit), 1)
	}

	httpClient := client.CreateHTTPClient(logger, cfg.Backend.Timeout)
	sessions := auth.NewSessionStore(auth.Session{})
	renewer := auth.NewRenewer(logger, httpClient, auth.Credentials{
		LoginURL: cfg.Backend.LoginURL,
		BaseURL:  cfg.Backend.BaseURL,
		Username: cfg.Backend.Username,
		Password: cfg.Backend.Password,
	}, sessions, cfg.Backend.RetryDelay)

	crm, err := client.NewCRM(logger, httpClient, cfg.Backend.BaseURL, sessions, limiter, appMetrics)
	if err != nil {
		log.Fatalf("Failed to create backend client: %v", err)
	}
	cachedCRM := cache.New(logger, crm, rdb, cfg.Redis.TTL, appMetrics)

	employeeRepo := repository.NewEmployeeRepository(dtb, appMetrics)
	taskRepo := repository.NewTaskRepository(dtb, appMetrics)
	statRepo := repository.NewSyncStatusRepository(dtb, appMetrics)

	taskBoard := board.NewBoard(logger, cachedCRM, renewer, board.NewLogNotifier(logger, appMetrics), taskRepo, appMetrics)
	staff := employees.NewStaff(logger, employeeRepo, statRepo, cachedCRM, renewer, appMetrics)
	taskService := tasks.NewTaskService(logger, cachedCRM, taskBoard, taskRepo, statRepo, renewer, appMetrics)

	health := server.NewHealthChecker(dtb, cachePinger, cfg.Backend.BaseURL, logger)
	httpServer := server.New(logger, server.NewAPI(logger, taskBoard, taskRepo), health, reg)

	spawn(&wgr, func() {
		if serveErr := server.Start(ctx, logger, httpServer, cfg.HTTP.Port); serveErr != nil {
			logger.ErrorContext(ctx, "HTTP server failed", "error", serveErr)
			stop()
		}
	})

	spawn(&wgr, func() {
		logger.InfoContext(ctx, "Starting Employee Service")
		if runErr := staff.Start(ctx, cfg.Backend.Interval); runErr != nil {
			logger.ErrorContext(ctx, "Employee Service failed", "error", runErr)
		}
		logger.InfoContext(ctx, "Employee Service stopped.")
	})

	spawn(&wgr, func() {
		logger.InfoContext(ctx, "Starting Task Service")
		if runErr := taskService.Start(ctx, cfg.Backend.Interval); runErr != nil {
			logger.ErrorContext(ctx, "Task Service failed", "error", runErr)
		}
		logger.InfoContext(ctx, "Task Service stopped.")
	})

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	wgr.Wait()

	logger.InfoContext(ctx, "Application stopped gracefully...")
}

// spawn runs fn on its own goroutine and registers it with wgr before it starts.
func spawn(wgr *sync.WaitGroup, fn func()) {
	wgr.Add(1)
	go func() {
		defer wgr.Done()
		fn()
	}()
}

// setupLogger initializes and returns a logger based on the environment provided.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{Key: "", Value: slog.Value{}}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified, or was invalid. Logging will be minimal, by default." +
				" Please specify the value of `env`: local, development, production")
	}

	return log
}
