package board

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/hestia/internal/lib/logger/sl"
	"github.com/UnknownOlympus/hestia/internal/metrics"
)

// Notifier surfaces the outcome of a board operation to whoever is watching it.
type Notifier interface {
	Success(ctx context.Context, message string)
	Failure(ctx context.Context, message string, err error)
}

// LogNotifier reports notifications to the structured log and counts them.
type LogNotifier struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

func NewLogNotifier(log *slog.Logger, metrics *metrics.Metrics) *LogNotifier {
	return &LogNotifier{log: log.With(slog.String("division", "notifications")), metrics: metrics}
}

func (n *LogNotifier) Success(ctx context.Context, message string) {
	n.metrics.Notifications.WithLabelValues("success").Inc()
	n.log.InfoContext(ctx, message)
}

func (n *LogNotifier) Failure(ctx context.Context, message string, err error) {
	n.metrics.Notifications.WithLabelValues("failure").Inc()
	if err != nil {
		n.log.WarnContext(ctx, message, sl.Err(err))
		return
	}
	n.log.WarnContext(ctx, message)
}
