package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for sync runs, synced items, status updates and notifications,
// a gauge for the last successful sync, and histograms for run, backend and database latency.
type Metrics struct {
	Runs              *prometheus.CounterVec
	ItemsSynced       *prometheus.CounterVec
	LastSuccessfulRun *prometheus.GaugeVec
	RunDuration       *prometheus.HistogramVec
	EmailsFixed       prometheus.Counter
	DBQueryDuration   *prometheus.HistogramVec
	BackendRequests   *prometheus.CounterVec
	BackendDuration   *prometheus.HistogramVec
	StatusUpdates     *prometheus.CounterVec
	Notifications     *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	BoardTasks        prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Runs: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_sync_runs_total",
			Help: "Total times a sync cycle has successfully or unsuccessfully completed.",
		}, []string{"status"}),
		ItemsSynced: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_items_synced_total",
			Help: "Total number of synced items",
		}, []string{"type"}),
		LastSuccessfulRun: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Name: "hestia_last_successful_sync_timestamp",
			Help: "Last time when sync was successful",
		}, []string{"type"}),
		RunDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "hestia_sync_duration_seconds",
			Help: "Measures how long it takes for a full sync cycle to complete",
		}, []string{"type"}),
		EmailsFixed: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "hestia_emails_fixed_total",
			Help: "Total number of employee emails that were fixed or generated.",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'upsert_task', 'save_status_change'
		BackendRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_backend_requests_total",
			Help: "Requests sent to the CRM backend by operation and outcome.",
		}, []string{"operation", "outcome"}),
		BackendDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hestia_backend_request_duration_seconds",
			Help:    "Latency of CRM backend requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		StatusUpdates: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_status_updates_total",
			Help: "Board status updates by outcome: noop, committed, rolled_back, stale.",
		}, []string{"outcome"}),
		Notifications: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_notifications_total",
			Help: "Notifications raised by board operations.",
		}, []string{"kind"}),
		CacheLookups: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "hestia_cache_lookups_total",
			Help: "Task cache lookups by result.",
		}, []string{"result"}),
		BoardTasks: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "hestia_board_tasks",
			Help: "Number of tasks currently held by the board.",
		}),
	}

	metrics.Runs.WithLabelValues("success")
	metrics.Runs.WithLabelValues("failure")

	return metrics
}
