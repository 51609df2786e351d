// Package metrics provides Prometheus metrics for the arena contest service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the arena service.
type Manager struct {
	namespace string
	subsystem string
	registry  prometheus.Registerer

	// Core Business Metrics - contest lifecycle and scoring
	contestsCreated   prometheus.Counter
	contestsFinalized prometheus.Counter
	signalsAccepted   prometheus.Counter
	signalsRejected   *prometheus.CounterVec
	prizesRecorded    prometheus.Counter
	winnersSelected   prometheus.Counter

	// Read Path Metrics
	leaderboardQueries prometheus.Counter

	// Operational Health Metrics
	activeContests prometheus.Gauge
	trackedEntries prometheus.Gauge

	// Sweeper Metrics - background auto-finalization
	sweepRuns      prometheus.Counter
	sweepFinalized prometheus.Counter
	sweepErrors    prometheus.Counter

	// Store Metrics - key-value collaborator performance
	storeOps       *prometheus.CounterVec
	storeOpLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "arena",
		subsystem: "contest",
		registry:  prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.contestsCreated = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contests_created_total",
		Help:      "Total number of contests created.",
	})

	m.contestsFinalized = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "contests_finalized_total",
		Help:      "Total number of contests finalized.",
	})

	m.signalsAccepted = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signals_accepted_total",
		Help:      "Total number of signal submissions accepted into entries.",
	})

	m.signalsRejected = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "signals_rejected_total",
		Help:      "Total number of rejected signal submissions by reason.",
	}, []string{"reason"})

	m.prizesRecorded = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prizes_recorded_total",
		Help:      "Total number of prize records written.",
	})

	m.winnersSelected = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "winners_selected_total",
		Help:      "Total number of winners selected across finalizations.",
	})

	m.leaderboardQueries = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "leaderboard_queries_total",
		Help:      "Total number of leaderboard queries served.",
	})

	m.activeContests = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_contests",
		Help:      "Number of contests currently in the active index.",
	})

	m.trackedEntries = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tracked_entries",
		Help:      "Number of contest entries tracked across all contests.",
	})

	m.sweepRuns = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sweeper",
		Name:      "runs_total",
		Help:      "Total number of auto-finalization sweep runs.",
	})

	m.sweepFinalized = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sweeper",
		Name:      "finalized_total",
		Help:      "Total number of contests finalized by the sweeper.",
	})

	m.sweepErrors = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "sweeper",
		Name:      "errors_total",
		Help:      "Total number of sweep finalization errors.",
	})

	m.storeOps = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "ops_total",
		Help:      "Total number of key-value store operations by kind.",
	}, []string{"op"})

	m.storeOpLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "store",
		Name:      "op_latency_ms",
		Help:      "Key-value store operation latency in milliseconds.",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
	})

	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request duration in milliseconds.",
		Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Current allocated heap memory in bytes.",
	})

	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutine_count",
		Help:      "Current number of goroutines.",
	})
}

// RecordContestCreated increments the contests created counter.
func RecordContestCreated() {
	globalManager.contestsCreated.Inc()
}

// RecordContestFinalized increments the contests finalized counter.
func RecordContestFinalized() {
	globalManager.contestsFinalized.Inc()
}

// RecordSignalAccepted increments the accepted submissions counter.
func RecordSignalAccepted() {
	globalManager.signalsAccepted.Inc()
}

// RecordSignalRejected increments the rejected submissions counter for reason.
func RecordSignalRejected(reason string) {
	globalManager.signalsRejected.WithLabelValues(reason).Inc()
}

// RecordPrizeRecorded increments the prize records counter.
func RecordPrizeRecorded() {
	globalManager.prizesRecorded.Inc()
}

// RecordWinnersSelected adds count to the winners selected counter.
func RecordWinnersSelected(count int) {
	globalManager.winnersSelected.Add(float64(count))
}

// RecordLeaderboardQuery increments the leaderboard queries counter.
func RecordLeaderboardQuery() {
	globalManager.leaderboardQueries.Inc()
}

// UpdateActiveContests sets the active-contests gauge.
func UpdateActiveContests(count int) {
	globalManager.activeContests.Set(float64(count))
}

// UpdateTrackedEntries sets the tracked-entries gauge.
func UpdateTrackedEntries(count int) {
	globalManager.trackedEntries.Set(float64(count))
}

// RecordSweepRun increments the sweep runs counter.
func RecordSweepRun() {
	globalManager.sweepRuns.Inc()
}

// RecordSweepFinalized increments the sweeper finalizations counter.
func RecordSweepFinalized() {
	globalManager.sweepFinalized.Inc()
}

// RecordSweepError increments the sweeper errors counter.
func RecordSweepError() {
	globalManager.sweepErrors.Inc()
}

// RecordStoreOp increments the store op counter for the given kind.
func RecordStoreOp(op string) {
	globalManager.storeOps.WithLabelValues(op).Inc()
}

// RecordStoreOpLatency records a store operation latency sample.
func RecordStoreOpLatency(latencyMs float64) {
	globalManager.storeOpLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration sample.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystemMemoryUsage sets the heap memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry for serving /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
