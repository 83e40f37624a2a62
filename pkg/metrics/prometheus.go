// Package metrics provides Prometheus metrics for the scout service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the scout service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Query Metrics - What the engine is actually asked to do
	queriesTotal          *prometheus.CounterVec
	queryLatency          *prometheus.HistogramVec
	queryErrors           *prometheus.CounterVec
	recommendationsServed prometheus.Counter
	comparisonsServed     prometheus.Counter

	// Dataset Metrics - Size and freshness of the active snapshot
	datasetPlayers        prometheus.Gauge
	datasetTeams          prometheus.Gauge
	datasetLeagues        prometheus.Gauge
	snapshotSwaps         prometheus.Counter
	snapshotLastUnix      prometheus.Gauge
	snapshotBuildDuration prometheus.Histogram

	// Refresh Pipeline Metrics - Trigger queue and worker health
	refreshTriggers      *prometheus.CounterVec
	refreshDropped       prometheus.Counter
	refreshSkipped       prometheus.Counter
	refreshFailures      prometheus.Counter
	refreshDuration      prometheus.Histogram
	refreshQueueSize     prometheus.Gauge
	refreshQueueCapacity prometheus.Gauge

	// Provider Metrics - Upstream dataset sources
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	providerRetries  *prometheus.CounterVec
	cacheOperations  *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// MCP Metrics - Tool calls served over the MCP adapter
	mcpToolCalls *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "scout",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Query Metrics - what the engine is asked to do
	m.queriesTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "queries_total",
			Help:      "Total number of analytics queries by operation",
		},
		[]string{"operation"},
	)

	m.queryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "query_latency_milliseconds",
			Help:      "Analytics query latency in milliseconds by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.queryErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "query_errors_total",
			Help:      "Total number of failed analytics queries by operation and error type",
		},
		[]string{"operation", "error_type"},
	)

	m.recommendationsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recommendations_served_total",
		Help:      "Total number of replacement recommendation queries served",
	})

	m.comparisonsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "comparisons_served_total",
		Help:      "Total number of player comparison queries served",
	})

	// Dataset Metrics - size and freshness of the active snapshot
	m.datasetPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_players",
		Help:      "Number of players in the active dataset snapshot",
	})

	m.datasetTeams = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_teams",
		Help:      "Number of distinct teams in the active dataset snapshot",
	})

	m.datasetLeagues = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "dataset_leagues",
		Help:      "Number of distinct leagues in the active dataset snapshot",
	})

	m.snapshotSwaps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_swaps_total",
		Help:      "Total number of dataset snapshot swaps published",
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_unix",
		Help:      "Unix timestamp of the last dataset snapshot swap",
	})

	m.snapshotBuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_build_duration_milliseconds",
		Help:      "Dataset snapshot build duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Refresh Pipeline Metrics - trigger queue and worker health
	m.refreshTriggers = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "refresh_triggers_total",
			Help:      "Total number of dataset refresh triggers by source",
		},
		[]string{"source"},
	)

	m.refreshDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_dropped_total",
		Help:      "Total number of refresh triggers dropped because the queue was full",
	})

	m.refreshSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_skipped_total",
		Help:      "Total number of refreshes skipped because the dataset was unchanged",
	})

	m.refreshFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_failures_total",
		Help:      "Total number of failed dataset refreshes",
	})

	m.refreshDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_duration_milliseconds",
		Help:      "Dataset refresh duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.refreshQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_queue_size",
		Help:      "Current size of the refresh trigger queue",
	})

	m.refreshQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "refresh_queue_capacity",
		Help:      "Maximum refresh trigger queue capacity",
	})

	// Provider Metrics - upstream dataset sources
	m.providerRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_requests_total",
			Help:      "Total number of dataset provider loads by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	m.providerLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_latency_milliseconds",
			Help:      "Dataset provider load latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"provider"},
	)

	m.providerRetries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "provider_retries_total",
			Help:      "Total number of provider request retries",
		},
		[]string{"provider"},
	)

	m.cacheOperations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cache_operations_total",
			Help:      "Total number of dataset cache operations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// HTTP Performance Metrics - user experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// MCP Metrics - tool calls served over the MCP adapter
	m.mcpToolCalls = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "mcp_tool_calls_total",
			Help:      "Total number of MCP tool calls by tool and outcome",
		},
		[]string{"tool", "outcome"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Query Metrics Functions.

// RecordQuery increments the query counter for an operation.
func RecordQuery(operation string) {
	globalManager.queriesTotal.WithLabelValues(operation).Inc()
}

// RecordQueryLatency records query latency in milliseconds for an operation.
func RecordQueryLatency(operation string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// RecordQueryError increments the query error counter for an operation.
func RecordQueryError(operation, errorType string) {
	globalManager.queryErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordRecommendationServed increments the recommendations served counter.
func RecordRecommendationServed() {
	globalManager.recommendationsServed.Inc()
}

// RecordComparisonServed increments the comparisons served counter.
func RecordComparisonServed() {
	globalManager.comparisonsServed.Inc()
}

// Dataset Metrics Functions.

// UpdateDatasetPlayers sets the number of players in the active snapshot.
func UpdateDatasetPlayers(count int) {
	globalManager.datasetPlayers.Set(float64(count))
}

// UpdateDatasetTeams sets the number of distinct teams in the active snapshot.
func UpdateDatasetTeams(count int) {
	globalManager.datasetTeams.Set(float64(count))
}

// UpdateDatasetLeagues sets the number of distinct leagues in the active snapshot.
func UpdateDatasetLeagues(count int) {
	globalManager.datasetLeagues.Set(float64(count))
}

// RecordSnapshotSwap increments the snapshot swap counter.
func RecordSnapshotSwap() {
	globalManager.snapshotSwaps.Inc()
}

// UpdateSnapshotLastUnix sets the timestamp of the last snapshot swap.
func UpdateSnapshotLastUnix(unix float64) {
	globalManager.snapshotLastUnix.Set(unix)
}

// RecordSnapshotBuildDuration records snapshot build duration in milliseconds.
func RecordSnapshotBuildDuration(durationMs float64) {
	globalManager.snapshotBuildDuration.Observe(durationMs)
}

// Refresh Pipeline Metrics Functions.

// RecordRefreshTrigger increments the refresh trigger counter for a source.
func RecordRefreshTrigger(source string) {
	globalManager.refreshTriggers.WithLabelValues(source).Inc()
}

// RecordRefreshDropped increments the dropped trigger counter.
func RecordRefreshDropped() {
	globalManager.refreshDropped.Inc()
}

// RecordRefreshSkipped increments the skipped refresh counter.
func RecordRefreshSkipped() {
	globalManager.refreshSkipped.Inc()
}

// RecordRefreshFailure increments the failed refresh counter.
func RecordRefreshFailure() {
	globalManager.refreshFailures.Inc()
}

// RecordRefreshDuration records refresh duration in milliseconds.
func RecordRefreshDuration(durationMs float64) {
	globalManager.refreshDuration.Observe(durationMs)
}

// UpdateRefreshQueueSize sets the current refresh queue size.
func UpdateRefreshQueueSize(size int) {
	globalManager.refreshQueueSize.Set(float64(size))
}

// UpdateRefreshQueueCapacity sets the maximum refresh queue capacity.
func UpdateRefreshQueueCapacity(capacity int) {
	globalManager.refreshQueueCapacity.Set(float64(capacity))
}

// Provider Metrics Functions.

// RecordProviderRequest records a provider load with its outcome.
func RecordProviderRequest(provider, outcome string) {
	globalManager.providerRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordProviderLatency records provider load latency in milliseconds.
func RecordProviderLatency(provider string, latencyMs float64) {
	globalManager.providerLatency.WithLabelValues(provider).Observe(latencyMs)
}

// RecordProviderRetry increments the provider retry counter.
func RecordProviderRetry(provider string) {
	globalManager.providerRetries.WithLabelValues(provider).Inc()
}

// RecordCacheOperation records a dataset cache operation with its outcome.
func RecordCacheOperation(operation, outcome string) {
	globalManager.cacheOperations.WithLabelValues(operation, outcome).Inc()
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// MCP Metrics Functions.

// RecordMCPToolCall records an MCP tool call with its outcome.
func RecordMCPToolCall(tool, outcome string) {
	globalManager.mcpToolCalls.WithLabelValues(tool, outcome).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
