// Package metrics provides Prometheus metrics for the boardshelf service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Ingestion
	collectionPolls    *prometheus.CounterVec
	batchesTotal       *prometheus.CounterVec
	batchLatency       prometheus.Histogram
	recordsHydrated    prometheus.Counter
	ingestionRuns      *prometheus.CounterVec
	ingestionDuration  prometheus.Histogram
	workerActiveCount  prometheus.Gauge
	breakerState       *prometheus.GaugeVec
	breakerTransitions *prometheus.CounterVec

	// Cache and queries
	cachedRecords     prometheus.Gauge
	cacheLastSaveUnix prometheus.Gauge
	queryLatency      *prometheus.HistogramVec

	// Queue
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// customRegistry keeps default Go collectors out of /healthz.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "boardshelf",
		subsystem:        "library",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.collectionPolls = m.counterVec("collection_polls_total",
		"Collection lookups by reply kind (accepted, ready, error)", "reply")
	m.batchesTotal = m.counterVec("hydration_batches_total",
		"Bulk-fetch batches by outcome (success, failure)", "outcome")
	m.batchLatency = m.histogram("hydration_batch_latency_milliseconds",
		"Round trip plus parse time per batch in milliseconds",
		[]float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000})
	m.recordsHydrated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "records_hydrated_total",
		Help: "Records produced by successful batches",
	})
	m.ingestionRuns = m.counterVec("ingestion_runs_total",
		"Refresh runs by outcome (success, config_error, failure)", "outcome")
	m.ingestionDuration = m.histogram("ingestion_duration_seconds",
		"Wall time of completed refresh runs in seconds",
		[]float64{1, 5, 10, 30, 60, 120, 300, 600})
	m.workerActiveCount = m.gauge("hydration_workers_active",
		"Workers currently processing a batch")
	m.breakerState = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})
	m.breakerTransitions = m.counterVec("circuit_breaker_transitions_total",
		"Circuit breaker state transitions", "name", "from", "to")

	m.cachedRecords = m.gauge("cached_records",
		"Records in the current cache snapshot")
	m.cacheLastSaveUnix = m.gauge("cache_last_save_unix",
		"Unix time of the last successful snapshot save")
	m.queryLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "query_latency_milliseconds",
		Help:    "Filter and facet evaluation time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
	}, []string{"kind"})

	m.queueSize = m.gauge("batch_queue_size", "Batches waiting for a worker")
	m.queueCapacity = m.gauge("batch_queue_capacity", "Capacity of the batch queue")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, ConstLabels: m.constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = m.counterVec("errors_by_component_total",
		"Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total",
		"HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds",
		"Average GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordCollectionPoll counts one collection lookup reply.
func RecordCollectionPoll(reply string) {
	globalManager.collectionPolls.WithLabelValues(reply).Inc()
}

// RecordBatch counts a finished batch and its latency.
func RecordBatch(success bool, latencyMs float64) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	globalManager.batchesTotal.WithLabelValues(outcome).Inc()
	globalManager.batchLatency.Observe(latencyMs)
}

// RecordRecordsHydrated adds n hydrated records.
func RecordRecordsHydrated(n int) {
	globalManager.recordsHydrated.Add(float64(n))
}

// RecordIngestionRun counts a refresh run by outcome.
func RecordIngestionRun(outcome string, seconds float64) {
	globalManager.ingestionRuns.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		globalManager.ingestionDuration.Observe(seconds)
	}
}

// IncWorkerActive marks a worker busy.
func IncWorkerActive() { globalManager.workerActiveCount.Inc() }

// DecWorkerActive marks a worker idle.
func DecWorkerActive() { globalManager.workerActiveCount.Dec() }

// UpdateBreakerState sets the numeric breaker state for name.
func UpdateBreakerState(name string, state float64) {
	globalManager.breakerState.WithLabelValues(name).Set(state)
}

// RecordBreakerTransition counts a breaker state change.
func RecordBreakerTransition(name, from, to string) {
	globalManager.breakerTransitions.WithLabelValues(name, from, to).Inc()
}

// UpdateCachedRecords sets the snapshot size gauge.
func UpdateCachedRecords(n int) {
	globalManager.cachedRecords.Set(float64(n))
}

// RecordCacheSave stamps the last save time.
func RecordCacheSave(unix int64) {
	globalManager.cacheLastSaveUnix.Set(float64(unix))
}

// RecordQueryLatency records filter or facet evaluation latency.
func RecordQueryLatency(kind string, latencyMs float64) {
	globalManager.queryLatency.WithLabelValues(kind).Observe(latencyMs)
}

// UpdateQueueSize sets the number of queued batches.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the batch queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent counts an error raised inside a component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets heap usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
