// Package metrics provides Prometheus metrics for the chongus game host.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the host.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Engine
	actionsApplied   *prometheus.CounterVec
	actionsRejected  *prometheus.CounterVec
	actionsDuplicate prometheus.Counter
	actionLatency    prometheus.Histogram

	// Game state gauges
	currency             prometheus.Gauge
	productionRate       prometheus.Gauge
	collectionSize       prometheus.Gauge
	collectiblesByRarity *prometheus.CounterVec
	expeditionsActive    prometheus.Gauge
	expeditionsCompleted prometheus.Counter
	communityProgress    prometheus.Gauge
	contributors         prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec
	ticksDropped       prometheus.Counter

	// Snapshots
	snapshotSaves    prometheus.Counter
	snapshotErrors   prometheus.Counter
	snapshotDuration prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByComponent   *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics manager

// customRegistry keeps the default Go collectors out of /healthz. Only build
// info is added so a scrape shows which binary answered.
var customRegistry *prometheus.Registry //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	Configure()
}

// Configure rebuilds the process-wide manager on a fresh registry. It is meant
// for start-up, before handlers capture GetRegistry or anything records.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewBuildInfoCollector())
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chongus",
		subsystem:        "game",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.actionsApplied = m.counterVec("actions_applied_total", "Actions that changed the game state, by kind", "kind")
	m.actionsRejected = m.counterVec("actions_rejected_total", "Actions that left the game state unchanged, by kind", "kind")
	m.actionsDuplicate = m.counter("actions_duplicate_total", "Actions skipped because their action_id was already seen")
	m.actionLatency = m.histogram("action_latency_milliseconds", "Time from submit to applied snapshot", m.histogramBuckets)

	m.currency = m.gauge("currency", "Current ChongJuice balance")
	m.productionRate = m.gauge("production_rate", "ChongJuice produced per second")
	m.collectionSize = m.gauge("collection_size", "Number of collectibles owned")
	m.collectiblesByRarity = m.counterVec("collectibles_generated_total", "Collectibles generated, by rarity", "rarity")
	m.expeditionsActive = m.gauge("expeditions_active", "Expeditions currently running or completable")
	m.expeditionsCompleted = m.counter("expeditions_completed_total", "Expeditions resolved and rewarded")
	m.communityProgress = m.gauge("community_progress_ratio", "Community event progress, capped at 1")
	m.contributors = m.gauge("community_contributors", "Contributors on the community board")

	m.queueSize = m.gauge("queue_size", "Actions waiting to be applied")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum actions the queue holds")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Failed enqueues, by reason", "reason")
	m.ticksDropped = m.counter("ticks_dropped_total", "Driver ticks dropped because the queue was full")

	m.snapshotSaves = m.counter("snapshot_saves_total", "Game state snapshots written")
	m.snapshotErrors = m.counter("snapshot_errors_total", "Game state snapshot failures")
	m.snapshotDuration = m.histogram("snapshot_duration_milliseconds", "Snapshot write duration", m.histogramBuckets)

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component", "component", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "Average GC pause in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// RecordActionApplied counts an action that produced a new revision.
func RecordActionApplied(kind string) {
	globalManager.actionsApplied.WithLabelValues(kind).Inc()
}

// RecordActionRejected counts an action the engine ignored.
func RecordActionRejected(kind string) {
	globalManager.actionsRejected.WithLabelValues(kind).Inc()
}

// RecordActionDuplicate counts an action skipped by idempotency.
func RecordActionDuplicate() {
	globalManager.actionsDuplicate.Inc()
}

// RecordActionLatency records submit-to-apply latency in milliseconds.
func RecordActionLatency(latencyMs float64) {
	globalManager.actionLatency.Observe(latencyMs)
}

// UpdatePlayer sets the player balance and production gauges.
func UpdatePlayer(currency, productionRate float64) {
	globalManager.currency.Set(currency)
	globalManager.productionRate.Set(productionRate)
}

// UpdateCollectionSize sets the collection size gauge.
func UpdateCollectionSize(size int) {
	globalManager.collectionSize.Set(float64(size))
}

// RecordCollectibleGenerated counts a generated collectible of rarity.
func RecordCollectibleGenerated(rarity string) {
	globalManager.collectiblesByRarity.WithLabelValues(rarity).Inc()
}

// UpdateExpeditionsActive sets the number of unresolved expeditions.
func UpdateExpeditionsActive(count int) {
	globalManager.expeditionsActive.Set(float64(count))
}

// RecordExpeditionCompleted counts a resolved expedition.
func RecordExpeditionCompleted() {
	globalManager.expeditionsCompleted.Inc()
}

// UpdateCommunityProgress sets the community progress ratio.
func UpdateCommunityProgress(ratio float64) {
	globalManager.communityProgress.Set(ratio)
}

// UpdateContributors sets the number of rows on the contributor board.
func UpdateContributors(count int) {
	globalManager.contributors.Set(float64(count))
}

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueueError counts a failed enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// RecordTickDropped counts a driver tick that could not be queued.
func RecordTickDropped() {
	globalManager.ticksDropped.Inc()
}

// RecordSnapshotSaved records a successful snapshot write.
func RecordSnapshotSaved(durationMs float64) {
	globalManager.snapshotSaves.Inc()
	globalManager.snapshotDuration.Observe(durationMs)
}

// RecordSnapshotError counts a failed snapshot load or write.
func RecordSnapshotError() {
	globalManager.snapshotErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an HTTP error.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
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

// GetRegistry returns the registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
