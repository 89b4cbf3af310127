// Package metrics provides Prometheus metrics for the CRGG report pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default bucket layouts.
var (
	revenueLossBuckets = []float64{0, 250, 500, 1000, 2500, 5000, 10000, 25000, 50000} //nolint:gochecknoglobals // bucket layout
	gcPauseBuckets     = []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}   //nolint:gochecknoglobals // bucket layout
)

// Manager manages all Prometheus metrics for the CRGG service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Report metrics
	reportsGenerated prometheus.Counter
	reportFailures   *prometheus.CounterVec
	reportLatency    prometheus.Histogram
	revenueLoss      prometheus.Histogram
	inflightRejected prometheus.Counter

	// Acquisition metrics
	acquisitions        *prometheus.CounterVec
	acquisitionDegraded prometheus.Counter
	acquisitionLatency  prometheus.Histogram
	searchFetches       *prometheus.CounterVec

	// Audit metrics
	audits       *prometheus.CounterVec
	auditFlaws   *prometheus.CounterVec
	auditLatency prometheus.Histogram

	// Modeling metrics
	modelingLatency prometheus.Histogram
	modelingErrors  prometheus.Counter

	// Report store metrics
	storedReports  prometheus.Gauge
	storeEvictions prometheus.Counter
	storeOpLatency *prometheus.HistogramVec

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System metrics
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
		namespace:        "crgg",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.reportsGenerated = auto.NewCounter(m.counterOpts(
		"reports_generated_total", "Total number of reports generated successfully"))
	m.reportFailures = auto.NewCounterVec(m.counterOpts(
		"report_failures_total", "Total number of failed reports by reason"), []string{"reason"})
	m.reportLatency = auto.NewHistogram(m.histogramOpts(
		"report_latency_milliseconds", "End-to-end report generation latency in milliseconds", m.histogramBuckets))
	m.revenueLoss = auto.NewHistogram(m.histogramOpts(
		"estimated_revenue_loss", "Distribution of estimated monthly revenue loss per report", revenueLossBuckets))
	m.inflightRejected = auto.NewCounter(m.counterOpts(
		"inflight_rejected_total", "Report requests rejected because an identical report was in progress"))

	m.acquisitions = auto.NewCounterVec(m.counterOpts(
		"acquisitions_total", "Entity acquisitions by strategy and outcome"), []string{"strategy", "outcome"})
	m.acquisitionDegraded = auto.NewCounter(m.counterOpts(
		"acquisition_degraded_total", "Acquisitions that fell back to the fixed competitor set"))
	m.acquisitionLatency = auto.NewHistogram(m.histogramOpts(
		"acquisition_latency_milliseconds", "Entity acquisition latency in milliseconds", m.histogramBuckets))
	m.searchFetches = auto.NewCounterVec(m.counterOpts(
		"search_fetches_total", "Search result page fetches by status"), []string{"status"})

	m.audits = auto.NewCounterVec(m.counterOpts(
		"audits_total", "Website audits by outcome"), []string{"outcome"})
	m.auditFlaws = auto.NewCounterVec(m.counterOpts(
		"audit_flaws_total", "Website flaws detected by kind"), []string{"flaw"})
	m.auditLatency = auto.NewHistogram(m.histogramOpts(
		"audit_latency_milliseconds", "Website audit latency in milliseconds", m.histogramBuckets))

	m.modelingLatency = auto.NewHistogram(m.histogramOpts(
		"modeling_latency_milliseconds", "Dominance modeling latency in milliseconds", m.histogramBuckets))
	m.modelingErrors = auto.NewCounter(m.counterOpts(
		"modeling_errors_total", "Dominance modeling contract violations"))

	m.queueSize = auto.NewGauge(m.gaugeOpts(
		"audit_queue_size", "Current number of queued audit jobs"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts(
		"audit_queue_capacity", "Capacity of the most recently created audit queue"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts(
		"audit_queue_enqueue_total", "Total number of audit jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts(
		"audit_queue_dequeue_total", "Total number of audit jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts(
		"audit_queue_enqueue_errors_total", "Total number of rejected audit job enqueues"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts(
		"audit_workers_active", "Number of audit workers currently running"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogramOpts(
		"audit_worker_processing_latency_milliseconds", "Audit worker job processing latency in milliseconds", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts(
		"errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds", "Latency of operations that resulted in errors", m.histogramBuckets),
		[]string{"component", "error_type"})

	m.storedReports = auto.NewGauge(m.gaugeOpts(
		"stored_reports", "Number of reports held on the prospect board"))
	m.storeEvictions = auto.NewCounter(m.counterOpts(
		"store_evictions_total", "Reports evicted from the prospect board"))
	m.storeOpLatency = auto.NewHistogramVec(m.histogramOpts(
		"store_operation_latency_milliseconds", "Latency of prospect board operations", m.histogramBuckets),
		[]string{"operation"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds", gcPauseBuckets))
}

// Report Metrics Functions.

// RecordReportGenerated increments the generated reports counter and observes the loss and latency.
func RecordReportGenerated(revenueLoss, latencyMs float64) {
	globalManager.reportsGenerated.Inc()
	globalManager.revenueLoss.Observe(revenueLoss)
	globalManager.reportLatency.Observe(latencyMs)
}

// RecordReportFailure increments the failed reports counter for reason.
func RecordReportFailure(reason string) {
	globalManager.reportFailures.WithLabelValues(reason).Inc()
}

// RecordInflightRejected increments the in-flight rejection counter.
func RecordInflightRejected() {
	globalManager.inflightRejected.Inc()
}

// Report Store Metrics Functions.

// UpdateStoredReports sets the number of reports on the prospect board.
func UpdateStoredReports(n int) {
	globalManager.storedReports.Set(float64(n))
}

// RecordStoreEviction increments the prospect board eviction counter.
func RecordStoreEviction() {
	globalManager.storeEvictions.Inc()
}

// RecordStoreLatency observes the latency of one store operation.
func RecordStoreLatency(operation string, latencyMs float64) {
	globalManager.storeOpLatency.WithLabelValues(operation).Observe(latencyMs)
}

// Acquisition Metrics Functions.

// RecordAcquisition records one acquisition attempt.
func RecordAcquisition(strategy, outcome string, latencyMs float64) {
	globalManager.acquisitions.WithLabelValues(strategy, outcome).Inc()
	globalManager.acquisitionLatency.Observe(latencyMs)
}

// RecordAcquisitionDegraded increments the fallback counter.
func RecordAcquisitionDegraded() {
	globalManager.acquisitionDegraded.Inc()
}

// RecordSearchFetch records one outbound search page fetch.
func RecordSearchFetch(status string) {
	globalManager.searchFetches.WithLabelValues(status).Inc()
}

// Audit Metrics Functions.

// RecordAudit records an audit outcome and its latency.
func RecordAudit(outcome string, latencyMs float64) {
	globalManager.audits.WithLabelValues(outcome).Inc()
	globalManager.auditLatency.Observe(latencyMs)
}

// RecordAuditFlaw increments the detected flaw counter.
func RecordAuditFlaw(flaw string) {
	globalManager.auditFlaws.WithLabelValues(flaw).Inc()
}

// Modeling Metrics Functions.

// RecordModelingLatency records dominance modeling latency in milliseconds.
func RecordModelingLatency(latencyMs float64) {
	globalManager.modelingLatency.Observe(latencyMs)
}

// RecordModelingError increments the modeling contract violation counter.
func RecordModelingError() {
	globalManager.modelingErrors.Inc()
}

// Queue Metrics Functions.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker Metrics Functions.

// AddWorkerActiveCount adjusts the running worker gauge by delta.
func AddWorkerActiveCount(delta int) {
	globalManager.workerActiveCount.Add(float64(delta))
}

// RecordWorkerProcessingLatency records audit job processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
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

// Error Metrics Functions.

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for a specific endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that failed.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry served on /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
