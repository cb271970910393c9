// Package metrics provides Prometheus metrics for the rosterscan pipeline.
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

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Capture metrics
	framesScanned   prometheus.Counter
	framesDuplicate prometheus.Counter
	frameLatency    prometheus.Histogram

	// Recognition metrics
	detections          prometheus.Counter
	rowsSegmented       prometheus.Counter
	ocrLatency          prometheus.Histogram
	observationsByState *prometheus.CounterVec

	// Reconciliation metrics
	mergesByRule    *prometheus.CounterVec
	entitiesCreated prometheus.Counter
	rankMismatches  prometheus.Counter

	// Roster metrics
	rosterSize    *prometheus.GaugeVec
	storeLatency  prometheus.Histogram
	exportsByKind *prometheus.CounterVec

	// Operational metrics
	workerCount      prometheus.Gauge
	errorByComponent *prometheus.CounterVec
	runDuration      prometheus.Histogram
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
		namespace:        "rosterscan",
		subsystem:        "pipeline",
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
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Capture metrics
	m.framesScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_scanned_total",
		Help:      "Total number of frames processed by the scan pool",
	})

	m.framesDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frames_duplicate_total",
		Help:      "Total number of scroll-end duplicate frames skipped",
	})

	m.frameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "frame_latency_milliseconds",
		Help:      "Histogram of per-frame processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Recognition metrics
	m.detections = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "detections_total",
		Help:      "Total number of raw text detections produced by the engine",
	})

	m.rowsSegmented = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rows_segmented_total",
		Help:      "Total number of list rows produced by the segmenter",
	})

	m.ocrLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ocr_latency_milliseconds",
		Help:      "Histogram of recognition call latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.observationsByState = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "observations_total",
			Help:      "Total number of observations by validity state",
		},
		[]string{"state"},
	)

	// Reconciliation metrics
	m.mergesByRule = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "merges_total",
			Help:      "Total number of observation merges by match rule",
		},
		[]string{"rule"},
	)

	m.entitiesCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "entities_created_total",
		Help:      "Total number of fresh entities seeded from observations",
	})

	m.rankMismatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rank_mismatches_total",
		Help:      "Total number of entities whose read rank disagrees with the assigned rank",
	})

	// Roster metrics
	m.rosterSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "roster_size",
			Help:      "Number of ranked entities in the roster by metric category",
		},
		[]string{"metric"},
	)

	m.storeLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Histogram of roster store operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.exportsByKind = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "exports_total",
			Help:      "Total number of roster exports by output kind",
		},
		[]string{"kind"},
	)

	// Operational metrics
	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of active scan workers",
	})

	m.errorByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_milliseconds",
		Help:      "Histogram of whole scan run duration in milliseconds",
		Buckets:   []float64{100, 500, 1000, 5000, 10000, 30000, 60000, 120000, 300000},
	})
}

// RecordFrameScanned increments the frames scanned counter.
func RecordFrameScanned() {
	globalManager.framesScanned.Inc()
}

// RecordFrameDuplicate increments the duplicate frames counter.
func RecordFrameDuplicate() {
	globalManager.framesDuplicate.Inc()
}

// RecordFrameLatency records per-frame processing latency in milliseconds.
func RecordFrameLatency(latencyMs float64) {
	globalManager.frameLatency.Observe(latencyMs)
}

// RecordDetections adds to the raw detection counter.
func RecordDetections(count int) {
	globalManager.detections.Add(float64(count))
}

// RecordRowsSegmented adds to the segmented rows counter.
func RecordRowsSegmented(count int) {
	globalManager.rowsSegmented.Add(float64(count))
}

// RecordOCRLatency records a recognition call latency in milliseconds.
func RecordOCRLatency(latencyMs float64) {
	globalManager.ocrLatency.Observe(latencyMs)
}

// RecordObservationValid increments the valid observation counter.
func RecordObservationValid() {
	globalManager.observationsByState.WithLabelValues("valid").Inc()
}

// RecordObservationRejected increments the rejected observation counter.
func RecordObservationRejected() {
	globalManager.observationsByState.WithLabelValues("rejected").Inc()
}

// RecordMerge records an observation merged into an entity by a match rule.
func RecordMerge(rule string) {
	globalManager.mergesByRule.WithLabelValues(rule).Inc()
}

// RecordEntityCreated increments the created entities counter.
func RecordEntityCreated() {
	globalManager.entitiesCreated.Inc()
}

// RecordRankMismatch increments the rank mismatch counter.
func RecordRankMismatch() {
	globalManager.rankMismatches.Inc()
}

// UpdateRosterSize sets the roster size for a metric category.
func UpdateRosterSize(metric string, size int) {
	globalManager.rosterSize.WithLabelValues(metric).Set(float64(size))
}

// RecordStoreLatency records a roster store operation latency.
func RecordStoreLatency(latencyMs float64) {
	globalManager.storeLatency.Observe(latencyMs)
}

// RecordExport increments the export counter for an output kind.
func RecordExport(kind string) {
	globalManager.exportsByKind.WithLabelValues(kind).Inc()
}

// UpdateWorkerCount sets the current scan worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordRunDuration records a whole scan run duration in milliseconds.
func RecordRunDuration(durationMs float64) {
	globalManager.runDuration.Observe(durationMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
