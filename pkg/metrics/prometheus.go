// Package metrics provides Prometheus metrics for the points calculator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Default points buckets span the realistic range of the scoring tables.
var defaultPointsBuckets = prometheus.LinearBuckets(0, 100, 15) //nolint:gochecknoglobals // constant bucket layout

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	pointsBuckets    []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Calculation metrics
	calculations       *prometheus.CounterVec
	calculationErrors  *prometheus.CounterVec
	calculationLatency prometheus.Histogram
	points             *prometheus.HistogramVec
	adjustments        *prometheus.CounterVec
	placements         *prometheus.CounterVec

	// Table metrics
	catalogEvents       prometheus.Gauge
	placementCategories prometheus.Gauge
	selfCheckDuration   prometheus.Gauge
	selfCheckFailures   prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance. Replaced only by Configure.
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
		namespace:        "wapoints",
		subsystem:        "calculator",
		histogramBuckets: prometheus.DefBuckets,
		pointsBuckets:    defaultPointsBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.calculations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "calculations_total",
		Help:        "Total number of performance calculations by event and outcome",
		ConstLabels: labels,
	}, []string{"event", "outcome"})

	m.calculationErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "calculation_errors_total",
		Help:        "Total number of rejected calculations by error kind",
		ConstLabels: labels,
	}, []string{"kind"})

	m.calculationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "calculation_latency_milliseconds",
		Help:        "Histogram of calculation latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.points = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "points",
		Help:        "Distribution of performance points by event family",
		Buckets:     m.pointsBuckets,
		ConstLabels: labels,
	}, []string{"family"})

	m.adjustments = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "adjustments_total",
		Help:        "Condition readings seen by modifier and effect",
		ConstLabels: labels,
	}, []string{"modifier", "effect"})

	m.placements = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "placements_total",
		Help:        "Total number of placement lookups by category and outcome",
		ConstLabels: labels,
	}, []string{"category", "outcome"})

	m.catalogEvents = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "catalog_events",
		Help:        "Number of events in the loaded coefficient table",
		ConstLabels: labels,
	})

	m.placementCategories = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "placement_categories",
		Help:        "Number of categories in the loaded placement tables",
		ConstLabels: labels,
	})

	m.selfCheckDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "self_check_duration_milliseconds",
		Help:        "Duration of the last coefficient direction self-check",
		ConstLabels: labels,
	})

	m.selfCheckFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "self_check_failures_total",
		Help:        "Number of failed coefficient direction self-checks",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Total number of failed HTTP requests by endpoint and error type",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "error_type"})
}

// RecordCalculation counts a calculation and its points when it succeeded.
func (m *Manager) RecordCalculation(event, family string, points int, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.calculations.WithLabelValues(event, OutcomeOK).Inc()
	m.points.WithLabelValues(family).Observe(float64(points))
	m.calculationLatency.Observe(latencyMs)
}

// RecordCalculationError counts a rejected calculation.
func (m *Manager) RecordCalculationError(event, kind string) {
	if !m.enabled {
		return
	}
	m.calculations.WithLabelValues(event, OutcomeError).Inc()
	m.calculationErrors.WithLabelValues(kind).Inc()
}

// RecordAdjustment counts a condition reading and what it did.
func (m *Manager) RecordAdjustment(modifier, effect string) {
	if !m.enabled {
		return
	}
	m.adjustments.WithLabelValues(modifier, effect).Inc()
}

// RecordPlacement counts a placement lookup.
func (m *Manager) RecordPlacement(category, outcome string) {
	if !m.enabled {
		return
	}
	m.placements.WithLabelValues(category, outcome).Inc()
}

// UpdateTables records the size of the loaded tables.
func (m *Manager) UpdateTables(events, categories int) {
	if !m.enabled {
		return
	}
	m.catalogEvents.Set(float64(events))
	m.placementCategories.Set(float64(categories))
}

// RecordSelfCheck records the duration and result of the direction self-check.
func (m *Manager) RecordSelfCheck(durationMs float64, failed bool) {
	if !m.enabled {
		return
	}
	m.selfCheckDuration.Set(durationMs)
	if failed {
		m.selfCheckFailures.Inc()
	}
}

// RecordHTTPRequest counts an HTTP request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts a failed HTTP request.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// Package-level helpers record on the global manager.

func RecordCalculation(event, family string, points int, latencyMs float64) {
	globalManager.RecordCalculation(event, family, points, latencyMs)
}

func RecordCalculationError(event, kind string) {
	globalManager.RecordCalculationError(event, kind)
}

func RecordAdjustment(modifier, effect string) {
	globalManager.RecordAdjustment(modifier, effect)
}

func RecordPlacement(category, outcome string) {
	globalManager.RecordPlacement(category, outcome)
}

func UpdateTables(events, categories int) {
	globalManager.UpdateTables(events, categories)
}

func RecordSelfCheck(durationMs float64, failed bool) {
	globalManager.RecordSelfCheck(durationMs, failed)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.RecordErrorByEndpoint(endpoint, method, errorType)
}

// Configure rebuilds the global manager on a fresh registry with the given
// options. Call it once at startup, before any handler serves /metrics;
// series recorded earlier are discarded.
func Configure(opts ...Option) {
	reg := prometheus.NewRegistry()
	customRegistry = reg
	globalManager = NewManager(append(opts, WithPrometheusRegistry(reg))...)
}

// GetRegistry returns the registry the global manager records on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
