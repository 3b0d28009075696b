// Package metrics provides Prometheus metrics for the climate dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the dashboard.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dataset metrics
	companiesLoaded prometheus.Gauge
	loadsTotal      *prometheus.CounterVec
	loadDuration    prometheus.Histogram
	selections      prometheus.Counter

	// Rendering metrics
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	chartsRendered *prometheus.CounterVec
	missingTargets *prometheus.CounterVec
	pathwaySkipped *prometheus.CounterVec
	exportsTotal   *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "climatedash",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.companiesLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "companies_loaded",
		Help:        "Number of companies in the current dataset",
		ConstLabels: m.customLabels,
	})
	m.loadsTotal = auto.NewCounterVec(
		m.counterOpts("loads_total", "Dataset loads by outcome"),
		[]string{"status"},
	)
	m.loadDuration = auto.NewHistogram(
		m.histogramOpts("load_duration_milliseconds", "Time spent fetching and parsing the dataset"),
	)
	m.selections = auto.NewCounter(
		m.counterOpts("selections_total", "Number of current-company changes"),
	)

	m.rendersTotal = auto.NewCounterVec(
		m.counterOpts("renders_total", "Renders by kind (page, chart)"),
		[]string{"kind"},
	)
	m.renderDuration = auto.NewHistogramVec(
		m.histogramOpts("render_duration_milliseconds", "Render duration by kind"),
		[]string{"kind"},
	)
	m.chartsRendered = auto.NewCounterVec(
		m.counterOpts("charts_rendered_total", "Charts drawn by container id"),
		[]string{"chart"},
	)
	m.missingTargets = auto.NewCounterVec(
		m.counterOpts("missing_targets_total", "Render targets absent from the page template"),
		[]string{"target"},
	)
	m.pathwaySkipped = auto.NewCounterVec(
		m.counterOpts("pathway_skipped_total", "Reduction pathway renders skipped by reason"),
		[]string{"reason"},
	)
	m.exportsTotal = auto.NewCounterVec(
		m.counterOpts("exports_total", "Company exports by format"),
		[]string{"format"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by endpoint, method and type"),
		[]string{"endpoint", "method", "error_type"},
	)
}

// UpdateCompaniesLoaded sets the size of the current dataset.
func UpdateCompaniesLoaded(count int) {
	globalManager.companiesLoaded.Set(float64(count))
}

// RecordLoad records a dataset load outcome and its duration.
func RecordLoad(status string, durationMs float64) {
	globalManager.loadsTotal.WithLabelValues(status).Inc()
	globalManager.loadDuration.Observe(durationMs)
}

// RecordSelection increments the selection counter.
func RecordSelection() {
	globalManager.selections.Inc()
}

// RecordRender records a render of the given kind.
func RecordRender(kind string, durationMs float64) {
	globalManager.rendersTotal.WithLabelValues(kind).Inc()
	globalManager.renderDuration.WithLabelValues(kind).Observe(durationMs)
}

// RecordChartRendered increments the counter for a chart container.
func RecordChartRendered(chart string) {
	globalManager.chartsRendered.WithLabelValues(chart).Inc()
}

// RecordMissingTarget increments the counter for an absent render target.
func RecordMissingTarget(target string) {
	globalManager.missingTargets.WithLabelValues(target).Inc()
}

// RecordPathwaySkipped increments the skipped pathway counter.
func RecordPathwaySkipped(reason string) {
	globalManager.pathwaySkipped.WithLabelValues(reason).Inc()
}

// RecordExport increments the export counter for a format.
func RecordExport(format string) {
	globalManager.exportsTotal.WithLabelValues(format).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
