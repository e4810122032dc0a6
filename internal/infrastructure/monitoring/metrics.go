package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Curation metrics
	PassesTotal    *prometheus.CounterVec
	PassDuration   *prometheus.HistogramVec
	ViewRecords    *prometheus.GaugeVec
	UpgradeCount   prometheus.Gauge
	EmptyCatalog   *prometheus.CounterVec
	CurationErrors *prometheus.CounterVec

	// Catalog metrics
	CatalogRecords prometheus.Gauge

	// Stream metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	snapshot MetricsSnapshot
	mu       sync.RWMutex
}

// MetricsSnapshot holds current metric values for the JSON API
type MetricsSnapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	TotalErrors    int64   `json:"total_errors"`
	Passes         int64   `json:"passes"`
	EmptyPasses    int64   `json:"empty_passes"`
	FailedPasses   int64   `json:"failed_passes"`
	LastPassMillis float64 `json:"last_pass_ms"`
	UpgradeCount   int64   `json:"upgrade_count"`
}

// NewMetricsWith creates a metrics collector on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curator_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curator_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		PassesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_passes_total",
				Help: "Total number of completed curation passes",
			},
			[]string{"category_kind"},
		),
		PassDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "curator_pass_duration_seconds",
				Help:    "Curation pass duration in seconds",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5},
			},
			[]string{"category_kind"},
		),
		ViewRecords: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "curator_view_records",
				Help: "Number of records in each view after the last pass",
			},
			[]string{"view"},
		),
		UpgradeCount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "curator_upgrade_count",
				Help: "Number of installed packages with an upgrade available",
			},
		),
		EmptyCatalog: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_empty_catalog_total",
				Help: "Passes that found an empty catalog, by host refresh decision",
			},
			[]string{"host_refreshed"},
		),
		CurationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_errors_total",
				Help: "Total number of failed curation passes",
			},
			[]string{"kind"},
		),

		CatalogRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "curator_catalog_records",
				Help: "Number of records in the catalog",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "curator_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "curator_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCurationPass records a successful pass and the resulting view sizes
func (m *Metrics) RecordCurationPass(kind string, duration time.Duration, available, installed, upgradable int) {
	m.PassesTotal.WithLabelValues(kind).Inc()
	m.PassDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.ViewRecords.WithLabelValues("available").Set(float64(available))
	m.ViewRecords.WithLabelValues("installed").Set(float64(installed))
	m.ViewRecords.WithLabelValues("upgradable").Set(float64(upgradable))
	m.UpgradeCount.Set(float64(upgradable))

	m.mu.Lock()
	m.snapshot.Passes++
	m.snapshot.LastPassMillis = float64(duration.Microseconds()) / 1000
	m.snapshot.UpgradeCount = int64(upgradable)
	m.mu.Unlock()
}

// RecordEmptyCatalog records an empty-catalog pass and the host's decision
func (m *Metrics) RecordEmptyCatalog(hostRefreshed bool) {
	m.EmptyCatalog.WithLabelValues(strconv.FormatBool(hostRefreshed)).Inc()

	m.mu.Lock()
	m.snapshot.EmptyPasses++
	m.mu.Unlock()
}

// RecordCurationError records a failed pass
func (m *Metrics) RecordCurationError(kind string) {
	m.CurationErrors.WithLabelValues(kind).Inc()

	m.mu.Lock()
	m.snapshot.FailedPasses++
	m.mu.Unlock()
}

// SetCatalogRecords sets the number of records in the catalog
func (m *Metrics) SetCatalogRecords(count int) {
	m.CatalogRecords.Set(float64(count))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
}

// Snapshot returns the current metric values
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
