package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the table grid service
type MetricsRegistry struct {
	Registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	MutationsTotal      *prometheus.CounterVec
	MutationDuration    *prometheus.HistogramVec
	MutationsPending    prometheus.Gauge
	ViewComposeDuration prometheus.Histogram
	LayoutFallbacks     *prometheus.CounterVec
}

// NewMetricsRegistry builds the metrics on a fresh registry so separate
// instances never collide.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &MetricsRegistry{
		Registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tablegrid_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tablegrid_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		MutationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_mutations_total",
				Help: "Mutations dispatched by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		MutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tablegrid_mutation_duration_seconds",
				Help:    "Time from dispatch to store response",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"operation"},
		),
		MutationsPending: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tablegrid_mutations_pending",
				Help: "Mutations dispatched and awaiting a store response",
			},
		),
		ViewComposeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tablegrid_view_compose_duration_seconds",
				Help:    "Time spent deriving a table view",
				Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
			},
		),
		LayoutFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tablegrid_layout_fallbacks_total",
				Help: "Layout reads served from a fallback source",
			},
			[]string{"source"},
		),
	}
}

// ObserveMutation records one finished mutation.
func (m *MetricsRegistry) ObserveMutation(op string, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(op, outcome).Inc()
	m.MutationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// CacheLookup counts a hit or miss for the key pattern.
func (m *MetricsRegistry) CacheLookup(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(pattern).Inc()
}

// LayoutFallback counts a layout read served from source.
func (m *MetricsRegistry) LayoutFallback(source string) {
	if m == nil {
		return
	}
	m.LayoutFallbacks.WithLabelValues(source).Inc()
}

// ObserveCompose records how long a view derivation took.
func (m *MetricsRegistry) ObserveCompose(started time.Time) {
	if m == nil {
		return
	}
	m.ViewComposeDuration.Observe(time.Since(started).Seconds())
}
