package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iwvelando/deal-underwriter/internal/analysis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one handler. Each handler owns a
// registry so that several handlers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	PropertiesAnalyzed *prometheus.CounterVec
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// NewMetrics registers the server collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		PropertiesAnalyzed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "underwriter_properties_analyzed_total",
				Help: "Total number of properties analyzed, by recommendation",
			},
			[]string{"recommendation"},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "underwriter_http_requests_total",
				Help: "Total number of API requests, by route and status code",
			},
			[]string{"route", "code"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "underwriter_http_request_duration_seconds",
				Help:    "Duration of API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeAnalyses(results []analysis.Analysis) {
	for _, result := range results {
		m.PropertiesAnalyzed.WithLabelValues(result.Metrics.Recommendation.String()).Inc()
	}
}

func (m *Metrics) observeRequest(route string, status int, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
