package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the guidance
// service.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec // labels: route, method, status

	// Upstream weather API metrics.
	UpstreamRequests *prometheus.CounterVec   // labels: endpoint={geocode,forecast}, outcome={success,error}
	UpstreamDuration *prometheus.HistogramVec // labels: endpoint

	// Place cache lookups against the persistent cache.
	PlaceCache *prometheus.CounterVec // labels: result={hit,miss}

	AnalyticsEvents prometheus.Counter
	SignupsTotal    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.HTTPRequests,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.PlaceCache,
		m.AnalyticsEvents,
		m.SignupsTotal,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cropwise",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern, method, and status code.",
		}, []string{"route", "method", "status"}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cropwise",
			Name:      "upstream_requests_total",
			Help:      "OpenWeather API requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cropwise",
			Name:      "upstream_request_duration_seconds",
			Help:      "OpenWeather API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"endpoint"}),
		PlaceCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cropwise",
			Name:      "place_cache_total",
			Help:      "Place cache lookups by result.",
		}, []string{"result"}),
		AnalyticsEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cropwise",
			Name:      "analytics_events_total",
			Help:      "Analytics events recorded.",
		}),
		SignupsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cropwise",
			Name:      "signups_total",
			Help:      "User accounts created.",
		}),
	}
}
