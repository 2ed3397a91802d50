package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the front-end
type Metrics struct {
	// HTTP metrics for the front-end's own handlers
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Outgoing backend API call metrics, labeled by typed client and outcome
	BackendCallsTotal   *prometheus.CounterVec
	BackendCallDuration *prometheus.HistogramVec

	// Auth metrics
	LoginsTotal  *prometheus.CounterVec
	LogoutsTotal prometheus.Counter

	// Stats poller metrics
	StatsRefreshTotal   *prometheus.CounterVec
	StatsStaleDiscarded prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abdata_http_requests_total",
				Help: "Total number of HTTP requests served by the front-end",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abdata_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		BackendCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abdata_backend_calls_total",
				Help: "Backend REST calls by typed client and outcome kind",
			},
			[]string{"client", "operation", "outcome"},
		),
		BackendCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abdata_backend_call_duration_seconds",
				Help:    "Backend REST call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"client", "operation"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abdata_logins_total",
				Help: "Login attempts by source and result",
			},
			[]string{"source", "result"},
		),
		LogoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "abdata_logouts_total",
				Help: "Completed logout operations",
			},
		),
		StatsRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abdata_stats_refresh_total",
				Help: "Dashboard stats poll attempts by result",
			},
			[]string{"result"},
		),
		StatsStaleDiscarded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "abdata_stats_stale_discarded_total",
				Help: "Poll responses discarded because the poller had stopped",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BackendCallsTotal,
		m.BackendCallDuration,
		m.LoginsTotal,
		m.LogoutsTotal,
		m.StatsRefreshTotal,
		m.StatsStaleDiscarded,
	)

	return m
}

// ObserveBackendCall records one backend call outcome. outcome is "success"
// or the error kind.
func (m *Metrics) ObserveBackendCall(client, operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.BackendCallsTotal.WithLabelValues(client, operation, outcome).Inc()
	m.BackendCallDuration.WithLabelValues(client, operation).Observe(seconds)
}

// Handler returns the /metrics HTTP handler for the registry
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
