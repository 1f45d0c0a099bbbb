package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authentication outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeInvalid      = "invalid"
	OutcomeExpired      = "expired"
	OutcomeStorageError = "storage_error"
	OutcomeIssueError   = "issue_error"
)

// Metrics holds the service collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	authAttempts *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them together with the Go and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "miniapp",
				Name:      "auth_attempts_total",
				Help:      "Launch data authentication attempts by outcome.",
			},
			[]string{"outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "miniapp",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "miniapp",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "path"},
		),
	}

	m.registry.MustRegister(
		m.authAttempts,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveAuth counts one authentication attempt.
func (m *Metrics) ObserveAuth(outcome string) {
	m.authAttempts.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records a finished HTTP request. path should be a route
// template, not the raw URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
