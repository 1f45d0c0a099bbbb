package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dtroode/miniapp-server/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request counts and latency per route template.
type Metrics struct {
	metrics *metrics.Metrics
}

func NewMetrics(m *metrics.Metrics) *Metrics {
	return &Metrics{metrics: m}
}

func (m *Metrics) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next.ServeHTTP(rec, r)

		m.metrics.ObserveHTTP(r.Method, routeTemplate(r), rec.status, time.Since(start))
	})
}

// routeTemplate keeps label cardinality bounded by never using the raw path.
func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return unmatchedRoute
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tpl
}
