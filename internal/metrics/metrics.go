// Package metrics exposes the board service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "geoboard"

// Import outcomes.
const (
	ImportStored    = "stored"
	ImportDuplicate = "duplicate"
	ImportInvalid   = "invalid"
	ImportNoBoard   = "no_board"
	ImportError     = "error"
)

// HTTPBuckets are request latency buckets in seconds.
var HTTPBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ImportsTotal    *prometheus.CounterVec
	ManualEntries   prometheus.Counter
	LiveSubscribers prometheus.Gauge
	CacheLookups    *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers all collectors with reg. Tests pass a fresh
// prometheus.NewRegistry to avoid duplicate registration.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status code.",
		}, []string{"route", "method", "status_code"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   HTTPBuckets,
		}, []string{"route", "method"}),

		ImportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Game imports by outcome.",
		}, []string{"outcome"}),

		ManualEntries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "manual_entries_total",
			Help:      "Manually entered results.",
		}),

		LiveSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_subscribers",
			Help:      "Open SSE and websocket standings feeds.",
		}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "standings_cache_lookups_total",
			Help:      "Standings cache lookups by result.",
		}, []string{"result"}),

		gatherer: reg,
	}
}

// Middleware records request count and latency under the matched chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.RequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Import counts one import outcome.
func (m *Metrics) Import(outcome string) {
	m.ImportsTotal.WithLabelValues(outcome).Inc()
}
