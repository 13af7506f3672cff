package httpx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the HTTP RED metrics plus negotiation and recovery counters.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	noMatchTotal     *prometheus.CounterVec
	rateLimitRejects prometheus.Counter
	panicRecoveries  prometheus.Counter
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "library_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "library_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),
		noMatchTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_media_type_no_match_total",
				Help: "Requests whose header matched no registered representation",
			},
			[]string{"header"},
		),
		rateLimitRejects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "library_rate_limit_rejects_total",
				Help: "Total number of requests rejected due to rate limiting",
			},
		),
		panicRecoveries: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "library_panic_recoveries_total",
				Help: "Total number of panics recovered in HTTP handlers",
			},
		),
	}
}

// Middleware records request count, latency and in-flight requests, labelled
// by the chi route pattern so path parameters do not explode cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.requestsInFlight.Inc()
		defer m.requestsInFlight.Dec()

		rw := wrapResponseWriter(w)
		next.ServeHTTP(rw, r)

		route := routePattern(r)
		m.requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) noMatch(header string) {
	if m != nil {
		m.noMatchTotal.WithLabelValues(http.CanonicalHeaderKey(header)).Inc()
	}
}

func (m *Metrics) rateLimited() {
	if m != nil {
		m.rateLimitRejects.Inc()
	}
}

func (m *Metrics) recovered() {
	if m != nil {
		m.panicRecoveries.Inc()
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
