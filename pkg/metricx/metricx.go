// Package metricx registers prometheus metrics and exposes HTTP
// instrumentation for the member auth service.
package metricx

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Auth outcomes, labelled by result so dashboards can split successes
	// from each failure kind without parsing logs.
	signinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_signins_total",
			Help: "Sign-in attempts by result.",
		},
		[]string{"result"},
	)

	refreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_token_refreshes_total",
			Help: "Access-token refresh attempts by result.",
		},
		[]string{"result"},
	)
)

// Init registers all metrics with the default registry. Call once at
// startup.
func Init() {
	prometheus.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		signinsTotal,
		refreshesTotal,
	)
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSignIn records a sign-in outcome ("ok", "bad_credentials",
// "store_unavailable", "error").
func ObserveSignIn(result string) {
	signinsTotal.WithLabelValues(result).Inc()
}

// ObserveRefresh records a refresh outcome ("ok", "invalid", "expired",
// "not_found", "conflict", "store_unavailable", "error").
func ObserveRefresh(result string) {
	refreshesTotal.WithLabelValues(result).Inc()
}

// Instrument wraps a handler with RPS, latency, and in-flight tracking.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpInFlight.Dec()
	})
}

type statusWriter struct {
	http.ResponseWriter

	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
