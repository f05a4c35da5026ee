package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dv_http_requests_total",
			Help: "Total HTTP requests served.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dv_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// uploadsTotal counts upload attempts by record kind and outcome.
	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dv_uploads_total",
			Help: "Upload attempts by file type and result.",
		},
		[]string{"type", "result"},
	)

	// previewsTotal counts preview requests by resolved kind.
	previewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dv_previews_total",
			Help: "Preview requests by classification.",
		},
		[]string{"kind"},
	)
)

// Metrics returns middleware recording request counts and latency. Routes
// are labeled by the chi pattern, so record ids do not blow up cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			route := routePattern(r)
			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// routePattern resolves the matched chi pattern; the raw path is the
// fallback for unrouted requests.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
