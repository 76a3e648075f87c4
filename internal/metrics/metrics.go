// Package metrics provides Prometheus instrumentation for the gains engine and HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EngineRuns counts matching runs, one per scope report computed.
	EngineRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capgains_engine_runs_total",
		Help: "Total number of FIFO matching runs",
	})

	EngineDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "capgains_engine_duration_seconds",
		Help:    "Time spent loading and matching one scope",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	})

	// Disposals counts disposal records processed, partitioned by whether they were fully matched.
	Disposals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capgains_disposals_total",
		Help: "Disposals processed by the matching engine",
	}, []string{"matched"})

	ReportCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capgains_report_cache_total",
		Help: "Gain report cache lookups by result",
	}, []string{"result"})

	// ImportRows counts imported rows by outcome (created, rejected).
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capgains_import_rows_total",
		Help: "Rows processed by bulk imports",
	}, []string{"outcome"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "capgains_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "capgains_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "capgains_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

// ObserveEngineRun records one matching run.
func ObserveEngineRun(started time.Time, matched, unmatched int) {
	EngineRuns.Inc()
	EngineDuration.Observe(time.Since(started).Seconds())
	Disposals.WithLabelValues("true").Add(float64(matched))
	Disposals.WithLabelValues("false").Add(float64(unmatched))
}

func CacheHit()  { ReportCache.WithLabelValues("hit").Inc() }
func CacheMiss() { ReportCache.WithLabelValues("miss").Inc() }

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := routeLabel(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routeLabel uses the mux route template so ids do not explode label cardinality.
func routeLabel(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
