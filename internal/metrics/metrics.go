// Package metrics defines the Prometheus collectors for the HTTP server,
// the planner and its caches.
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

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fuelstops",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fuelstops",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	// Planning metrics
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fuelstops",
		Subsystem: "planner",
		Name:      "plans_total",
		Help:      "Total planning requests by outcome",
	}, []string{"outcome"})

	StopsPlanned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fuelstops",
		Subsystem: "planner",
		Name:      "stops_per_plan",
		Help:      "Number of fuel stops emitted per plan",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	RouteFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fuelstops",
		Subsystem: "routing",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of route fetches from the routing provider",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	GeocodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fuelstops",
		Subsystem: "geocoding",
		Name:      "failures_total",
		Help:      "Reverse geocoding calls that degraded a stop to an unknown location",
	})

	PriceFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fuelstops",
		Subsystem: "prices",
		Name:      "fallbacks_total",
		Help:      "Stops priced with the table-wide mean because no region matched",
	})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fuelstops",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"cache"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fuelstops",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"cache"})
)

// unmatchedPath labels requests that hit no route, keeping the label set
// bounded.
const unmatchedPath = "unmatched"

// Middleware records request metrics labelled by the chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := unmatchedPath
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
