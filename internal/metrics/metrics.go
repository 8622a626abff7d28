package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewratio_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brewratio_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "path"})
)

// Form metrics
var (
	FormChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewratio_form_changes_total",
		Help: "Total number of change events mirrored into form state",
	}, []string{"field"})

	RatioComputationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewratio_ratio_computations_total",
		Help: "Total number of ratio computations by outcome",
	}, []string{"outcome"})
)

// Cache metrics
var (
	CacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewratio_cache_operations_total",
		Help: "Total number of local cache operations",
	}, []string{"operation", "result"})

	CacheErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewratio_cache_errors_total",
		Help: "Total number of swallowed cache backend errors",
	}, []string{"backend", "operation"})
)

// Live session metrics
var (
	LiveSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewratio_live_sessions_active",
		Help: "Number of open live page sessions",
	})

	LiveMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "brewratio_live_messages_total",
		Help: "Total number of live session messages",
	}, []string{"direction"})
)

// Business metrics (gauges updated periodically by collector)
var (
	KnownVisitorsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "brewratio_known_visitors_total",
		Help: "Number of visitors with cached form values",
	})
)

// NormalizePath reduces high-cardinality path labels. Every route is static
// except static assets, which collapse into one label; unknown paths share
// a single label so scanners cannot grow the label space.
func NormalizePath(path string) string {
	if len(path) > 8 && path[:8] == "/static/" {
		return "/static/*"
	}

	switch path {
	case "/", "/change", "/live", "/api/ratio", "/healthz", "/metrics":
		return path
	}
	return "other"
}
