package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
)

// HTTPMetrics groups HTTP-related metrics
type HTTPMetrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	ErrorsTotal      *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec

	// Slow requests keep the full path for debugging
	SlowRequests *prometheus.CounterVec
}

// NewHTTPMetrics creates and returns HTTP metrics
func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "handler", "status_class"}, // status_class: 2xx, 3xx, 4xx, 5xx
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corecollection_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: HTTPLatencyBuckets,
			},
			[]string{"method", "handler"},
		),
		RequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corecollection_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_http_errors_total",
				Help: "Total number of HTTP errors",
			},
			[]string{"handler", "error_type"},
		),
		CacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_http_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"handler", "result"}, // "hit", "miss"
		),
		SlowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_http_slow_requests_total",
				Help: "Total number of slow requests (>1s) with full path for debugging",
			},
			[]string{"method", "path", "duration_bucket"}, // "1-2s", "2-5s", "5s+"
		),
	}
}

// Register registers all HTTP metrics with the given registry
func (h *HTTPMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		h.RequestsTotal,
		h.RequestDuration,
		h.RequestsInFlight,
		h.ErrorsTotal,
		h.CacheLookups,
		h.SlowRequests,
	)
}

// GetStatusClass converts HTTP status code to class (2xx, 3xx, 4xx, 5xx)
func GetStatusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}

// GetHandlerPattern reduces a request path to a low cardinality handler name.
// /indexer/core/v1/collections/<addr> becomes "collections".
func GetHandlerPattern(path string) string {
	if len(path) == 0 {
		return "root"
	}

	switch {
	case path == "/":
		return "root"
	case strings.HasPrefix(path, "/swagger"):
		return "swagger"
	case path == "/health" || path == "/ping":
		return "health"
	case path == "/status" || path == "/indexer/status":
		return "status"
	case strings.HasPrefix(path, "/indexer/"):
		parts := strings.Split(strings.Trim(path, "/"), "/")
		// indexer, core, v1, <resource>
		if len(parts) >= 4 && parts[3] != "" {
			return parts[3]
		}
		return "indexer"
	default:
		return "other"
	}
}

// GetDurationBucket categorizes request duration for slow request tracking
func GetDurationBucket(seconds float64) string {
	switch {
	case seconds < 1:
		return ""
	case seconds < 2:
		return "1-2s"
	case seconds < 5:
		return "2-5s"
	default:
		return "5s+"
	}
}
