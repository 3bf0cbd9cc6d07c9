package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LatencyBuckets   = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	SemaphoreBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
)

// RPCMetrics groups Solana JSON-RPC metrics
type RPCMetrics struct {
	RequestsTotal         *prometheus.CounterVec
	Latency               *prometheus.HistogramVec
	ConcurrentActive      prometheus.Gauge
	SemaphoreWaitDuration prometheus.Histogram
	RateLimitHitsTotal    *prometheus.CounterVec
}

// NewRPCMetrics creates and returns RPC metrics
func NewRPCMetrics() *RPCMetrics {
	return &RPCMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_rpc_requests_total",
				Help: "Total number of Solana RPC requests",
			},
			[]string{"method", "status"},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corecollection_rpc_latency_seconds",
				Help:    "Solana RPC request latency in seconds",
				Buckets: LatencyBuckets,
			},
			[]string{"method"},
		),
		ConcurrentActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corecollection_rpc_concurrent_requests_active",
				Help: "Number of currently active RPC requests",
			},
		),
		SemaphoreWaitDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "corecollection_semaphore_wait_duration_seconds",
				Help:    "Time spent waiting for semaphore acquisition",
				Buckets: SemaphoreBuckets,
			},
		),
		RateLimitHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_rpc_rate_limit_hits_total",
				Help: "Total number of rate limit hits (429 errors)",
			},
			[]string{"method"},
		),
	}
}

// Register registers all RPC metrics with the given registry
func (r *RPCMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		r.RequestsTotal,
		r.Latency,
		r.ConcurrentActive,
		r.SemaphoreWaitDuration,
		r.RateLimitHitsTotal,
	)
}

// ObserveRPC records one finished RPC call.
func ObserveRPC(method string, start time.Time, err error) {
	m := GetMetrics().RPC
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.Latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
