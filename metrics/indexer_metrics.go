package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	IndexerLatencyBuckets = []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}
)

// IndexerMetrics groups indexer-related metrics
type IndexerMetrics struct {
	// Core processing metrics
	TransactionsProcessedTotal *prometheus.CounterVec
	CurrentSlot                prometheus.Gauge
	ProcessingTime             *prometheus.HistogramVec

	// Domain counters
	CollectionsIndexedTotal prometheus.Counter
	AssetsIndexedTotal      prometheus.Counter
	TransfersIndexedTotal   prometheus.Counter
	EventsPublishedTotal    *prometheus.CounterVec

	// Queue and throughput metrics
	PendingSignatures prometheus.Gauge
	ProcessingSpeed   prometheus.Gauge

	// Error tracking
	ProcessingErrors *prometheus.CounterVec
}

// NewIndexerMetrics creates and returns indexer metrics
func NewIndexerMetrics() *IndexerMetrics {
	return &IndexerMetrics{
		TransactionsProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_transactions_processed_total",
				Help: "Total number of program transactions processed",
			},
			[]string{"status"}, // "success", "failed"
		),
		CurrentSlot: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corecollection_current_slot",
				Help: "Slot of the newest indexed program transaction",
			},
		),
		ProcessingTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corecollection_processing_duration_seconds",
				Help:    "Time spent per indexer stage",
				Buckets: IndexerLatencyBuckets,
			},
			[]string{"stage"}, // "scrape", "prepare", "collect"
		),
		CollectionsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corecollection_collections_indexed_total",
				Help: "Total number of collections written to the database",
			},
		),
		AssetsIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corecollection_assets_indexed_total",
				Help: "Total number of assets written to the database",
			},
		),
		TransfersIndexedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "corecollection_transfers_indexed_total",
				Help: "Total number of asset ownership changes applied",
			},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_events_published_total",
				Help: "Total number of events published to the message stream",
			},
			[]string{"kind", "status"},
		),
		PendingSignatures: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corecollection_pending_signatures",
				Help: "Number of scraped signatures waiting to be collected",
			},
		),
		ProcessingSpeed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "corecollection_processing_speed_tx_per_second",
				Help: "Current processing speed in transactions per second",
			},
		),
		ProcessingErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corecollection_processing_errors_total",
				Help: "Total number of processing errors",
			},
			[]string{"stage", "error_type"},
		),
	}
}

// Register registers all indexer metrics with the given registry
func (i *IndexerMetrics) Register(reg *prometheus.Registry) {
	reg.MustRegister(
		i.TransactionsProcessedTotal,
		i.CurrentSlot,
		i.ProcessingTime,
		i.CollectionsIndexedTotal,
		i.AssetsIndexedTotal,
		i.TransfersIndexedTotal,
		i.EventsPublishedTotal,
		i.PendingSignatures,
		i.ProcessingSpeed,
		i.ProcessingErrors,
	)
}
