package metrics

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solcore-labs/corecollection/config"
)

// DBStatsProvider interface for getting database statistics
type DBStatsProvider interface {
	GetDBStats() (*sql.DBStats, error)
}

// Metrics contains all metric groups
type Metrics struct {
	HTTP     *HTTPMetrics
	Database *DatabaseMetrics
	Indexer  *IndexerMetrics
	RPC      *RPCMetrics
	Error    *ErrorMetrics
}

var (
	// Global registry and metrics
	registry *prometheus.Registry
	metrics  *Metrics

	// Global DB stats updater
	dbStatsUpdater *DBStatsUpdater
	dbStatsMtx     sync.Mutex

	// Singleton initialization
	initOnce sync.Once

	// Cluster label shared by every metric
	clusterName string
)

// constLabels returns the constant labels to be added to all metrics
func constLabels() prometheus.Labels {
	if clusterName == "" {
		return nil
	}
	return prometheus.Labels{"cluster": clusterName}
}

// MetricsServer represents the Prometheus metrics HTTP server
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
	cfg    *config.MetricsConfig
}

// Init initializes the Prometheus metrics registry and registers all metrics.
// Only the first call has an effect; cluster becomes the "cluster" label.
func Init(cluster string) {
	initOnce.Do(func() {
		clusterName = cluster
		registry = prometheus.NewRegistry()

		metrics = &Metrics{
			HTTP:     NewHTTPMetrics(),
			Database: NewDatabaseMetrics(),
			Indexer:  NewIndexerMetrics(),
			RPC:      NewRPCMetrics(),
			Error:    NewErrorMetrics(),
		}

		metrics.HTTP.Register(registry)
		metrics.Database.Register(registry)
		metrics.Indexer.Register(registry)
		metrics.RPC.Register(registry)
		metrics.Error.Register(registry)

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// NewServer creates a new metrics server
func NewServer(cfg *config.Config, logger *slog.Logger) *MetricsServer {
	metricsConfig := cfg.GetMetricsConfig()
	Init(cfg.GetCluster())

	mux := http.NewServeMux()
	mux.Handle(metricsConfig.Path, Handler())

	server := &http.Server{
		Addr:              ":" + metricsConfig.Port,
		Handler:           mux,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return &MetricsServer{
		server: server,
		logger: logger.With("component", "metrics"),
		cfg:    metricsConfig,
	}
}

// Handler exposes the registry in the OpenMetrics format.
func Handler() http.Handler {
	Init("")
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Start starts the metrics server
func (m *MetricsServer) Start() error {
	if !m.cfg.Enabled {
		m.logger.Info("metrics server disabled")
		return nil
	}

	m.logger.Info("starting metrics server",
		slog.String("addr", m.server.Addr),
		slog.String("path", m.cfg.Path))

	if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the metrics server
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	if !m.cfg.Enabled {
		return nil
	}

	m.logger.Info("shutting down metrics server")
	StopDBStatsUpdater()
	return m.server.Shutdown(ctx)
}

// GetMetrics returns the global metrics instance, initializing it without a
// cluster label when Init has not run yet.
func GetMetrics() *Metrics {
	Init("")
	return metrics
}

func DBQueriesTotal() *prometheus.CounterVec {
	return GetMetrics().Database.QueriesTotal
}

func DBQueryDuration() *prometheus.HistogramVec {
	return GetMetrics().Database.QueryDuration
}

func DBRowsAffected() *prometheus.HistogramVec {
	return GetMetrics().Database.RowsAffected
}

// ObserveUpsert records the rows one indexed transaction upserted into table.
func ObserveUpsert(table string, rows int) {
	GetMetrics().Database.UpsertRows.WithLabelValues(table).Observe(float64(rows))
}

// TrackUnmatchedUpdate counts an update whose target row is not indexed.
func TrackUnmatchedUpdate(table string) {
	GetMetrics().Database.UnmatchedUpdates.WithLabelValues(table).Inc()
}

// StartDBStatsUpdater starts periodic database statistics collection
func StartDBStatsUpdater(provider DBStatsProvider, logger *slog.Logger) {
	dbStatsMtx.Lock()
	defer dbStatsMtx.Unlock()
	if dbStatsUpdater != nil {
		return
	}

	dbStatsUpdater = NewDBStatsUpdater(provider, logger, GetMetrics().Database)
	dbStatsUpdater.Start()
}

// StopDBStatsUpdater stops the database statistics collection
func StopDBStatsUpdater() {
	dbStatsMtx.Lock()
	defer dbStatsMtx.Unlock()
	if dbStatsUpdater != nil {
		dbStatsUpdater.Stop()
		dbStatsUpdater = nil
	}
}
