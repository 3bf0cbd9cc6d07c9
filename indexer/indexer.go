package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/indexer/collector"
	"github.com/solcore-labs/corecollection/indexer/scraper"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/sentry_integration"
	"github.com/solcore-labs/corecollection/types"
	"github.com/solcore-labs/corecollection/util"
)

type Indexer struct {
	cfg       *config.Config
	logger    *slog.Logger
	db        *orm.Database
	client    indexertypes.RPCClient
	scraper   *scraper.Scraper
	collector *collector.Collector
	publisher indexertypes.Publisher
	txMap     map[int64]indexertypes.ScrapedTx
	txChan    chan indexertypes.ScrapedTx
	inflight  *semaphore.Weighted
	mtx       sync.Mutex
	seq       int64
}

// New wires an indexer. publisher may be nil, in which case no events are published.
func New(cfg *config.Config, logger *slog.Logger, db *orm.Database, client indexertypes.RPCClient, publisher indexertypes.Publisher) *Indexer {
	limiter := util.NewLimiter(cfg.GetMaxConcurrentRequests())
	return &Indexer{
		cfg:       cfg,
		logger:    logger,
		db:        db,
		client:    client,
		scraper:   scraper.New(cfg, logger, client, limiter),
		collector: collector.New(cfg, logger, db, client, limiter),
		publisher: publisher,
		txMap:     make(map[int64]indexertypes.ScrapedTx),
		txChan:    make(chan indexertypes.ScrapedTx),
		inflight:  semaphore.NewWeighted(types.MaxInflightTxs),
	}
}

// Run blocks until ctx is done or a transaction cannot be indexed.
func (i *Indexer) Run(ctx context.Context) error {
	// wait for the cluster to be ready
	if err := i.wait(ctx); err != nil {
		return err
	}

	var seqInfo types.CollectedSeqInfo
	if err := i.db.WithContext(ctx).
		Where("name = ?", string(types.SeqInfoProgramSignature)).
		First(&seqInfo).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		i.logger.Error("failed to get the cursor from db", slog.Any("error", err))
		return types.NewDatabaseError("get cursor", err)
	}
	i.logger.Info("starting indexer", slog.String("cursor", seqInfo.Cursor), slog.Int64("slot", seqInfo.Sequence))
	metrics.SetComponentHealth("indexer", true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		i.scraper.Run(gctx, seqInfo.Cursor, i.txChan)
		return nil
	})
	g.Go(func() error {
		return i.prepare(gctx)
	})
	g.Go(func() error {
		return i.collect(gctx)
	})

	err := g.Wait()
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (i *Indexer) wait(ctx context.Context) error {
	minVersion := normalizeVersion(i.cfg.GetMinClusterVersion())
	for {
		res, err := i.client.GetVersion(ctx)
		switch {
		case err != nil || res == nil:
			i.logger.Error("failed to get cluster version", slog.Any("error", err))
		case !semver.IsValid(normalizeVersion(res.SolanaCore)):
			i.logger.Error("cluster reported an invalid version", slog.String("version", res.SolanaCore))
		case semver.Compare(normalizeVersion(res.SolanaCore), minVersion) < 0:
			i.logger.Warn("cluster version is below the minimum",
				slog.String("version", res.SolanaCore),
				slog.String("min_version", minVersion))
		default:
			i.logger.Info("cluster is ready", slog.String("version", res.SolanaCore))
			return nil
		}

		if !sleep(ctx, types.ClusterCheckInterval) {
			return ctx.Err()
		}
	}
}

func (i *Indexer) prepare(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			var tx indexertypes.ScrapedTx
			select {
			case <-gctx.Done():
				return nil
			case tx = <-i.txChan:
			}
			if err := i.inflight.Acquire(gctx, 1); err != nil {
				return nil
			}

			g.Go(func() error {
				defer metrics.RecoverFromPanic("indexer")
				return i.prepareTx(gctx, tx)
			})
		}
	})
	return g.Wait()
}

func (i *Indexer) prepareTx(ctx context.Context, tx indexertypes.ScrapedTx) error {
	span, ctx := sentry_integration.StartSentrySpan(ctx, "prepareTx", "Prepare program transaction "+tx.Signature)
	defer span.Finish()

	start := time.Now()
	indexerMetrics := metrics.GetMetrics().Indexer
	if err := i.collector.Prepare(ctx, tx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		i.logger.Error("failed to prepare transaction", slog.String("signature", tx.Signature), slog.Int64("slot", tx.Slot), slog.Any("error", err))
		indexerMetrics.ProcessingErrors.WithLabelValues("prepare", "collector_error").Inc()
		metrics.TrackError("indexer", "prepare_error")
		sentry_integration.CaptureSignatureException(err, tx.Signature, tx.Slot)
		return fmt.Errorf("failed to prepare %s: %w", tx.Signature, err)
	}
	indexerMetrics.ProcessingTime.WithLabelValues("prepare").Observe(time.Since(start).Seconds())

	i.mtx.Lock()
	i.txMap[tx.Seq] = tx
	i.mtx.Unlock()
	return nil
}

func (i *Indexer) collect(ctx context.Context) error {
	for {
		i.mtx.Lock()
		tx, ok := i.txMap[i.seq]
		delete(i.txMap, i.seq)
		i.mtx.Unlock()

		if !ok {
			if !sleep(ctx, types.CollectCheckInterval) {
				return nil
			}
			continue
		}

		if err := i.collectTx(ctx, tx); err != nil {
			return err
		}
		i.inflight.Release(1)

		i.mtx.Lock()
		i.seq++
		i.mtx.Unlock()
	}
}

func (i *Indexer) collectTx(ctx context.Context, tx indexertypes.ScrapedTx) error {
	defer metrics.RecoverFromPanic("indexer")

	transaction, ctx := sentry_integration.StartSentryTransaction(ctx, "collectTx", "Collect program transaction "+tx.Signature)
	defer transaction.Finish()

	start := time.Now()
	indexerMetrics := metrics.GetMetrics().Indexer
	events, err := i.collector.Collect(ctx, tx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		i.logger.Error("failed to collect transaction", slog.String("signature", tx.Signature), slog.Int64("slot", tx.Slot), slog.Any("error", err))
		indexerMetrics.ProcessingErrors.WithLabelValues("collect", "collector_error").Inc()
		metrics.TrackError("indexer", "collect_error")
		sentry_integration.CaptureSignatureException(err, tx.Signature, tx.Slot)
		return fmt.Errorf("failed to collect %s: %w", tx.Signature, err)
	}
	indexerMetrics.ProcessingTime.WithLabelValues("collect").Observe(time.Since(start).Seconds())
	indexerMetrics.TransactionsProcessedTotal.WithLabelValues("success").Inc()
	indexerMetrics.CurrentSlot.Set(float64(tx.Slot))

	i.logger.Info("indexed transaction",
		slog.String("signature", tx.Signature),
		slog.Int64("slot", tx.Slot),
		slog.Int("events", len(events)))

	i.publish(ctx, events)
	return nil
}

// publish hands events to the publisher. Failures are logged and counted, the
// database stays the source of truth.
func (i *Indexer) publish(ctx context.Context, events []mq.Event) {
	if i.publisher == nil {
		return
	}
	indexerMetrics := metrics.GetMetrics().Indexer
	for _, ev := range events {
		if err := i.publisher.Publish(ctx, ev); err != nil {
			i.logger.Warn("failed to publish event", slog.String("kind", string(ev.Kind)), slog.String("id", ev.ID), slog.Any("error", err))
			indexerMetrics.EventsPublishedTotal.WithLabelValues(string(ev.Kind), "failed").Inc()
			metrics.TrackError("indexer", "publish_error")
			continue
		}
		indexerMetrics.EventsPublishedTotal.WithLabelValues(string(ev.Kind), "success").Inc()
	}
}

func normalizeVersion(v string) string {
	if !semver.IsValid(v) {
		v = "v" + v
	}
	return v
}

// sleep waits for d and reports false when ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
