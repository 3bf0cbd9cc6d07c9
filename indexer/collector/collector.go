package collector

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/indexer/collector/asset"
	"github.com/solcore-labs/corecollection/indexer/collector/collection"
	"github.com/solcore-labs/corecollection/indexer/collector/tx"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	indexerutil "github.com/solcore-labs/corecollection/indexer/util"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/types"
	"github.com/solcore-labs/corecollection/util"
)

type Collector struct {
	logger *slog.Logger
	db     *orm.Database
	// collection runs before asset so counters of a collection created in the
	// same transaction land on an existing row
	submodules []indexertypes.Submodule
}

func New(cfg *config.Config, logger *slog.Logger, db *orm.Database, client indexertypes.RPCClient, limiter *util.Limiter) *Collector {
	accounts := indexerutil.NewAccountCache(client, limiter, cfg.GetAccountCacheSize())
	return &Collector{
		logger: logger.With("module", "collector"),
		db:     db,
		submodules: []indexertypes.Submodule{
			collection.New(logger, accounts),
			asset.New(logger, accounts),
			tx.New(logger),
		},
	}
}

// Prepare reads everything tx needs from the cluster. It may run concurrently
// for different transactions.
func (c *Collector) Prepare(ctx context.Context, tx indexertypes.ScrapedTx) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, sub := range c.submodules {
		s := sub
		g.Go(func() error {
			if err := s.Prepare(gctx, tx); err != nil {
				c.logger.Error("failed to prepare data", slog.String("submodule", s.Name()), slog.String("signature", tx.Signature), slog.Any("error", err))
				return err
			}

			return nil
		})
	}

	return g.Wait()
}

// Collect writes a prepared transaction and advances the cursor in one db
// transaction. It returns the events to publish once the write is committed.
func (c *Collector) Collect(ctx context.Context, tx indexertypes.ScrapedTx) ([]mq.Event, error) {
	var events []mq.Event
	err := c.db.WithContext(ctx).Transaction(func(dbTx *gorm.DB) error {
		events = events[:0]
		for _, sub := range c.submodules {
			evs, err := sub.Collect(tx, dbTx)
			if err != nil {
				c.logger.Error(fmt.Sprintf("failed to collect %s", sub.Name()), slog.String("signature", tx.Signature), slog.Any("error", err))
				return err
			}
			events = append(events, evs...)
		}

		seqInfo := types.CollectedSeqInfo{
			Name:     string(types.SeqInfoProgramSignature),
			Sequence: tx.Slot,
			Cursor:   tx.Signature,
		}
		return dbTx.Clauses(orm.UpdateAllWhenConflict).Create(&seqInfo).Error
	})
	if err != nil {
		return nil, types.NewDatabaseError("collect transaction", err)
	}
	metrics.GetMetrics().Database.CursorCommits.Inc()

	return events, nil
}
