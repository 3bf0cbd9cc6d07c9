package collection

import (
	"context"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	indexerutil "github.com/solcore-labs/corecollection/indexer/util"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/types"
)

const SubmoduleName = "collection"

var _ indexertypes.Submodule = &CollectionSubmodule{}

type CollectionSubmodule struct {
	logger   *slog.Logger
	accounts *indexerutil.AccountCache
	cache    map[string][]types.CollectedCollection
	mtx      sync.Mutex
}

func New(logger *slog.Logger, accounts *indexerutil.AccountCache) *CollectionSubmodule {
	return &CollectionSubmodule{
		logger:   logger.With("submodule", SubmoduleName),
		accounts: accounts,
		cache:    make(map[string][]types.CollectedCollection),
	}
}

func (sub *CollectionSubmodule) Name() string {
	return SubmoduleName
}

func (sub *CollectionSubmodule) Prepare(ctx context.Context, tx indexertypes.ScrapedTx) error {
	if err := sub.prepare(ctx, tx); err != nil {
		sub.logger.Error("failed to prepare data", slog.String("signature", tx.Signature), slog.Any("error", err))
		return err
	}

	return nil
}

func (sub *CollectionSubmodule) Collect(tx indexertypes.ScrapedTx, dbTx *gorm.DB) ([]mq.Event, error) {
	events, err := sub.collect(tx, dbTx)
	if err != nil {
		sub.logger.Error("failed to collect data", slog.String("signature", tx.Signature), slog.Any("error", err))
		return nil, err
	}

	return events, nil
}
