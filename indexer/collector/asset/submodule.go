package asset

import (
	"context"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	indexerutil "github.com/solcore-labs/corecollection/indexer/util"
	"github.com/solcore-labs/corecollection/mq"
)

const SubmoduleName = "asset"

var _ indexertypes.Submodule = &AssetSubmodule{}

type AssetSubmodule struct {
	logger   *slog.Logger
	accounts *indexerutil.AccountCache
	cache    map[string]CacheData
	mtx      sync.Mutex
}

func New(logger *slog.Logger, accounts *indexerutil.AccountCache) *AssetSubmodule {
	return &AssetSubmodule{
		logger:   logger.With("submodule", SubmoduleName),
		accounts: accounts,
		cache:    make(map[string]CacheData),
	}
}

func (sub *AssetSubmodule) Name() string {
	return SubmoduleName
}

func (sub *AssetSubmodule) Prepare(ctx context.Context, tx indexertypes.ScrapedTx) error {
	if err := sub.prepare(ctx, tx); err != nil {
		sub.logger.Error("failed to prepare data", slog.String("signature", tx.Signature), slog.Any("error", err))
		return err
	}

	return nil
}

func (sub *AssetSubmodule) Collect(tx indexertypes.ScrapedTx, dbTx *gorm.DB) ([]mq.Event, error) {
	events, err := sub.collect(tx, dbTx)
	if err != nil {
		sub.logger.Error("failed to collect data", slog.String("signature", tx.Signature), slog.Any("error", err))
		return nil, err
	}

	return events, nil
}
