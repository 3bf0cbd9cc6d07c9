package tx

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/mq"
)

const SubmoduleName = "tx"

var _ indexertypes.Submodule = &TxSubmodule{}

type TxSubmodule struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *TxSubmodule {
	return &TxSubmodule{
		logger: logger.With("submodule", SubmoduleName),
	}
}

func (sub *TxSubmodule) Name() string {
	return SubmoduleName
}

func (sub *TxSubmodule) Prepare(_ context.Context, _ indexertypes.ScrapedTx) error {
	return nil
}

func (sub *TxSubmodule) Collect(tx indexertypes.ScrapedTx, dbTx *gorm.DB) ([]mq.Event, error) {
	if err := sub.collect(tx, dbTx); err != nil {
		sub.logger.Error("failed to collect data", slog.String("signature", tx.Signature), slog.Any("error", err))
		return nil, err
	}

	return nil, nil
}
