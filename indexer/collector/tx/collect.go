package tx

import (
	"github.com/lib/pq"
	"gorm.io/gorm"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/types"
)

func (sub *TxSubmodule) collect(tx indexertypes.ScrapedTx, dbTx *gorm.DB) error {
	names := make([]string, 0, len(tx.Instructions))
	for _, ix := range tx.Instructions {
		names = append(names, ix.Name())
	}

	row := types.CollectedProgramTx{
		Signature:    tx.Signature,
		Slot:         tx.Slot,
		BlockTime:    tx.BlockTime,
		Payer:        tx.Payer.String(),
		Instructions: pq.StringArray(names),
	}
	return dbTx.Clauses(orm.DoNothingWhenConflict).Create(&row).Error
}
