package collection

import (
	"gorm.io/gorm"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/orm"
)

func (sub *CollectionSubmodule) collect(tx indexertypes.ScrapedTx, dbTx *gorm.DB) ([]mq.Event, error) {
	sub.mtx.Lock()
	rows := sub.cache[tx.Signature]
	delete(sub.cache, tx.Signature)
	sub.mtx.Unlock()

	if len(rows) == 0 {
		return nil, nil
	}

	if err := dbTx.Clauses(orm.UpdateAllWhenConflict).Create(&rows).Error; err != nil {
		return nil, err
	}
	metrics.GetMetrics().Indexer.CollectionsIndexedTotal.Add(float64(len(rows)))
	metrics.ObserveUpsert(rows[0].TableName(), len(rows))

	events := make([]mq.Event, 0, len(rows))
	for _, row := range rows {
		ev := mq.NewEvent(mq.CollectionCreated, tx.Slot, tx.Signature, row.Addr)
		ev.Name = row.Name
		ev.Uri = row.Uri
		ev.Owner = row.UpdateAuthority
		events = append(events, ev)
	}
	return events, nil
}
