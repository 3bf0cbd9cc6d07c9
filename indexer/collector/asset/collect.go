package asset

import (
	"log/slog"

	"gorm.io/gorm"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mq"
	"github.com/solcore-labs/corecollection/orm"
	"github.com/solcore-labs/corecollection/types"
)

func (sub *AssetSubmodule) collect(tx indexertypes.ScrapedTx, dbTx *gorm.DB) ([]mq.Event, error) {
	sub.mtx.Lock()
	data, ok := sub.cache[tx.Signature]
	delete(sub.cache, tx.Signature)
	sub.mtx.Unlock()

	if !ok {
		return nil, nil
	}

	indexerMetrics := metrics.GetMetrics().Indexer
	var events []mq.Event

	if len(data.Assets) > 0 {
		if err := dbTx.Clauses(orm.UpdateAllWhenConflict).Create(&data.Assets).Error; err != nil {
			return nil, err
		}
		indexerMetrics.AssetsIndexedTotal.Add(float64(len(data.Assets)))
		metrics.ObserveUpsert(types.CollectedAsset{}.TableName(), len(data.Assets))

		for _, row := range data.Assets {
			ev := mq.NewEvent(mq.AssetCreated, tx.Slot, tx.Signature, row.CollectionAddr)
			ev.Asset = row.Addr
			ev.Owner = row.Owner
			ev.Name = row.Name
			ev.Uri = row.Uri
			events = append(events, ev)
		}
	}

	for _, counter := range data.Counters {
		res := dbTx.Model(&types.CollectedCollection{}).
			Where("addr = ?", counter.Addr).
			Updates(map[string]any{
				"num_minted":   counter.NumMinted,
				"current_size": counter.CurrentSize,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			metrics.TrackUnmatchedUpdate(types.CollectedCollection{}.TableName())
		}
	}

	for _, transfer := range data.Transfers {
		res := dbTx.Model(&types.CollectedAsset{}).
			Where("addr = ?", transfer.Asset).
			Updates(map[string]any{
				"owner":     transfer.NewOwner,
				"slot":      tx.Slot,
				"signature": tx.Signature,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			metrics.TrackUnmatchedUpdate(types.CollectedAsset{}.TableName())
			sub.logger.Warn("transfer of an unindexed asset",
				slog.String("asset", transfer.Asset), slog.String("signature", tx.Signature))
			continue
		}
		indexerMetrics.TransfersIndexedTotal.Inc()

		ev := mq.NewEvent(mq.AssetTransferred, tx.Slot, tx.Signature, transfer.Collection)
		ev.Asset = transfer.Asset
		ev.Owner = transfer.NewOwner
		events = append(events, ev)
	}

	return events, nil
}
