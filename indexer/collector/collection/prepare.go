package collection

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lib/pq"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

func (sub *CollectionSubmodule) prepare(ctx context.Context, tx indexertypes.ScrapedTx) error {
	var rows []types.CollectedCollection
	for _, ix := range tx.Instructions {
		create, ok := ix.(*program.CreateCollection)
		if !ok {
			continue
		}
		row, err := sub.collectionRow(ctx, tx, create)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	sub.mtx.Lock()
	sub.cache[tx.Signature] = rows
	sub.mtx.Unlock()

	return nil
}

// collectionRow starts from the instruction arguments and overwrites them with
// the on-chain account when it still exists.
func (sub *CollectionSubmodule) collectionRow(ctx context.Context, tx indexertypes.ScrapedTx, ix *program.CreateCollection) (types.CollectedCollection, error) {
	acc := ix.Accounts
	updateAuthority := acc.Payer
	if acc.UpdateAuthority != nil {
		updateAuthority = *acc.UpdateAuthority
	}

	row := types.CollectedCollection{
		Addr:            acc.Collection.String(),
		Slot:            tx.Slot,
		Name:            ix.Args.Name,
		Uri:             ix.Args.URI,
		UpdateAuthority: updateAuthority.String(),
		Payer:           acc.Payer.String(),
		ExternalPlugins: pq.StringArray(mplcore.TransferRejectOracle(program.OracleBaseAddress).Labels()),
		Signature:       tx.Signature,
	}

	onchain, err := mplcore.FetchCollection(ctx, sub.accounts.At(tx.Slot), acc.Collection)
	switch {
	case err == nil:
		row.Name = onchain.Name
		row.Uri = onchain.URI
		row.UpdateAuthority = onchain.UpdateAuthority.String()
		row.NumMinted = int64(onchain.NumMinted)
		row.CurrentSize = int64(onchain.CurrentSize)
	case errors.Is(err, mplcore.ErrAccountNotFound):
		sub.logger.Warn("collection account is gone, indexing instruction data",
			slog.String("collection", row.Addr), slog.String("signature", tx.Signature))
	default:
		return row, err
	}

	return row, nil
}
