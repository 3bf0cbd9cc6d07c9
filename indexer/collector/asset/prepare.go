package asset

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/codec"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

func (sub *AssetSubmodule) prepare(ctx context.Context, tx indexertypes.ScrapedTx) error {
	var data CacheData
	for _, ix := range tx.Instructions {
		switch ix := ix.(type) {
		case *program.CreateAsset:
			row, err := sub.assetRow(ctx, tx, ix)
			if err != nil {
				return err
			}
			data.Assets = append(data.Assets, row)

			counter, ok, err := sub.collectionCounter(ctx, tx, ix.Accounts.Collection)
			if err != nil {
				return err
			}
			if ok {
				data.Counters = append(data.Counters, counter)
			}
		case *program.Transfer:
			data.Transfers = append(data.Transfers, Transfer{
				Asset:      ix.Accounts.Asset.String(),
				Collection: codec.AddressOrEmpty(ix.Accounts.Collection),
				NewOwner:   ix.Accounts.NewOwner.String(),
			})
		}
	}
	if len(data.Assets) == 0 && len(data.Transfers) == 0 {
		return nil
	}

	sub.mtx.Lock()
	sub.cache[tx.Signature] = data
	sub.mtx.Unlock()

	return nil
}

// assetRow starts from the instruction accounts and arguments and overwrites
// them with the on-chain account when it still exists.
func (sub *AssetSubmodule) assetRow(ctx context.Context, tx indexertypes.ScrapedTx, ix *program.CreateAsset) (types.CollectedAsset, error) {
	acc := ix.Accounts
	owner := acc.Payer
	if acc.Owner != nil {
		owner = *acc.Owner
	}
	authority := acc.Payer
	if acc.Authority != nil {
		authority = *acc.Authority
	}

	row := types.CollectedAsset{
		Addr:            acc.Asset.String(),
		CollectionAddr:  acc.Collection.String(),
		Slot:            tx.Slot,
		Name:            ix.Args.Name,
		Uri:             ix.Args.URI,
		Owner:           owner.String(),
		Authority:       authority.String(),
		UpdateAuthority: acc.Collection.String(),
		Signature:       tx.Signature,
	}

	onchain, err := mplcore.FetchAsset(ctx, sub.accounts.At(tx.Slot), acc.Asset)
	switch {
	case err == nil:
		row.Name = onchain.Name
		row.Uri = onchain.URI
		row.Owner = onchain.Owner.String()
		row.UpdateAuthority = ""
		if onchain.UpdateAuthority.Type != mplcore.UpdateAuthorityNone {
			row.UpdateAuthority = onchain.UpdateAuthority.Address.String()
		}
		if collection, ok := onchain.Collection(); ok {
			row.CollectionAddr = collection.String()
		}
	case errors.Is(err, mplcore.ErrAccountNotFound):
		sub.logger.Warn("asset account is gone, indexing instruction data",
			slog.String("asset", row.Addr), slog.String("signature", tx.Signature))
	default:
		return row, err
	}

	return row, nil
}

func (sub *AssetSubmodule) collectionCounter(ctx context.Context, tx indexertypes.ScrapedTx, collection solana.PublicKey) (CollectionCounter, bool, error) {
	onchain, err := mplcore.FetchCollection(ctx, sub.accounts.At(tx.Slot), collection)
	if errors.Is(err, mplcore.ErrAccountNotFound) {
		return CollectionCounter{}, false, nil
	}
	if err != nil {
		return CollectionCounter{}, false, err
	}
	return CollectionCounter{
		Addr:        collection.String(),
		NumMinted:   int64(onchain.NumMinted),
		CurrentSize: int64(onchain.CurrentSize),
	}, true, nil
}
