package mplcore

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type AccountReader interface {
	GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

func readCoreAccount(ctx context.Context, r AccountReader, address solana.PublicKey) ([]byte, error) {
	res, err := r.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
		}
		return nil, fmt.Errorf("failed to get account info for %s: %w", address, err)
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, address)
	}
	if !res.Value.Owner.Equals(ProgramID) {
		return nil, fmt.Errorf("%w: %s is owned by %s", ErrInvalidOwner, address, res.Value.Owner)
	}
	return res.Value.Data.GetBinary(), nil
}

// FetchCollection loads and decodes a collection account.
func FetchCollection(ctx context.Context, r AccountReader, address solana.PublicKey) (*BaseCollectionV1, error) {
	data, err := readCoreAccount(ctx, r, address)
	if err != nil {
		return nil, err
	}
	return DecodeCollection(data)
}

// FetchAsset loads and decodes an asset account.
func FetchAsset(ctx context.Context, r AccountReader, address solana.PublicKey) (*BaseAssetV1, error) {
	data, err := readCoreAccount(ctx, r, address)
	if err != nil {
		return nil, err
	}
	return DecodeAsset(data)
}
