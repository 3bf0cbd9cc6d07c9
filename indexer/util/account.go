package util

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solcore-labs/corecollection/cache"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/util"
)

type accountKey struct {
	address solana.PublicKey
	slot    int64
}

// AccountCache serves account reads through an LRU keyed by address and the
// slot of the transaction being indexed, so instructions of one slot share a
// single getAccountInfo call per account.
type AccountCache struct {
	client  indexertypes.RPCClient
	limiter *util.Limiter
	cache   *cache.Cache[accountKey, *rpc.GetAccountInfoResult]
}

func NewAccountCache(client indexertypes.RPCClient, limiter *util.Limiter, size int) *AccountCache {
	return &AccountCache{
		client:  client,
		limiter: limiter,
		cache:   cache.New[accountKey, *rpc.GetAccountInfoResult](size),
	}
}

// At returns a reader bound to slot.
func (c *AccountCache) At(slot int64) mplcore.AccountReader {
	return slotReader{cache: c, slot: slot}
}

func (c *AccountCache) Len() int {
	return c.cache.Len()
}

type slotReader struct {
	cache *AccountCache
	slot  int64
}

func (r slotReader) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	c := r.cache
	return c.cache.GetOrLoad(accountKey{address: account, slot: r.slot}, func() (*rpc.GetAccountInfoResult, error) {
		var res *rpc.GetAccountInfoResult
		err := util.CallRPC(ctx, c.limiter, "getAccountInfo", func(ctx context.Context) (err error) {
			res, err = c.client.GetAccountInfo(ctx, account)
			return err
		})
		return res, err
	})
}
