package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solcore-labs/corecollection/client"
	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/simulator"
)

func newSimulatedClient(t *testing.T, opts ...simulator.Option) (*client.Client, *simulator.Ledger) {
	t.Helper()
	ledger := simulator.New(opts...)
	payer := solana.NewWallet().PrivateKey
	ledger.Airdrop(payer.PublicKey(), 10_000_000_000)
	return client.New(ledger, payer, client.WithPollInterval(time.Millisecond)), ledger
}

// The collection key is shared by the steps, which run in order against one ledger.
func TestCreateCoreCollection(t *testing.T) {
	ctx := context.Background()
	c, _ := newSimulatedClient(t)
	collection := solana.NewWallet().PrivateKey

	t.Run("can create collection", func(t *testing.T) {
		_, err := c.CreateCollection(ctx, client.CreateCollectionParams{
			Collection: collection,
			Name:       "My Collection",
			URI:        "https://example.com",
		})
		require.NoError(t, err)

		got, err := c.FetchCollection(ctx, collection.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, "My Collection", got.Name)
	})

	t.Run("can create an asset", func(t *testing.T) {
		asset := solana.NewWallet().PrivateKey
		_, err := c.CreateAsset(ctx, client.CreateAssetParams{
			Asset:      asset,
			Collection: collection.PublicKey(),
			Name:       "My asset",
			URI:        "https://asset.example.com",
		})
		require.NoError(t, err)

		got, err := c.FetchAsset(ctx, asset.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, c.Payer(), got.Owner)
	})

	t.Run("cannot transfer", func(t *testing.T) {
		asset := solana.NewWallet().PrivateKey
		collectionPK := collection.PublicKey()
		_, err := c.CreateAsset(ctx, client.CreateAssetParams{
			Asset:      asset,
			Collection: collectionPK,
			Name:       "My asset 2",
			URI:        "https://asset2.example.com",
		})
		require.NoError(t, err)

		_, err = c.TransferAsset(ctx, client.TransferAssetParams{
			Asset:      asset.PublicKey(),
			Collection: &collectionPK,
			NewOwner:   solana.NewWallet().PublicKey(),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, mplcore.ErrNoApprovals)

		got, err := c.FetchAsset(ctx, asset.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, c.Payer(), got.Owner)
	})

	t.Run("cannot create a second collection", func(t *testing.T) {
		_, err := c.CreateCollection(ctx, client.CreateCollectionParams{
			Collection: solana.NewWallet().PrivateKey,
			Name:       "Another",
			URI:        "https://another.example.com",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, client.ErrAccountAlreadyInUse)
	})

	t.Run("collection info points at the collection", func(t *testing.T) {
		info, err := c.FetchCollectionInfo(ctx)
		require.NoError(t, err)
		assert.True(t, info.IsCreated)
		assert.Equal(t, collection.PublicKey(), info.CollectionAddress)

		col, err := c.FetchCollection(ctx, collection.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, uint32(2), col.NumMinted)
	})
}

func TestCreateAsset_BeforeCollection(t *testing.T) {
	ctx := context.Background()
	c, ledger := newSimulatedClient(t)

	collection := solana.NewWallet().PublicKey()
	data, err := mplcore.BaseCollectionV1{UpdateAuthority: c.Payer(), Name: "c", URI: "u"}.Marshal()
	require.NoError(t, err)
	ledger.SetAccount(collection, simulator.Account{Owner: mplcore.ProgramID, Lamports: 1_000_000, Data: data})

	_, err = c.CreateAsset(ctx, client.CreateAssetParams{
		Asset:      solana.NewWallet().PrivateKey,
		Collection: collection,
		Name:       "a",
		URI:        "u",
	})
	assert.ErrorIs(t, err, program.ErrAccountNotInitialized)
}

func TestTransfer_OracleApproves(t *testing.T) {
	ctx := context.Background()
	c, _ := newSimulatedClient(t, simulator.WithOracleVerdict(true))
	collection := solana.NewWallet().PrivateKey
	_, err := c.CreateCollection(ctx, client.CreateCollectionParams{Collection: collection, Name: "c", URI: "u"})
	require.NoError(t, err)

	asset := solana.NewWallet().PrivateKey
	_, err = c.CreateAsset(ctx, client.CreateAssetParams{Asset: asset, Collection: collection.PublicKey(), Name: "a", URI: "u"})
	require.NoError(t, err)

	newOwner := solana.NewWallet().PublicKey()
	collectionPK := collection.PublicKey()
	_, err = c.TransferAsset(ctx, client.TransferAssetParams{Asset: asset.PublicKey(), Collection: &collectionPK, NewOwner: newOwner})
	require.NoError(t, err)

	got, err := c.FetchAsset(ctx, asset.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, newOwner, got.Owner)
}
