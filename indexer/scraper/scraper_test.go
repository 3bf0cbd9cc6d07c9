package scraper

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solcore-labs/corecollection/client"
	"github.com/solcore-labs/corecollection/config"
	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/simulator"
	"github.com/solcore-labs/corecollection/util"
)

type fixture struct {
	ledger     *simulator.Ledger
	payer      solana.PrivateKey
	collection solana.PrivateKey
	asset      solana.PrivateKey
	sigs       []solana.Signature
	failedSig  solana.Signature
}

// newFixture lands create_collection and create_asset followed by a transfer
// that the collection's oracle rejects on chain.
func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{
		ledger:     simulator.New(),
		payer:      solana.NewWallet().PrivateKey,
		collection: solana.NewWallet().PrivateKey,
		asset:      solana.NewWallet().PrivateKey,
	}
	f.ledger.Airdrop(f.payer.PublicKey(), 10_000_000_000)
	c := client.New(f.ledger, f.payer, client.WithPollInterval(time.Millisecond))

	sig, err := c.CreateCollection(ctx, client.CreateCollectionParams{
		Collection: f.collection,
		Name:       "My Collection",
		URI:        "https://example.com",
	})
	require.NoError(t, err)
	f.sigs = append(f.sigs, sig)

	sig, err = c.CreateAsset(ctx, client.CreateAssetParams{
		Asset:      f.asset,
		Collection: f.collection.PublicKey(),
		Name:       "My asset",
		URI:        "https://asset.example.com",
	})
	require.NoError(t, err)
	f.sigs = append(f.sigs, sig)

	unchecked := client.New(f.ledger, f.payer, client.WithPollInterval(time.Millisecond), client.WithSkipPreflight(true))
	collectionPK := f.collection.PublicKey()
	f.failedSig, err = unchecked.TransferAsset(ctx, client.TransferAssetParams{
		Asset:      f.asset.PublicKey(),
		Collection: &collectionPK,
		NewOwner:   solana.NewWallet().PublicKey(),
	})
	require.Error(t, err)
	require.NotEqual(t, solana.Signature{}, f.failedSig)

	return f
}

func newTestScraper(ledger *simulator.Ledger) *Scraper {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(config.NewDefaultConfig(), logger, ledger, util.NewLimiter(4))
}

func drain(ch chan indexertypes.ScrapedTx) []indexertypes.ScrapedTx {
	var out []indexertypes.ScrapedTx
	for {
		select {
		case tx := <-ch:
			out = append(out, tx)
		default:
			return out
		}
	}
}

func TestScraper_Scrape(t *testing.T) {
	f := newFixture(t)
	s := newTestScraper(f.ledger)
	ch := make(chan indexertypes.ScrapedTx, 10)

	newest, err := s.Scrape(context.Background(), solana.Signature{}, ch)
	require.NoError(t, err)
	assert.Equal(t, f.failedSig, newest)

	txs := drain(ch)
	require.Len(t, txs, 2)

	assert.Equal(t, int64(0), txs[0].Seq)
	assert.Equal(t, int64(1), txs[1].Seq)
	assert.Equal(t, f.sigs[0].String(), txs[0].Signature)
	assert.Equal(t, f.sigs[1].String(), txs[1].Signature)
	assert.Less(t, txs[0].Slot, txs[1].Slot)
	assert.Equal(t, f.payer.PublicKey(), txs[0].Payer)
	assert.False(t, txs[0].BlockTime.IsZero())

	require.Len(t, txs[0].Instructions, 1)
	create, ok := txs[0].Instructions[0].(*program.CreateCollection)
	require.True(t, ok)
	assert.Equal(t, "My Collection", create.Args.Name)
	assert.Equal(t, f.collection.PublicKey(), create.Accounts.Collection)

	require.Len(t, txs[1].Instructions, 1)
	asset, ok := txs[1].Instructions[0].(*program.CreateAsset)
	require.True(t, ok)
	assert.Equal(t, f.asset.PublicKey(), asset.Accounts.Asset)
	assert.Nil(t, asset.Accounts.Owner)

	// nothing newer than the failed transfer
	again, err := s.Scrape(context.Background(), newest, ch)
	require.NoError(t, err)
	assert.Equal(t, newest, again)
	assert.Empty(t, drain(ch))
}

func TestScraper_ScrapePaged(t *testing.T) {
	f := newFixture(t)
	s := newTestScraper(f.ledger)
	s.pageSize = 1
	ch := make(chan indexertypes.ScrapedTx, 10)

	newest, err := s.Scrape(context.Background(), solana.Signature{}, ch)
	require.NoError(t, err)
	assert.Equal(t, f.failedSig, newest)

	txs := drain(ch)
	require.Len(t, txs, 2)
	assert.Equal(t, f.sigs[0].String(), txs[0].Signature)
	assert.Equal(t, f.sigs[1].String(), txs[1].Signature)
}

func TestScraper_ScrapeAfterCursor(t *testing.T) {
	f := newFixture(t)
	s := newTestScraper(f.ledger)
	ch := make(chan indexertypes.ScrapedTx, 10)

	_, err := s.Scrape(context.Background(), f.sigs[0], ch)
	require.NoError(t, err)

	txs := drain(ch)
	require.Len(t, txs, 1)
	assert.Equal(t, f.sigs[1].String(), txs[0].Signature)
}

func TestScraper_Run(t *testing.T) {
	f := newFixture(t)
	s := newTestScraper(f.ledger)
	s.cfg.SetPollingInterval(10 * time.Millisecond)
	ch := make(chan indexertypes.ScrapedTx, 10)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Run(ctx, f.sigs[0].String(), ch)
	}()

	select {
	case tx := <-ch:
		assert.Equal(t, f.sigs[1].String(), tx.Signature)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for scraped transaction")
	}
	cancel()
	<-done
}

func TestParseCursor(t *testing.T) {
	sig, err := parseCursor("")
	require.NoError(t, err)
	assert.Equal(t, solana.Signature{}, sig)

	_, err = parseCursor("not-a-signature")
	assert.Error(t, err)
}
