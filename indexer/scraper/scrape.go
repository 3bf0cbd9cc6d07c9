package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/sync/errgroup"

	indexertypes "github.com/solcore-labs/corecollection/indexer/types"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
	"github.com/solcore-labs/corecollection/util"
)

// listSignatures pages getSignaturesForAddress backwards from the newest
// signature down to until and returns the result oldest first.
func (s *Scraper) listSignatures(ctx context.Context, until solana.Signature) ([]*rpc.TransactionSignature, error) {
	var (
		all    []*rpc.TransactionSignature
		before solana.Signature
		limit  = s.pageSize
	)

	for {
		opts := &rpc.GetSignaturesForAddressOpts{
			Limit:      &limit,
			Before:     before,
			Until:      until,
			Commitment: s.queryCommitment(),
		}

		var page []*rpc.TransactionSignature
		err := util.CallRPC(ctx, s.limiter, "getSignaturesForAddress", func(ctx context.Context) (err error) {
			page, err = s.client.GetSignaturesForAddressWithOpts(ctx, s.programID, opts)
			return err
		})
		if err != nil {
			return nil, types.NewNetworkError("getSignaturesForAddress", err)
		}

		all = append(all, page...)
		if len(page) < limit {
			break
		}
		before = page[len(page)-1].Signature
	}

	slices.Reverse(all)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Slot < all[j].Slot
	})
	return all, nil
}

// fetchTransactions loads every signature concurrently. Entries for failed
// transactions are left nil.
func (s *Scraper) fetchTransactions(ctx context.Context, sigs []*rpc.TransactionSignature) ([]*indexertypes.ScrapedTx, error) {
	indexerMetrics := metrics.GetMetrics().Indexer
	txs := make([]*indexertypes.ScrapedTx, len(sigs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.GetMaxConcurrentRequests())
	for i, sig := range sigs {
		if sig.Err != nil {
			indexerMetrics.TransactionsProcessedTotal.WithLabelValues("failed").Inc()
			s.logger.Debug("skipping failed transaction", slog.String("signature", sig.Signature.String()))
			continue
		}

		g.Go(func() error {
			tx, err := s.scrapeTx(gctx, sig.Signature)
			if err != nil {
				return fmt.Errorf("failed to scrape %s: %w", sig.Signature, err)
			}
			txs[i] = tx
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return txs, nil
}

// scrapeTx loads one transaction and decodes the top level instructions sent
// to the program. A transaction that failed on chain yields nil.
func (s *Scraper) scrapeTx(ctx context.Context, sig solana.Signature) (*indexertypes.ScrapedTx, error) {
	maxVersion := uint64(0)
	opts := &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     s.queryCommitment(),
		MaxSupportedTransactionVersion: &maxVersion,
	}

	var res *rpc.GetTransactionResult
	err := util.CallRPC(ctx, s.limiter, "getTransaction", func(ctx context.Context) (err error) {
		res, err = s.client.GetTransaction(ctx, sig, opts)
		return err
	})
	if err != nil {
		return nil, types.NewNetworkError("getTransaction", err)
	}
	if res == nil || res.Transaction == nil {
		return nil, types.NewNetworkError("getTransaction", rpc.ErrNotFound)
	}
	if res.Meta != nil && res.Meta.Err != nil {
		metrics.GetMetrics().Indexer.TransactionsProcessedTotal.WithLabelValues("failed").Inc()
		return nil, nil
	}

	tx, err := res.Transaction.GetTransaction()
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	keys := make([]solana.PublicKey, 0, len(tx.Message.AccountKeys))
	keys = append(keys, tx.Message.AccountKeys...)
	if res.Meta != nil {
		keys = append(keys, res.Meta.LoadedAddresses.Writable...)
		keys = append(keys, res.Meta.LoadedAddresses.ReadOnly...)
	}
	if len(keys) == 0 {
		return nil, errors.New("transaction has no account keys")
	}

	scraped := &indexertypes.ScrapedTx{
		Signature:    sig.String(),
		Slot:         int64(res.Slot),
		Payer:        keys[0],
		Instructions: s.decodeInstructions(sig, tx, keys),
	}
	if res.BlockTime != nil {
		scraped.BlockTime = res.BlockTime.Time().UTC()
	}
	return scraped, nil
}

func (s *Scraper) decodeInstructions(sig solana.Signature, tx *solana.Transaction, keys []solana.PublicKey) []program.Instruction {
	var out []program.Instruction
	for idx, ix := range tx.Message.Instructions {
		if int(ix.ProgramIDIndex) >= len(keys) || !keys[ix.ProgramIDIndex].Equals(s.programID) {
			continue
		}

		accounts := make([]solana.PublicKey, 0, len(ix.Accounts))
		for _, a := range ix.Accounts {
			if int(a) >= len(keys) {
				break
			}
			accounts = append(accounts, keys[a])
		}

		decoded, err := program.DecodeInstruction(s.programID, accounts, ix.Data)
		if err != nil {
			s.logger.Debug("skipping undecodable instruction",
				slog.String("signature", sig.String()),
				slog.Int("index", idx),
				slog.Any("error", err))
			continue
		}
		out = append(out, decoded)
	}
	return out
}

// queryCommitment returns the configured commitment, raised to confirmed since
// history queries do not accept processed.
func (s *Scraper) queryCommitment() rpc.CommitmentType {
	commitment := s.cfg.GetClusterConfig().GetCommitment()
	if commitment == rpc.CommitmentProcessed || commitment == "" {
		return rpc.CommitmentConfirmed
	}
	return commitment
}
