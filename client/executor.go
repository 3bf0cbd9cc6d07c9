package client

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

// execute builds a single-instruction transaction paid by the client payer, signs it with the
// payer and the extra signers, sends it and waits for the configured commitment.
func (c *Client) execute(ctx context.Context, ix program.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	if c.programID.IsZero() {
		return solana.Signature{}, ErrNoProgramID
	}

	built, err := ix.Build(c.programID)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build %s instruction: %w", ix.Name(), err)
	}

	bh, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Signature{}, types.NewNetworkError("getLatestBlockhash", fmt.Errorf("failed to get latest blockhash: %w", err))
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{built},
		bh.Value.Blockhash,
		solana.TransactionPayer(c.payer.PublicKey()),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	keys := make(map[solana.PublicKey]solana.PrivateKey, len(signers)+1)
	keys[c.payer.PublicKey()] = c.payer
	for _, s := range signers {
		keys[s.PublicKey()] = s
	}
	if _, err := tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if k, ok := keys[pk]; ok {
			return &k
		}
		return nil
	}); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       c.skipPreflight,
		PreflightCommitment: c.commitment,
	})
	if err != nil {
		if perr := programErrorFromRPC(err); perr != nil {
			c.logger.Warn("transaction rejected", slog.String("instruction", ix.Name()), slog.Any("error", perr))
			metrics.TrackInstructionFailure(ix.Name(), failureLabel(perr))
			return solana.Signature{}, perr
		}
		return solana.Signature{}, types.NewNetworkError("sendTransaction", fmt.Errorf("failed to send transaction: %w", err))
	}

	if err := c.waitForConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	c.logger.Info("transaction confirmed", slog.String("instruction", ix.Name()), slog.String("signature", sig.String()))
	return sig, nil
}

func (c *Client) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		res, err := c.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			c.logger.Debug("failed to get signature status", slog.String("signature", sig.String()), slog.Any("error", err))
		} else if res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return types.NewTransactionError(sig.String(), transactionErrorFromStatus(status.Err))
			}
			if reached(status.ConfirmationStatus, c.commitment) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return types.NewTimeoutError(fmt.Sprintf("confirmation of %s", sig))
		case <-ticker.C:
		}
	}
}

func reached(status rpc.ConfirmationStatusType, commitment rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(rpc.ConfirmationStatusProcessed):
			return 1
		case string(rpc.ConfirmationStatusConfirmed):
			return 2
		case string(rpc.ConfirmationStatusFinalized):
			return 3
		default:
			return 0
		}
	}
	want := rank(string(commitment))
	if want == 0 {
		want = rank(string(rpc.ConfirmationStatusConfirmed))
	}
	return rank(string(status)) >= want
}
