package simulator

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/goccy/go-json"
)

func (l *Ledger) GetLatestBlockhash(_ context.Context, _ rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()
	return &rpc.GetLatestBlockhashResult{
		RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: l.slot}},
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            l.blockhash,
			LastValidBlockHeight: l.slot + blockhashValidSlots,
		},
	}, nil
}

func (l *Ledger) GetSlot(_ context.Context, _ rpc.CommitmentType) (uint64, error) {
	return l.Slot(), nil
}

func (l *Ledger) GetVersion(_ context.Context) (*rpc.GetVersionResult, error) {
	return &rpc.GetVersionResult{SolanaCore: l.version}, nil
}

func (l *Ledger) GetAccountInfo(_ context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	acct, ok := l.accounts[account]
	if !ok {
		return nil, rpc.ErrNotFound
	}
	return &rpc.GetAccountInfoResult{
		RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: l.slot}},
		Value: &rpc.Account{
			Lamports:   acct.Lamports,
			Owner:      acct.Owner,
			Data:       rpc.DataBytesOrJSONFromBytes(append([]byte(nil), acct.Data...)),
			Executable: acct.Executable,
		},
	}, nil
}

// SendTransactionWithOpts verifies and executes a transaction. Unless preflight is skipped a
// failing transaction is rejected without touching state, like a preflight simulation error.
func (l *Ledger) SendTransactionWithOpts(_ context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if err := l.verify(tx); err != nil {
		return solana.Signature{}, err
	}
	sig := tx.Signatures[0]
	if _, ok := l.txs[sig]; ok {
		return solana.Signature{}, rpcError(-32002, "Transaction simulation failed: This transaction has already been processed")
	}

	payer := tx.Message.AccountKeys[0]
	fee := uint64(lamportsPerSignature) * uint64(tx.Message.Header.NumRequiredSignatures)
	payerAcct, ok := l.accounts[payer]
	if !ok || payerAcct.Lamports < fee {
		return solana.Signature{}, rpcError(-32002, "Transaction simulation failed: Attempt to debit an account but found no record of a prior credit.")
	}

	// the fee is taken before execution so rent is paid from what is left
	st := newState(l.accounts, l.oracles)
	feePayer, _ := st.get(payer)
	feePayer.Lamports -= fee
	idx, execErr, logs := l.execute(tx, st)
	if execErr != nil && !opts.SkipPreflight {
		return solana.Signature{}, simulationFailed(execErr.transactionError(idx), logs)
	}

	rec := &txRecord{
		signature: sig,
		slot:      l.slot,
		blockTime: l.now(),
		tx:        tx,
		fee:       fee,
		logs:      logs,
	}
	if execErr != nil {
		rec.err = execErr.transactionError(idx)
		l.accounts[payer].Lamports -= fee
	} else {
		st.commit()
	}

	l.txs[sig] = rec
	l.history = append(l.history, rec)
	l.advance()
	return sig, nil
}

func (l *Ledger) verify(tx *solana.Transaction) error {
	msg := tx.Message
	if len(msg.AccountKeys) == 0 || msg.Header.NumRequiredSignatures == 0 {
		return rpcError(-32602, "invalid transaction: no fee payer")
	}
	if _, ok := l.blockhashs[msg.RecentBlockhash]; !ok {
		return rpcError(-32002, "Transaction simulation failed: Blockhash not found")
	}
	if len(tx.Signatures) != int(msg.Header.NumRequiredSignatures) {
		return rpcError(-32602, "invalid transaction: signature count mismatch")
	}
	content, err := msg.MarshalBinary()
	if err != nil {
		return rpcError(-32602, fmt.Sprintf("invalid transaction: %v", err))
	}
	for i, sig := range tx.Signatures {
		if !sig.Verify(msg.AccountKeys[i], content) {
			return rpcError(-32003, "Transaction signature verification failure")
		}
	}
	return nil
}

func (l *Ledger) GetSignatureStatuses(_ context.Context, _ bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	out := &rpc.GetSignatureStatusesResult{
		RPCContext: rpc.RPCContext{Context: rpc.Context{Slot: l.slot}},
		Value:      make([]*rpc.SignatureStatusesResult, len(transactionSignatures)),
	}
	for i, sig := range transactionSignatures {
		rec, ok := l.txs[sig]
		if !ok {
			continue
		}
		out.Value[i] = &rpc.SignatureStatusesResult{
			Slot:               rec.slot,
			Err:                rec.err,
			ConfirmationStatus: rpc.ConfirmationStatusFinalized,
		}
	}
	return out, nil
}

// GetSignaturesForAddressWithOpts lists transactions that reference account, newest first.
func (l *Ledger) GetSignaturesForAddressWithOpts(_ context.Context, account solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error) {
	l.mtx.RLock()
	defer l.mtx.RUnlock()

	limit := 1000
	var before, until solana.Signature
	if opts != nil {
		if opts.Limit != nil && *opts.Limit > 0 && *opts.Limit < limit {
			limit = *opts.Limit
		}
		before, until = opts.Before, opts.Until
	}

	out := make([]*rpc.TransactionSignature, 0)
	started := before == (solana.Signature{})
	for i := len(l.history) - 1; i >= 0 && len(out) < limit; i-- {
		rec := l.history[i]
		if !started {
			started = rec.signature == before
			continue
		}
		if until != (solana.Signature{}) && rec.signature == until {
			break
		}
		if !references(rec.tx, account) {
			continue
		}
		blockTime := solana.UnixTimeSeconds(rec.blockTime.Unix())
		out = append(out, &rpc.TransactionSignature{
			Signature:          rec.signature,
			Slot:               rec.slot,
			Err:                rec.err,
			BlockTime:          &blockTime,
			ConfirmationStatus: rpc.ConfirmationStatusFinalized,
		})
	}
	return out, nil
}

func references(tx *solana.Transaction, account solana.PublicKey) bool {
	for _, k := range tx.Message.AccountKeys {
		if k.Equals(account) {
			return true
		}
	}
	return false
}

func (l *Ledger) GetTransaction(_ context.Context, txSig solana.Signature, _ *rpc.GetTransactionOpts) (*rpc.GetTransactionResult, error) {
	l.mtx.RLock()
	rec, ok := l.txs[txSig]
	l.mtx.RUnlock()
	if !ok {
		return nil, rpc.ErrNotFound
	}

	raw, err := rec.tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	payload, err := json.Marshal([]string{base64.StdEncoding.EncodeToString(raw), "base64"})
	if err != nil {
		return nil, err
	}
	envelope := new(rpc.TransactionResultEnvelope)
	if err := envelope.UnmarshalJSON(payload); err != nil {
		return nil, fmt.Errorf("failed to wrap transaction: %w", err)
	}

	blockTime := solana.UnixTimeSeconds(rec.blockTime.Unix())
	return &rpc.GetTransactionResult{
		Slot:        rec.slot,
		BlockTime:   &blockTime,
		Transaction: envelope,
		Meta: &rpc.TransactionMeta{
			Err:         rec.err,
			Fee:         rec.fee,
			LogMessages: rec.logs,
		},
	}, nil
}
