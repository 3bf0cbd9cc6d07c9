package simulator

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
)

const sol = 1_000_000_000

func send(t *testing.T, l *Ledger, payer solana.PrivateKey, ix program.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	t.Helper()
	return sendAll(t, l, payer, rpc.TransactionOpts{}, []program.Instruction{ix}, signers...)
}

func sendAll(t *testing.T, l *Ledger, payer solana.PrivateKey, opts rpc.TransactionOpts, ixs []program.Instruction, signers ...solana.PrivateKey) (solana.Signature, error) {
	t.Helper()
	built := make([]solana.Instruction, 0, len(ixs))
	for _, ix := range ixs {
		b, err := ix.Build(l.ProgramID())
		require.NoError(t, err)
		built = append(built, b)
	}

	bh, err := l.GetLatestBlockhash(context.Background(), rpc.CommitmentFinalized)
	require.NoError(t, err)

	tx, err := solana.NewTransaction(built, bh.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
	require.NoError(t, err)

	keys := map[solana.PublicKey]solana.PrivateKey{payer.PublicKey(): payer}
	for _, s := range signers {
		keys[s.PublicKey()] = s
	}
	_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
		if k, ok := keys[pk]; ok {
			return &k
		}
		return nil
	})
	require.NoError(t, err)

	return l.SendTransactionWithOpts(context.Background(), tx, opts)
}

// customCode extracts the custom error code from a preflight failure.
func customCode(t *testing.T, err error) uint32 {
	t.Helper()
	rpcErr, ok := err.(*jsonrpc.RPCError)
	require.True(t, ok, "expected rpc error, got %v", err)
	data := rpcErr.Data.(map[string]any)
	ixErr := data["err"].(map[string]any)["InstructionError"].([]any)
	custom := ixErr[1].(map[string]any)["Custom"].(json.Number)
	n, convErr := custom.Int64()
	require.NoError(t, convErr)
	return uint32(n)
}

func setup(t *testing.T, opts ...Option) (*Ledger, solana.PrivateKey) {
	t.Helper()
	l := New(opts...)
	payer := solana.NewWallet().PrivateKey
	l.Airdrop(payer.PublicKey(), 10*sol)
	return l, payer
}

func createCollection(t *testing.T, l *Ledger, payer solana.PrivateKey) solana.PrivateKey {
	t.Helper()
	collection := solana.NewWallet().PrivateKey
	_, err := send(t, l, payer, &program.CreateCollection{
		Args:     program.CreateCollectionArgs{Name: "My Collection", URI: "https://example.com"},
		Accounts: program.CreateCollectionAccounts{Collection: collection.PublicKey(), Payer: payer.PublicKey()},
	}, collection)
	require.NoError(t, err)
	return collection
}

func createAsset(t *testing.T, l *Ledger, payer solana.PrivateKey, collection solana.PublicKey) (solana.PrivateKey, error) {
	t.Helper()
	asset := solana.NewWallet().PrivateKey
	_, err := send(t, l, payer, &program.CreateAsset{
		Args:     program.CreateAssetArgs{Name: "My asset", URI: "https://asset.example.com"},
		Accounts: program.CreateAssetAccounts{Asset: asset.PublicKey(), Collection: collection, Payer: payer.PublicKey()},
	}, asset)
	return asset, err
}

func TestCreateCollection(t *testing.T) {
	l, payer := setup(t)
	ctx := context.Background()
	collection := createCollection(t, l, payer)

	col, err := mplcore.FetchCollection(ctx, l, collection.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, "My Collection", col.Name)
	assert.Equal(t, "https://example.com", col.URI)
	assert.Equal(t, payer.PublicKey(), col.UpdateAuthority)

	infoAddr, _, err := program.FindCollectionInfoAddress(l.ProgramID())
	require.NoError(t, err)
	acct, ok := l.Account(infoAddr)
	require.True(t, ok)
	assert.Equal(t, l.ProgramID(), acct.Owner)
	info, err := program.DecodeCollectionInfo(acct.Data)
	require.NoError(t, err)
	assert.True(t, info.IsCreated)
	assert.Equal(t, collection.PublicKey(), info.CollectionAddress)

	payerAcct, _ := l.Account(payer.PublicKey())
	assert.Less(t, payerAcct.Lamports, uint64(10*sol))
}

func TestCreateCollection_Twice(t *testing.T) {
	l, payer := setup(t)
	createCollection(t, l, payer)

	second := solana.NewWallet().PrivateKey
	_, err := send(t, l, payer, &program.CreateCollection{
		Args:     program.CreateCollectionArgs{Name: "Other", URI: "https://other.example.com"},
		Accounts: program.CreateCollectionAccounts{Collection: second.PublicKey(), Payer: payer.PublicKey()},
	}, second)
	require.Error(t, err)
	assert.Equal(t, uint32(0), customCode(t, err))

	logs := err.(*jsonrpc.RPCError).Data.(map[string]any)["logs"].([]any)
	assert.Contains(t, logs, "Program 11111111111111111111111111111111 failed: custom program error: 0x0")

	_, ok := l.Account(second.PublicKey())
	assert.False(t, ok, "failed preflight must not change state")
}

func TestCreateCollection_WrongCoreProgram(t *testing.T) {
	l, payer := setup(t)
	collection := solana.NewWallet().PrivateKey
	wrongCore := solana.SystemProgramID
	_, err := send(t, l, payer, &program.CreateCollection{
		Args: program.CreateCollectionArgs{Name: "c", URI: "u"},
		Accounts: program.CreateCollectionAccounts{
			Collection:     collection.PublicKey(),
			Payer:          payer.PublicKey(),
			MplCoreProgram: &wrongCore,
		},
	}, collection)
	require.Error(t, err)
	assert.Equal(t, program.ErrConstraintAddress.Code, customCode(t, err))
}

// The fee comes off the payer before any rent, so a payer one lamport short
// fails instead of wrapping its balance.
func TestCreateCollection_FeeBeforeRent(t *testing.T) {
	collection := solana.NewWallet().PrivateKey
	payer := solana.NewWallet().PrivateKey
	data, err := mplcore.BaseCollectionV1{UpdateAuthority: payer.PublicKey(), Name: "c", URI: "u"}.Marshal()
	require.NoError(t, err)
	fee := uint64(lamportsPerSignature) * 2
	funded := rentExemptMinimum(program.CollectionInfoSize) + rentExemptMinimum(len(data)) + fee - 1

	ix := &program.CreateCollection{
		Args:     program.CreateCollectionArgs{Name: "c", URI: "u"},
		Accounts: program.CreateCollectionAccounts{Collection: collection.PublicKey(), Payer: payer.PublicKey()},
	}

	t.Run("preflight", func(t *testing.T) {
		l := New()
		l.Airdrop(payer.PublicKey(), funded)

		_, err := send(t, l, payer, ix, collection)
		require.Error(t, err)
		assert.Equal(t, uint32(1), customCode(t, err))

		acct, ok := l.Account(payer.PublicKey())
		require.True(t, ok)
		assert.Equal(t, funded, acct.Lamports)
	})

	t.Run("skip preflight", func(t *testing.T) {
		l := New()
		l.Airdrop(payer.PublicKey(), funded)

		sig, err := sendAll(t, l, payer, rpc.TransactionOpts{SkipPreflight: true}, []program.Instruction{ix}, collection)
		require.NoError(t, err)

		statuses, err := l.GetSignatureStatuses(context.Background(), true, sig)
		require.NoError(t, err)
		require.NotNil(t, statuses.Value[0])
		assert.NotNil(t, statuses.Value[0].Err)

		acct, ok := l.Account(payer.PublicKey())
		require.True(t, ok)
		assert.Equal(t, funded-fee, acct.Lamports)
		_, ok = l.Account(collection.PublicKey())
		assert.False(t, ok)
	})

	t.Run("exact balance", func(t *testing.T) {
		l := New()
		l.Airdrop(payer.PublicKey(), funded+1)

		_, err := send(t, l, payer, ix, collection)
		require.NoError(t, err)

		acct, ok := l.Account(payer.PublicKey())
		require.True(t, ok)
		assert.Equal(t, uint64(0), acct.Lamports)
	})
}

// A collection created by a transaction that later fails leaves no oracle behind.
func TestCreateCollection_FailedTxDropsOracle(t *testing.T) {
	l, payer := setup(t)
	first := solana.NewWallet().PrivateKey
	second := solana.NewWallet().PrivateKey
	create := func(collection solana.PrivateKey) program.Instruction {
		return &program.CreateCollection{
			Args:     program.CreateCollectionArgs{Name: "c", URI: "u"},
			Accounts: program.CreateCollectionAccounts{Collection: collection.PublicKey(), Payer: payer.PublicKey()},
		}
	}

	// the second create finds collection_info in use and fails the transaction
	_, err := sendAll(t, l, payer, rpc.TransactionOpts{SkipPreflight: true},
		[]program.Instruction{create(first), create(second)}, first, second)
	require.NoError(t, err)

	_, ok := l.Account(first.PublicKey())
	assert.False(t, ok)
	assert.Empty(t, l.oracles)

	collection := createCollection(t, l, payer)
	_, ok = l.oracles[collection.PublicKey()]
	assert.True(t, ok)
}

func TestCreateAsset(t *testing.T) {
	l, payer := setup(t)
	ctx := context.Background()
	collection := createCollection(t, l, payer)

	asset, err := createAsset(t, l, payer, collection.PublicKey())
	require.NoError(t, err)

	got, err := mplcore.FetchAsset(ctx, l, asset.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, "My asset", got.Name)
	assert.Equal(t, payer.PublicKey(), got.Owner)
	col, ok := got.Collection()
	require.True(t, ok)
	assert.Equal(t, collection.PublicKey(), col)

	c, err := mplcore.FetchCollection(ctx, l, collection.PublicKey())
	require.NoError(t, err)
	assert.Equal(t, uint32(1), c.NumMinted)
	assert.Equal(t, uint32(1), c.CurrentSize)
}

func TestCreateAsset_Errors(t *testing.T) {
	t.Run("collection info not initialized", func(t *testing.T) {
		l, payer := setup(t)
		collection := solana.NewWallet().PublicKey()
		data, err := mplcore.BaseCollectionV1{UpdateAuthority: payer.PublicKey(), Name: "c", URI: "u"}.Marshal()
		require.NoError(t, err)
		l.SetAccount(collection, Account{Owner: mplcore.ProgramID, Lamports: sol, Data: data})

		_, err = createAsset(t, l, payer, collection)
		require.Error(t, err)
		assert.Equal(t, program.ErrAccountNotInitialized.Code, customCode(t, err))
	})

	t.Run("collection is not created", func(t *testing.T) {
		l, payer := setup(t)
		collection := solana.NewWallet().PublicKey()
		data, err := mplcore.BaseCollectionV1{UpdateAuthority: payer.PublicKey(), Name: "c", URI: "u"}.Marshal()
		require.NoError(t, err)
		l.SetAccount(collection, Account{Owner: mplcore.ProgramID, Lamports: sol, Data: data})

		infoAddr, _, err := program.FindCollectionInfoAddress(l.ProgramID())
		require.NoError(t, err)
		info, err := program.CollectionInfo{}.Marshal()
		require.NoError(t, err)
		l.SetAccount(infoAddr, Account{Owner: l.ProgramID(), Lamports: sol, Data: info})

		_, err = createAsset(t, l, payer, collection)
		require.Error(t, err)
		assert.Equal(t, program.ErrCollectionIsNotCreated.Code, customCode(t, err))
	})

	t.Run("wrong collection", func(t *testing.T) {
		l, payer := setup(t)
		createCollection(t, l, payer)

		other := solana.NewWallet().PublicKey()
		data, err := mplcore.BaseCollectionV1{UpdateAuthority: payer.PublicKey(), Name: "x", URI: "u"}.Marshal()
		require.NoError(t, err)
		l.SetAccount(other, Account{Owner: mplcore.ProgramID, Lamports: sol, Data: data})

		_, err = createAsset(t, l, payer, other)
		require.Error(t, err)
		assert.Equal(t, program.ErrWrongCollection.Code, customCode(t, err))
	})

	t.Run("collection owned by another program", func(t *testing.T) {
		l, payer := setup(t)
		createCollection(t, l, payer)

		_, err := createAsset(t, l, payer, payer.PublicKey())
		require.Error(t, err)
		assert.Equal(t, program.ErrAccountNotInitialized.Code, customCode(t, err))

		foreign := solana.NewWallet().PublicKey()
		l.SetAccount(foreign, Account{Owner: l.ProgramID(), Lamports: sol, Data: []byte{1}})
		_, err = createAsset(t, l, payer, foreign)
		require.Error(t, err)
		assert.Equal(t, program.ErrAccountOwnedByWrongProgram.Code, customCode(t, err))
	})

	t.Run("authority is not the update authority", func(t *testing.T) {
		l, payer := setup(t)
		collection := createCollection(t, l, payer)

		other := solana.NewWallet().PrivateKey
		asset := solana.NewWallet().PrivateKey
		otherPK := other.PublicKey()
		_, err := send(t, l, payer, &program.CreateAsset{
			Args: program.CreateAssetArgs{Name: "a", URI: "u"},
			Accounts: program.CreateAssetAccounts{
				Asset:      asset.PublicKey(),
				Authority:  &otherPK,
				Collection: collection.PublicKey(),
				Payer:      payer.PublicKey(),
			},
		}, asset, other)
		require.Error(t, err)
		assert.Equal(t, mplcore.ErrInvalidAuthority.Code, customCode(t, err))
	})

	t.Run("update authority conflicts with collection", func(t *testing.T) {
		l, payer := setup(t)
		collection := createCollection(t, l, payer)

		asset := solana.NewWallet().PrivateKey
		ua := solana.NewWallet().PublicKey()
		_, err := send(t, l, payer, &program.CreateAsset{
			Args: program.CreateAssetArgs{Name: "a", URI: "u"},
			Accounts: program.CreateAssetAccounts{
				Asset:           asset.PublicKey(),
				Collection:      collection.PublicKey(),
				Payer:           payer.PublicKey(),
				UpdateAuthority: &ua,
			},
		}, asset)
		require.Error(t, err)
		assert.Equal(t, mplcore.ErrConflictingAuthority.Code, customCode(t, err))
	})
}

func TestTransfer(t *testing.T) {
	transfer := func(t *testing.T, l *Ledger, payer solana.PrivateKey, asset, collection, newOwner solana.PublicKey) error {
		_, err := send(t, l, payer, &program.Transfer{Accounts: program.TransferAccounts{
			Asset:      asset,
			Collection: &collection,
			Payer:      payer.PublicKey(),
			NewOwner:   newOwner,
		}})
		return err
	}

	t.Run("oracle rejects", func(t *testing.T) {
		l, payer := setup(t)
		collection := createCollection(t, l, payer)
		asset, err := createAsset(t, l, payer, collection.PublicKey())
		require.NoError(t, err)

		err = transfer(t, l, payer, asset.PublicKey(), collection.PublicKey(), solana.NewWallet().PublicKey())
		require.Error(t, err)
		assert.Equal(t, mplcore.ErrNoApprovals.Code, customCode(t, err))
	})

	t.Run("oracle approves", func(t *testing.T) {
		l, payer := setup(t, WithOracleVerdict(true))
		collection := createCollection(t, l, payer)
		asset, err := createAsset(t, l, payer, collection.PublicKey())
		require.NoError(t, err)

		newOwner := solana.NewWallet().PublicKey()
		require.NoError(t, transfer(t, l, payer, asset.PublicKey(), collection.PublicKey(), newOwner))

		got, err := mplcore.FetchAsset(context.Background(), l, asset.PublicKey())
		require.NoError(t, err)
		assert.Equal(t, newOwner, got.Owner)

		// the payer no longer owns it
		err = transfer(t, l, payer, asset.PublicKey(), collection.PublicKey(), payer.PublicKey())
		require.Error(t, err)
		assert.Equal(t, mplcore.ErrNoApprovals.Code, customCode(t, err))
	})
}

func TestSendTransaction_Validation(t *testing.T) {
	l, payer := setup(t)
	collection := solana.NewWallet().PrivateKey
	ix := &program.CreateCollection{
		Args:     program.CreateCollectionArgs{Name: "c", URI: "u"},
		Accounts: program.CreateCollectionAccounts{Collection: collection.PublicKey(), Payer: payer.PublicKey()},
	}
	built, err := ix.Build(l.ProgramID())
	require.NoError(t, err)

	t.Run("unknown blockhash", func(t *testing.T) {
		tx, err := solana.NewTransaction([]solana.Instruction{built}, solana.Hash{1}, solana.TransactionPayer(payer.PublicKey()))
		require.NoError(t, err)
		_, err = l.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Blockhash not found")
	})

	t.Run("bad signature", func(t *testing.T) {
		bh, _ := l.GetLatestBlockhash(context.Background(), rpc.CommitmentFinalized)
		tx, err := solana.NewTransaction([]solana.Instruction{built}, bh.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
		require.NoError(t, err)
		tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
		_, err = l.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "signature verification failure")
	})

	t.Run("skip preflight records the failure", func(t *testing.T) {
		bh, _ := l.GetLatestBlockhash(context.Background(), rpc.CommitmentFinalized)
		tx, err := solana.NewTransaction([]solana.Instruction{built}, bh.Value.Blockhash, solana.TransactionPayer(payer.PublicKey()))
		require.NoError(t, err)
		// collection already exists, so the init fails on chain
		l.SetAccount(collection.PublicKey(), Account{Owner: solana.SystemProgramID, Lamports: 1})
		_, err = tx.Sign(func(pk solana.PublicKey) *solana.PrivateKey {
			switch pk {
			case payer.PublicKey():
				return &payer
			case collection.PublicKey():
				return &collection
			}
			return nil
		})
		require.NoError(t, err)

		sig, err := l.SendTransactionWithOpts(context.Background(), tx, rpc.TransactionOpts{SkipPreflight: true})
		require.NoError(t, err)

		statuses, err := l.GetSignatureStatuses(context.Background(), false, sig)
		require.NoError(t, err)
		require.NotNil(t, statuses.Value[0])
		assert.NotNil(t, statuses.Value[0].Err)
	})
}

func TestHistory(t *testing.T) {
	l, payer := setup(t)
	ctx := context.Background()
	collection := createCollection(t, l, payer)
	asset, err := createAsset(t, l, payer, collection.PublicKey())
	require.NoError(t, err)

	sigs, err := l.GetSignaturesForAddressWithOpts(ctx, l.ProgramID(), nil)
	require.NoError(t, err)
	require.Len(t, sigs, 2)
	assert.Greater(t, sigs[0].Slot, sigs[1].Slot, "newest first")

	limit := 1
	page, err := l.GetSignaturesForAddressWithOpts(ctx, l.ProgramID(), &rpc.GetSignaturesForAddressOpts{Limit: &limit, Before: sigs[0].Signature})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, sigs[1].Signature, page[0].Signature)

	res, err := l.GetTransaction(ctx, sigs[0].Signature, nil)
	require.NoError(t, err)
	tx, err := res.Transaction.GetTransaction()
	require.NoError(t, err)
	assert.Contains(t, []solana.PublicKey(tx.Message.AccountKeys), asset.PublicKey())
	assert.NotEmpty(t, res.Meta.LogMessages)

	_, err = l.GetTransaction(ctx, solana.Signature{9}, nil)
	assert.ErrorIs(t, err, rpc.ErrNotFound)
}
