package client

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

type mockRPCClient struct {
	getLatestBlockhashFunc   func(ctx context.Context, commitment solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error)
	sendTransactionFunc      func(ctx context.Context, transaction *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error)
	getSignatureStatusesFunc func(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error)
	getAccountInfoFunc       func(ctx context.Context, account solana.PublicKey) (*solanarpc.GetAccountInfoResult, error)
	sentTransactions         []*solana.Transaction
}

func (m *mockRPCClient) GetLatestBlockhash(ctx context.Context, commitment solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error) {
	if m.getLatestBlockhashFunc != nil {
		return m.getLatestBlockhashFunc(ctx, commitment)
	}
	return &solanarpc.GetLatestBlockhashResult{
		Value: &solanarpc.LatestBlockhashResult{
			Blockhash: solana.MustHashFromBase58("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"),
		},
	}, nil
}

func (m *mockRPCClient) SendTransactionWithOpts(ctx context.Context, transaction *solana.Transaction, opts solanarpc.TransactionOpts) (solana.Signature, error) {
	m.sentTransactions = append(m.sentTransactions, transaction)
	if m.sendTransactionFunc != nil {
		return m.sendTransactionFunc(ctx, transaction, opts)
	}
	return transaction.Signatures[0], nil
}

func (m *mockRPCClient) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
	if m.getSignatureStatusesFunc != nil {
		return m.getSignatureStatusesFunc(ctx, searchTransactionHistory, transactionSignatures...)
	}
	return &solanarpc.GetSignatureStatusesResult{
		Value: []*solanarpc.SignatureStatusesResult{
			{ConfirmationStatus: solanarpc.ConfirmationStatusFinalized},
		},
	}, nil
}

func (m *mockRPCClient) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*solanarpc.GetAccountInfoResult, error) {
	if m.getAccountInfoFunc != nil {
		return m.getAccountInfoFunc(ctx, account)
	}
	return nil, solanarpc.ErrNotFound
}

func (m *mockRPCClient) GetVersion(context.Context) (*solanarpc.GetVersionResult, error) {
	return &solanarpc.GetVersionResult{SolanaCore: "2.1.13"}, nil
}

func newTestClient(rpc *mockRPCClient, opts ...Option) (*Client, solana.PrivateKey) {
	payer := solana.NewWallet().PrivateKey
	opts = append([]Option{WithLogger(slog.Default()), WithPollInterval(10 * time.Millisecond)}, opts...)
	return New(rpc, payer, opts...), payer
}

func makeCustomError(index int, code string, logs ...string) *jsonrpc.RPCError {
	data := map[string]any{
		"err": map[string]any{
			"InstructionError": []any{
				json.Number(string(rune('0' + index))),
				map[string]any{"Custom": json.Number(code)},
			},
		},
	}
	if len(logs) > 0 {
		raw := make([]any, len(logs))
		for i, l := range logs {
			raw[i] = l
		}
		data["logs"] = raw
	}
	return &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 0",
		Data:    data,
	}
}

func TestNew(t *testing.T) {
	rpc := &mockRPCClient{}
	c, payer := newTestClient(rpc)
	assert.Equal(t, program.ProgramID, c.ProgramID())
	assert.Equal(t, payer.PublicKey(), c.Payer())
	assert.Equal(t, solanarpc.CommitmentConfirmed, c.commitment)
	assert.Equal(t, defaultConfirmTimeout, c.confirmTimeout)

	custom := solana.NewWallet().PublicKey()
	c, _ = newTestClient(rpc, WithProgramID(custom), WithCommitment(solanarpc.CommitmentFinalized), WithConfirmTimeout(time.Second))
	assert.Equal(t, custom, c.ProgramID())
	assert.Equal(t, solanarpc.CommitmentFinalized, c.commitment)
	assert.Equal(t, time.Second, c.confirmTimeout)
}

func TestCreateCollection(t *testing.T) {
	t.Run("sends a signed transaction", func(t *testing.T) {
		rpc := &mockRPCClient{}
		c, payer := newTestClient(rpc)
		collection := solana.NewWallet().PrivateKey

		sig, err := c.CreateCollection(context.Background(), CreateCollectionParams{
			Collection: collection,
			Name:       "My Collection",
			URI:        "https://example.com",
		})
		require.NoError(t, err)
		require.Len(t, rpc.sentTransactions, 1)

		tx := rpc.sentTransactions[0]
		assert.Equal(t, tx.Signatures[0], sig)
		assert.Equal(t, payer.PublicKey(), tx.Message.AccountKeys[0])
		assert.Len(t, tx.Signatures, 2)
		assert.Len(t, tx.Message.Instructions, 1)
		assert.Equal(t, program.ProgramID, tx.Message.AccountKeys[tx.Message.Instructions[0].ProgramIDIndex])
	})

	t.Run("rejects empty name", func(t *testing.T) {
		rpc := &mockRPCClient{}
		c, _ := newTestClient(rpc)
		_, err := c.CreateCollection(context.Background(), CreateCollectionParams{
			Collection: solana.NewWallet().PrivateKey,
			URI:        "https://example.com",
		})
		require.Error(t, err)
		assert.True(t, types.IsType(err, types.ErrTypeValidation))
		assert.Empty(t, rpc.sentTransactions)
	})

	t.Run("zero program id", func(t *testing.T) {
		rpc := &mockRPCClient{}
		c, _ := newTestClient(rpc, WithProgramID(solana.PublicKey{}))
		_, err := c.CreateCollection(context.Background(), CreateCollectionParams{
			Collection: solana.NewWallet().PrivateKey,
			Name:       "n",
			URI:        "u",
		})
		assert.ErrorIs(t, err, ErrNoProgramID)
	})

	t.Run("blockhash failure", func(t *testing.T) {
		rpc := &mockRPCClient{
			getLatestBlockhashFunc: func(context.Context, solanarpc.CommitmentType) (*solanarpc.GetLatestBlockhashResult, error) {
				return nil, errors.New("RPC error")
			},
		}
		c, _ := newTestClient(rpc)
		_, err := c.CreateCollection(context.Background(), CreateCollectionParams{
			Collection: solana.NewWallet().PrivateKey,
			Name:       "n",
			URI:        "u",
		})
		require.Error(t, err)
		assert.True(t, types.IsType(err, types.ErrTypeNetwork))
		assert.Contains(t, err.Error(), "failed to get latest blockhash")
	})
}

func TestCreateAsset_ProgramErrors(t *testing.T) {
	collection := solana.NewWallet().PublicKey()

	t.Run("maps program custom errors", func(t *testing.T) {
		rpc := &mockRPCClient{
			sendTransactionFunc: func(context.Context, *solana.Transaction, solanarpc.TransactionOpts) (solana.Signature, error) {
				return solana.Signature{}, makeCustomError(0, "6001",
					"Program ER9AadmM55TVTFQGz8YDS94pYwpMDD3BEMSHsRXxpj92 invoke [1]",
					"Program log: Wrong Collection",
					"Program ER9AadmM55TVTFQGz8YDS94pYwpMDD3BEMSHsRXxpj92 failed: custom program error: 0x1771",
				)
			},
		}
		c, _ := newTestClient(rpc)
		_, err := c.CreateAsset(context.Background(), CreateAssetParams{
			Asset:      solana.NewWallet().PrivateKey,
			Collection: collection,
			Name:       "My asset",
			URI:        "https://asset.example.com",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, program.ErrWrongCollection)
		assert.NotErrorIs(t, err, program.ErrCollectionIsNotCreated)

		var perr *ProgramError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "WrongCollection", perr.Name)
		assert.Equal(t, program.ProgramID, perr.Program)
		assert.Len(t, perr.Logs, 3)
	})

	t.Run("attributes cpi failures to mpl core", func(t *testing.T) {
		rpc := &mockRPCClient{
			sendTransactionFunc: func(context.Context, *solana.Transaction, solanarpc.TransactionOpts) (solana.Signature, error) {
				return solana.Signature{}, makeCustomError(0, "9",
					"Program CoREENxT6tW1HoK8ypY1SxRMZTcVPm7R94rH4PZNhX7d failed: custom program error: 0x9",
					"Program ER9AadmM55TVTFQGz8YDS94pYwpMDD3BEMSHsRXxpj92 failed: custom program error: 0x9",
				)
			},
		}
		c, _ := newTestClient(rpc)
		authority := solana.NewWallet().PrivateKey
		_, err := c.CreateAsset(context.Background(), CreateAssetParams{
			Asset:      solana.NewWallet().PrivateKey,
			Collection: collection,
			Name:       "a",
			URI:        "u",
			Authority:  &authority,
		})
		assert.ErrorIs(t, err, mplcore.ErrInvalidAuthority)
		assert.NotErrorIs(t, err, program.ErrWrongCollection)
		require.Len(t, rpc.sentTransactions, 1)
		assert.Len(t, rpc.sentTransactions[0].Signatures, 3, "payer, asset and authority sign")
	})

	t.Run("network errors are not program errors", func(t *testing.T) {
		rpc := &mockRPCClient{
			sendTransactionFunc: func(context.Context, *solana.Transaction, solanarpc.TransactionOpts) (solana.Signature, error) {
				return solana.Signature{}, errors.New("connection refused")
			},
		}
		c, _ := newTestClient(rpc)
		_, err := c.CreateAsset(context.Background(), CreateAssetParams{
			Asset:      solana.NewWallet().PrivateKey,
			Collection: collection,
			Name:       "a",
			URI:        "u",
		})
		require.Error(t, err)
		assert.True(t, types.IsType(err, types.ErrTypeNetwork))
		assert.Contains(t, err.Error(), "failed to send transaction")
	})
}

func TestWaitForConfirmation(t *testing.T) {
	t.Run("landed with error", func(t *testing.T) {
		rpc := &mockRPCClient{
			getSignatureStatusesFunc: func(context.Context, bool, ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
				return &solanarpc.GetSignatureStatusesResult{
					Value: []*solanarpc.SignatureStatusesResult{{
						ConfirmationStatus: solanarpc.ConfirmationStatusConfirmed,
						Err: map[string]any{
							"InstructionError": []any{float64(0), map[string]any{"Custom": float64(26)}},
						},
					}},
				}, nil
			},
		}
		c, _ := newTestClient(rpc, WithSkipPreflight(true))
		_, err := c.TransferAsset(context.Background(), TransferAssetParams{
			Asset:    solana.NewWallet().PublicKey(),
			NewOwner: solana.NewWallet().PublicKey(),
		})
		require.Error(t, err)
		assert.True(t, types.IsType(err, types.ErrTypeTransaction))
		assert.ErrorIs(t, err, mplcore.ErrNoApprovals)
	})

	t.Run("times out", func(t *testing.T) {
		rpc := &mockRPCClient{
			getSignatureStatusesFunc: func(context.Context, bool, ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
				return &solanarpc.GetSignatureStatusesResult{Value: []*solanarpc.SignatureStatusesResult{nil}}, nil
			},
		}
		c, _ := newTestClient(rpc, WithConfirmTimeout(50*time.Millisecond))
		_, err := c.TransferAsset(context.Background(), TransferAssetParams{
			Asset:    solana.NewWallet().PublicKey(),
			NewOwner: solana.NewWallet().PublicKey(),
		})
		require.Error(t, err)
		assert.True(t, types.IsType(err, types.ErrTypeTimeout))
	})

	t.Run("waits for the requested commitment", func(t *testing.T) {
		calls := 0
		rpc := &mockRPCClient{
			getSignatureStatusesFunc: func(context.Context, bool, ...solana.Signature) (*solanarpc.GetSignatureStatusesResult, error) {
				calls++
				status := solanarpc.ConfirmationStatusProcessed
				if calls > 2 {
					status = solanarpc.ConfirmationStatusFinalized
				}
				return &solanarpc.GetSignatureStatusesResult{
					Value: []*solanarpc.SignatureStatusesResult{{ConfirmationStatus: status}},
				}, nil
			},
		}
		c, _ := newTestClient(rpc, WithCommitment(solanarpc.CommitmentFinalized))
		_, err := c.TransferAsset(context.Background(), TransferAssetParams{
			Asset:    solana.NewWallet().PublicKey(),
			NewOwner: solana.NewWallet().PublicKey(),
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})
}

func TestFetchCollectionInfo(t *testing.T) {
	collection := solana.NewWallet().PublicKey()
	data, err := program.CollectionInfo{CollectionAddress: collection, IsCreated: true}.Marshal()
	require.NoError(t, err)

	rpc := &mockRPCClient{
		getAccountInfoFunc: func(_ context.Context, account solana.PublicKey) (*solanarpc.GetAccountInfoResult, error) {
			pda, _, _ := program.FindCollectionInfoAddress(program.ProgramID)
			if !account.Equals(pda) {
				return nil, solanarpc.ErrNotFound
			}
			return &solanarpc.GetAccountInfoResult{Value: &solanarpc.Account{
				Owner: program.ProgramID,
				Data:  solanarpc.DataBytesOrJSONFromBytes(data),
			}}, nil
		},
	}
	c, _ := newTestClient(rpc)
	info, err := c.FetchCollectionInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, collection, info.CollectionAddress)
	assert.True(t, info.IsCreated)

	c, _ = newTestClient(rpc, WithProgramID(solana.NewWallet().PublicKey()))
	_, err = c.FetchCollectionInfo(context.Background())
	assert.ErrorIs(t, err, mplcore.ErrAccountNotFound)
}

func TestDecodeTransactionError(t *testing.T) {
	err := decodeTransactionError(map[string]any{"InstructionError": []any{json.Number("1"), "MissingRequiredSignature"}}, nil)
	var ixErr *InstructionError
	require.ErrorAs(t, err, &ixErr)
	assert.Equal(t, 1, ixErr.InstructionIndex)
	assert.Equal(t, "MissingRequiredSignature", ixErr.Kind)

	err = decodeTransactionError(map[string]any{"InstructionError": []any{json.Number("0"), map[string]any{"Custom": json.Number("0")}}},
		[]string{"Program 11111111111111111111111111111111 failed: custom program error: 0x0"})
	assert.ErrorIs(t, err, ErrAccountAlreadyInUse)

	assert.Nil(t, decodeTransactionError("AccountInUse", nil))
}

func TestFailureLabel(t *testing.T) {
	assert.Equal(t, "NoApprovals", failureLabel(&ProgramError{Program: mplcore.ProgramID, Code: 26, Name: "NoApprovals"}))
	assert.Equal(t, "custom_77", failureLabel(&ProgramError{Code: 77}))
	assert.Equal(t, "MissingRequiredSignature", failureLabel(&InstructionError{Kind: "MissingRequiredSignature"}))
	assert.Equal(t, "unknown", failureLabel(errors.New("boom")))
}
