package mplcore

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReader struct {
	GetAccountInfoFunc func(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error)
}

func (m *mockReader) GetAccountInfo(ctx context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	return m.GetAccountInfoFunc(ctx, account)
}

func accountResult(owner solana.PublicKey, data []byte) *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{
			Owner: owner,
			Data:  rpc.DataBytesOrJSONFromBytes(data),
		},
	}
}

func TestCollection_Layout(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	col := BaseCollectionV1{
		UpdateAuthority: authority,
		Name:            "My Collection",
		URI:             "https://example.com",
		NumMinted:       3,
		CurrentSize:     2,
	}

	data, err := col.Marshal()
	require.NoError(t, err)
	require.Equal(t, byte(KeyCollectionV1), data[0])
	require.Equal(t, authority.Bytes(), data[1:33])
	// borsh strings carry a u32 little-endian length
	require.Equal(t, []byte{13, 0, 0, 0}, data[33:37])
	require.Equal(t, "My Collection", string(data[37:50]))

	// plugin data trails the header on chain
	data = append(data, 0x03, 0xff, 0xff)

	got, err := DecodeCollection(data)
	require.NoError(t, err)
	assert.Equal(t, KeyCollectionV1, got.Key)
	assert.Equal(t, authority, got.UpdateAuthority)
	assert.Equal(t, "My Collection", got.Name)
	assert.Equal(t, "https://example.com", got.URI)
	assert.Equal(t, uint32(3), got.NumMinted)
	assert.Equal(t, uint32(2), got.CurrentSize)
}

func TestAsset_CollectionAuthority(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	collection := solana.NewWallet().PublicKey()
	asset := BaseAssetV1{
		Owner:           owner,
		UpdateAuthority: CollectionAuthority(collection),
		Name:            "My asset",
		URI:             "https://asset.example.com",
	}

	data, err := asset.Marshal()
	require.NoError(t, err)

	got, err := DecodeAsset(data)
	require.NoError(t, err)
	assert.Equal(t, owner, got.Owner)
	assert.Nil(t, got.Seq)

	col, ok := got.Collection()
	require.True(t, ok)
	assert.Equal(t, collection, col)
	assert.Equal(t, "Collection("+collection.String()+")", got.UpdateAuthority.String())
}

func TestAsset_NoneAuthority(t *testing.T) {
	seq := uint64(9)
	asset := BaseAssetV1{
		Owner: solana.NewWallet().PublicKey(),
		Name:  "a",
		URI:   "u",
		Seq:   &seq,
	}
	data, err := asset.Marshal()
	require.NoError(t, err)
	// key + owner + none tag + two 1-char strings + option tag + u64
	assert.Len(t, data, 1+32+1+5+5+1+8)

	got, err := DecodeAsset(data)
	require.NoError(t, err)
	_, ok := got.Collection()
	assert.False(t, ok)
	require.NotNil(t, got.Seq)
	assert.Equal(t, seq, *got.Seq)
}

func TestDecode_WrongKey(t *testing.T) {
	col, err := BaseCollectionV1{Name: "c", URI: "u"}.Marshal()
	require.NoError(t, err)

	_, err = DecodeAsset(col)
	assert.ErrorIs(t, err, ErrUnexpectedKey)

	_, err = DecodeCollection([]byte{byte(KeyAssetV1)})
	assert.ErrorIs(t, err, ErrUnexpectedKey)
}

func TestDecodeCollection_TruncatedName(t *testing.T) {
	col, err := BaseCollectionV1{Name: "My Collection", URI: "u"}.Marshal()
	require.NoError(t, err)

	_, err = DecodeCollection(col[:40])
	assert.Error(t, err)
}

func TestFetchCollection(t *testing.T) {
	address := solana.NewWallet().PublicKey()
	data, err := BaseCollectionV1{Name: "My Collection", URI: "https://example.com"}.Marshal()
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		r := &mockReader{GetAccountInfoFunc: func(_ context.Context, account solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
			assert.Equal(t, address, account)
			return accountResult(ProgramID, data), nil
		}}
		col, err := FetchCollection(context.Background(), r, address)
		require.NoError(t, err)
		assert.Equal(t, "My Collection", col.Name)
	})

	t.Run("not found", func(t *testing.T) {
		r := &mockReader{GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
			return nil, rpc.ErrNotFound
		}}
		_, err := FetchCollection(context.Background(), r, address)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})

	t.Run("wrong owner", func(t *testing.T) {
		r := &mockReader{GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
			return accountResult(solana.SystemProgramID, data), nil
		}}
		_, err := FetchCollection(context.Background(), r, address)
		assert.ErrorIs(t, err, ErrInvalidOwner)
	})

	t.Run("rpc failure", func(t *testing.T) {
		r := &mockReader{GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
			return nil, errors.New("rpc explosion")
		}}
		_, err := FetchCollection(context.Background(), r, address)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rpc explosion")
	})
}

func TestFetchAsset_IsNotCollection(t *testing.T) {
	data, err := BaseCollectionV1{Name: "c", URI: "u"}.Marshal()
	require.NoError(t, err)
	r := &mockReader{GetAccountInfoFunc: func(context.Context, solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
		return accountResult(ProgramID, data), nil
	}}
	_, err = FetchAsset(context.Background(), r, solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, ErrUnexpectedKey)
}

func TestTransferRejectOracle(t *testing.T) {
	base := solana.NewWallet().PublicKey()
	oracle := TransferRejectOracle(base)

	check, ok := oracle.Check(LifecycleTransfer)
	require.True(t, ok)
	assert.True(t, check.CanReject())
	assert.False(t, check.CanApprove())

	_, ok = oracle.Check(LifecycleBurn)
	assert.False(t, ok)

	assert.Equal(t, []string{"oracle:" + base.String() + ":transfer:4"}, oracle.Labels())
}

func TestErrorFromCode(t *testing.T) {
	e, ok := ErrorFromCode(26)
	require.True(t, ok)
	assert.Equal(t, ErrNoApprovals, e)

	_, ok = ErrorFromCode(9999)
	assert.False(t, ok)
}
