package mplcore

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/codec"
)

type BaseAssetV1 struct {
	Key             Key
	Owner           solana.PublicKey
	UpdateAuthority UpdateAuthority
	Name            string
	URI             string
	Seq             *uint64
}

// Collection returns the collection the asset belongs to, if any.
func (a BaseAssetV1) Collection() (solana.PublicKey, bool) {
	if a.UpdateAuthority.Type != UpdateAuthorityCollection {
		return solana.PublicKey{}, false
	}
	return a.UpdateAuthority.Address, true
}

func (a BaseAssetV1) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(uint8(KeyAssetV1)); err != nil {
		return err
	}
	if err := codec.WritePublicKey(enc, a.Owner); err != nil {
		return err
	}
	if err := a.UpdateAuthority.MarshalWithEncoder(enc); err != nil {
		return err
	}
	if err := enc.WriteString(a.Name); err != nil {
		return err
	}
	if err := enc.WriteString(a.URI); err != nil {
		return err
	}
	return codec.WriteOptionUint64(enc, a.Seq)
}

func (a *BaseAssetV1) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	key, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	if Key(key) != KeyAssetV1 {
		return fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedKey, KeyAssetV1, Key(key))
	}
	a.Key = KeyAssetV1
	if a.Owner, err = codec.ReadPublicKey(dec); err != nil {
		return err
	}
	if err = a.UpdateAuthority.UnmarshalWithDecoder(dec); err != nil {
		return err
	}
	if a.Name, err = dec.ReadString(); err != nil {
		return err
	}
	if a.URI, err = dec.ReadString(); err != nil {
		return err
	}
	a.Seq, err = codec.ReadOptionUint64(dec)
	return err
}

func (a BaseAssetV1) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := a.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeAsset(data []byte) (*BaseAssetV1, error) {
	var a BaseAssetV1
	if err := a.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}
	return &a, nil
}
