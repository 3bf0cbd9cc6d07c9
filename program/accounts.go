package program

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/codec"
)

// CollectionInfoSize is the allocated size of the PDA including the discriminator.
const CollectionInfoSize = DiscriminatorLength + solana.PublicKeyLength + 1

type CollectionInfo struct {
	CollectionAddress solana.PublicKey
	IsCreated         bool
}

func (c CollectionInfo) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBytes(CollectionInfoDiscriminator[:], false); err != nil {
		return err
	}
	if err := codec.WritePublicKey(enc, c.CollectionAddress); err != nil {
		return err
	}
	return enc.WriteBool(c.IsCreated)
}

func (c *CollectionInfo) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	disc, err := dec.ReadNBytes(DiscriminatorLength)
	if err != nil {
		return err
	}
	if !bytes.Equal(disc, CollectionInfoDiscriminator[:]) {
		return ErrAccountDiscriminatorMismatch
	}
	if c.CollectionAddress, err = codec.ReadPublicKey(dec); err != nil {
		return err
	}
	c.IsCreated, err = dec.ReadBool()
	return err
}

func (c CollectionInfo) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func DecodeCollectionInfo(data []byte) (*CollectionInfo, error) {
	if len(data) < DiscriminatorLength {
		return nil, ErrAccountDiscriminatorNotFound
	}
	var c CollectionInfo
	if err := c.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode collection info: %w", err)
	}
	return &c, nil
}
