package mplcore

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/codec"
)

type BaseCollectionV1 struct {
	Key             Key
	UpdateAuthority solana.PublicKey
	Name            string
	URI             string
	NumMinted       uint32
	CurrentSize     uint32
}

func (c BaseCollectionV1) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(uint8(KeyCollectionV1)); err != nil {
		return err
	}
	if err := codec.WritePublicKey(enc, c.UpdateAuthority); err != nil {
		return err
	}
	if err := enc.WriteString(c.Name); err != nil {
		return err
	}
	if err := enc.WriteString(c.URI); err != nil {
		return err
	}
	if err := enc.WriteUint32(c.NumMinted, binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteUint32(c.CurrentSize, binary.LittleEndian)
}

func (c *BaseCollectionV1) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	key, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	if Key(key) != KeyCollectionV1 {
		return fmt.Errorf("%w: expected %s, got %s", ErrUnexpectedKey, KeyCollectionV1, Key(key))
	}
	c.Key = KeyCollectionV1
	if c.UpdateAuthority, err = codec.ReadPublicKey(dec); err != nil {
		return err
	}
	if c.Name, err = dec.ReadString(); err != nil {
		return err
	}
	if c.URI, err = dec.ReadString(); err != nil {
		return err
	}
	if c.NumMinted, err = dec.ReadUint32(binary.LittleEndian); err != nil {
		return err
	}
	c.CurrentSize, err = dec.ReadUint32(binary.LittleEndian)
	return err
}

func (c BaseCollectionV1) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeCollection decodes the header of a collection account, ignoring any plugin data after it.
func DecodeCollection(data []byte) (*BaseCollectionV1, error) {
	var c BaseCollectionV1
	if err := c.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return &c, nil
}
