package mplcore

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/solcore-labs/corecollection/codec"
)

type UpdateAuthorityType uint8

const (
	UpdateAuthorityNone UpdateAuthorityType = iota
	UpdateAuthorityAddress
	UpdateAuthorityCollection
)

// UpdateAuthority is the Borsh enum stored in an asset header. Address is unset for None.
type UpdateAuthority struct {
	Type    UpdateAuthorityType
	Address solana.PublicKey
}

func AddressAuthority(pk solana.PublicKey) UpdateAuthority {
	return UpdateAuthority{Type: UpdateAuthorityAddress, Address: pk}
}

func CollectionAuthority(pk solana.PublicKey) UpdateAuthority {
	return UpdateAuthority{Type: UpdateAuthorityCollection, Address: pk}
}

func (u UpdateAuthority) String() string {
	switch u.Type {
	case UpdateAuthorityNone:
		return "None"
	case UpdateAuthorityAddress:
		return "Address(" + u.Address.String() + ")"
	case UpdateAuthorityCollection:
		return "Collection(" + u.Address.String() + ")"
	default:
		return "Unknown"
	}
}

func (u UpdateAuthority) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(uint8(u.Type)); err != nil {
		return err
	}
	if u.Type == UpdateAuthorityNone {
		return nil
	}
	return codec.WritePublicKey(enc, u.Address)
}

func (u *UpdateAuthority) UnmarshalWithDecoder(dec *bin.Decoder) error {
	tag, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	u.Type = UpdateAuthorityType(tag)
	switch u.Type {
	case UpdateAuthorityNone:
		u.Address = solana.PublicKey{}
		return nil
	case UpdateAuthorityAddress, UpdateAuthorityCollection:
		u.Address, err = codec.ReadPublicKey(dec)
		return err
	default:
		return fmt.Errorf("unknown update authority variant %d", tag)
	}
}
