package codec

import (
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

func WritePublicKey(enc *bin.Encoder, pk solana.PublicKey) error {
	return enc.WriteBytes(pk[:], false)
}

func ReadPublicKey(dec *bin.Decoder) (solana.PublicKey, error) {
	b, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBytes(b), nil
}

// WriteOptionUint64 writes a Borsh Option<u64>.
func WriteOptionUint64(enc *bin.Encoder, v *uint64) error {
	if v == nil {
		return enc.WriteUint8(0)
	}
	if err := enc.WriteUint8(1); err != nil {
		return err
	}
	return enc.WriteUint64(*v, binary.LittleEndian)
}

func ReadOptionUint64(dec *bin.Decoder) (*uint64, error) {
	tag, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		v, err := dec.ReadUint64(binary.LittleEndian)
		if err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid option tag %d", tag)
	}
}
