package codec

import (
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"

	"github.com/solcore-labs/corecollection/types"
)

// ParseAddress decodes a base58 account address.
func ParseAddress(field, addr string) (solana.PublicKey, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return solana.PublicKey{}, types.NewValidationError(field, "required field is missing")
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return solana.PublicKey{}, types.NewInvalidValueError(field, addr, "invalid base58 encoding")
	}
	if len(raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, types.NewInvalidValueError(field, addr, "address must be 32 bytes")
	}
	return solana.PublicKeyFromBytes(raw), nil
}

// ParseOptionalAddress returns nil for an empty string.
func ParseOptionalAddress(field, addr string) (*solana.PublicKey, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, nil
	}
	pk, err := ParseAddress(field, addr)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

// AddressOrEmpty renders an optional key for storage.
func AddressOrEmpty(pk *solana.PublicKey) string {
	if pk == nil {
		return ""
	}
	return pk.String()
}
