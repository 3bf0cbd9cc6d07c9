package program

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Instruction is a decoded or to-be-built program instruction.
type Instruction interface {
	Name() string
	Build(programID solana.PublicKey) (solana.Instruction, error)
}

type CreateCollectionArgs struct {
	Name string
	URI  string
}

type CreateAssetArgs struct {
	Name string
	URI  string
}

type CreateCollectionAccounts struct {
	Collection      solana.PublicKey
	CollectionInfo  solana.PublicKey
	UpdateAuthority *solana.PublicKey
	Payer           solana.PublicKey
	// MplCoreProgram defaults to MplCoreProgramID when nil.
	MplCoreProgram *solana.PublicKey
}

type CreateCollection struct {
	Args     CreateCollectionArgs
	Accounts CreateCollectionAccounts
}

type CreateAssetAccounts struct {
	Asset           solana.PublicKey
	Authority       *solana.PublicKey
	Collection      solana.PublicKey
	CollectionInfo  solana.PublicKey
	Payer           solana.PublicKey
	Owner           *solana.PublicKey
	UpdateAuthority *solana.PublicKey
	MplCoreProgram  *solana.PublicKey
}

type CreateAsset struct {
	Args     CreateAssetArgs
	Accounts CreateAssetAccounts
}

type TransferAccounts struct {
	Asset          solana.PublicKey
	Collection     *solana.PublicKey
	Payer          solana.PublicKey
	Authority      *solana.PublicKey
	NewOwner       solana.PublicKey
	SystemProgram  *solana.PublicKey
	LogWrapper     *solana.PublicKey
	MplCoreProgram *solana.PublicKey
}

type Transfer struct {
	Accounts TransferAccounts
}

func (*CreateCollection) Name() string { return InstructionCreateCollection }
func (*CreateAsset) Name() string      { return InstructionCreateAsset }
func (*Transfer) Name() string         { return InstructionTransfer }

// optionalMeta returns the placeholder used by Anchor for an absent optional account.
func optionalMeta(programID solana.PublicKey, pk *solana.PublicKey, writable, signer bool) *solana.AccountMeta {
	if pk == nil {
		return solana.Meta(programID)
	}
	return solana.NewAccountMeta(*pk, writable, signer)
}

func encodeArgs(disc [DiscriminatorLength]byte, name, uri string) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteBytes(disc[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteString(name); err != nil {
		return nil, err
	}
	if err := enc.WriteString(uri); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MplCoreOrDefault resolves an optional Core program override.
func MplCoreOrDefault(pk *solana.PublicKey) solana.PublicKey {
	if pk == nil {
		return MplCoreProgramID
	}
	return *pk
}

func collectionInfoOrDerive(programID, pk solana.PublicKey) (solana.PublicKey, error) {
	if !pk.IsZero() {
		return pk, nil
	}
	pda, _, err := FindCollectionInfoAddress(programID)
	return pda, err
}

func (ix *CreateCollection) Build(programID solana.PublicKey) (solana.Instruction, error) {
	a := ix.Accounts
	info, err := collectionInfoOrDerive(programID, a.CollectionInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive collection info address: %w", err)
	}
	data, err := encodeArgs(CreateCollectionDiscriminator, ix.Args.Name, ix.Args.URI)
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(a.Collection).WRITE().SIGNER(),
		solana.Meta(info).WRITE(),
		optionalMeta(programID, a.UpdateAuthority, false, false),
		solana.Meta(a.Payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(MplCoreOrDefault(a.MplCoreProgram)),
	}
	return solana.NewInstruction(programID, metas, data), nil
}

func (ix *CreateAsset) Build(programID solana.PublicKey) (solana.Instruction, error) {
	a := ix.Accounts
	info, err := collectionInfoOrDerive(programID, a.CollectionInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to derive collection info address: %w", err)
	}
	data, err := encodeArgs(CreateAssetDiscriminator, ix.Args.Name, ix.Args.URI)
	if err != nil {
		return nil, err
	}
	metas := solana.AccountMetaSlice{
		solana.Meta(a.Asset).WRITE().SIGNER(),
		optionalMeta(programID, a.Authority, false, true),
		solana.Meta(a.Collection).WRITE(),
		solana.Meta(info).WRITE(),
		solana.Meta(a.Payer).WRITE().SIGNER(),
		optionalMeta(programID, a.Owner, false, false),
		optionalMeta(programID, a.UpdateAuthority, false, false),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(MplCoreOrDefault(a.MplCoreProgram)),
	}
	return solana.NewInstruction(programID, metas, data), nil
}

func (ix *Transfer) Build(programID solana.PublicKey) (solana.Instruction, error) {
	a := ix.Accounts
	metas := solana.AccountMetaSlice{
		solana.Meta(a.Asset).WRITE(),
		optionalMeta(programID, a.Collection, true, false),
		solana.Meta(a.Payer).WRITE().SIGNER(),
		optionalMeta(programID, a.Authority, false, true),
		solana.Meta(a.NewOwner),
		optionalMeta(programID, a.SystemProgram, false, false),
		optionalMeta(programID, a.LogWrapper, false, false),
		solana.Meta(MplCoreOrDefault(a.MplCoreProgram)),
	}
	data := append([]byte(nil), TransferDiscriminator[:]...)
	return solana.NewInstruction(programID, metas, data), nil
}

// DecodeInstruction maps instruction data and its resolved account keys back to a typed instruction.
// Accounts equal to programID in optional slots decode as nil.
func DecodeInstruction(programID solana.PublicKey, accounts []solana.PublicKey, data []byte) (Instruction, error) {
	if len(data) < DiscriminatorLength {
		return nil, ErrInstructionMissing
	}
	var disc [DiscriminatorLength]byte
	copy(disc[:], data[:DiscriminatorLength])

	opt := func(i int) *solana.PublicKey {
		if accounts[i].Equals(programID) {
			return nil
		}
		pk := accounts[i]
		return &pk
	}
	key := func(i int) *solana.PublicKey {
		pk := accounts[i]
		return &pk
	}

	switch disc {
	case CreateCollectionDiscriminator:
		if len(accounts) < 6 {
			return nil, ErrAccountNotEnoughKeys
		}
		name, uri, err := decodeArgs(data[DiscriminatorLength:])
		if err != nil {
			return nil, err
		}
		return &CreateCollection{
			Args: CreateCollectionArgs{Name: name, URI: uri},
			Accounts: CreateCollectionAccounts{
				Collection:      accounts[0],
				CollectionInfo:  accounts[1],
				UpdateAuthority: opt(2),
				Payer:           accounts[3],
				MplCoreProgram:  key(5),
			},
		}, nil
	case CreateAssetDiscriminator:
		if len(accounts) < 9 {
			return nil, ErrAccountNotEnoughKeys
		}
		name, uri, err := decodeArgs(data[DiscriminatorLength:])
		if err != nil {
			return nil, err
		}
		return &CreateAsset{
			Args: CreateAssetArgs{Name: name, URI: uri},
			Accounts: CreateAssetAccounts{
				Asset:           accounts[0],
				Authority:       opt(1),
				Collection:      accounts[2],
				CollectionInfo:  accounts[3],
				Payer:           accounts[4],
				Owner:           opt(5),
				UpdateAuthority: opt(6),
				MplCoreProgram:  key(8),
			},
		}, nil
	case TransferDiscriminator:
		if len(accounts) < 8 {
			return nil, ErrAccountNotEnoughKeys
		}
		return &Transfer{
			Accounts: TransferAccounts{
				Asset:          accounts[0],
				Collection:     opt(1),
				Payer:          accounts[2],
				Authority:      opt(3),
				NewOwner:       accounts[4],
				SystemProgram:  opt(5),
				LogWrapper:     opt(6),
				MplCoreProgram: key(7),
			},
		}, nil
	default:
		return nil, ErrInstructionFallbackNotFound
	}
}

func decodeArgs(data []byte) (name, uri string, err error) {
	dec := bin.NewBorshDecoder(data)
	if name, err = dec.ReadString(); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInstructionDidNotDeserialize, err)
	}
	if uri, err = dec.ReadString(); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInstructionDidNotDeserialize, err)
	}
	return name, uri, nil
}
