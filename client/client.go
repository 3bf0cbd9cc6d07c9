// Package client builds, signs and submits create_core_collection transactions.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solcore-labs/corecollection/mplcore"
	"github.com/solcore-labs/corecollection/program"
	"github.com/solcore-labs/corecollection/types"
)

const (
	defaultPollInterval   = 500 * time.Millisecond
	defaultConfirmTimeout = 60 * time.Second
)

var ErrNoProgramID = errors.New("program id is not set")

type Client struct {
	rpc            RPCClient
	payer          solana.PrivateKey
	programID      solana.PublicKey
	logger         *slog.Logger
	commitment     rpc.CommitmentType
	pollInterval   time.Duration
	confirmTimeout time.Duration
	skipPreflight  bool
}

type Option func(*Client)

func WithProgramID(programID solana.PublicKey) Option {
	return func(c *Client) { c.programID = programID }
}

func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Client) { c.commitment = commitment }
}

func WithPollInterval(d time.Duration) Option {
	return func(c *Client) { c.pollInterval = d }
}

func WithConfirmTimeout(d time.Duration) Option {
	return func(c *Client) { c.confirmTimeout = d }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithSkipPreflight(skip bool) Option {
	return func(c *Client) { c.skipPreflight = skip }
}

func New(rpcClient RPCClient, payer solana.PrivateKey, opts ...Option) *Client {
	c := &Client{
		rpc:            rpcClient,
		payer:          payer,
		programID:      program.ProgramID,
		logger:         slog.Default(),
		commitment:     rpc.CommitmentConfirmed,
		pollInterval:   defaultPollInterval,
		confirmTimeout: defaultConfirmTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("module", "client")
	return c
}

func (c *Client) Payer() solana.PublicKey {
	return c.payer.PublicKey()
}

func (c *Client) ProgramID() solana.PublicKey {
	return c.programID
}

type CreateCollectionParams struct {
	Collection      solana.PrivateKey
	Name            string
	URI             string
	UpdateAuthority *solana.PublicKey
}

type CreateAssetParams struct {
	Asset           solana.PrivateKey
	Collection      solana.PublicKey
	Name            string
	URI             string
	Authority       *solana.PrivateKey
	Owner           *solana.PublicKey
	UpdateAuthority *solana.PublicKey
}

type TransferAssetParams struct {
	Asset      solana.PublicKey
	Collection *solana.PublicKey
	NewOwner   solana.PublicKey
	Authority  *solana.PrivateKey
}

func validateMetadata(name, uri string) error {
	if name == "" {
		return types.NewValidationError("name", "required field is missing")
	}
	if uri == "" {
		return types.NewValidationError("uri", "required field is missing")
	}
	return nil
}

// CreateCollection creates the Core collection and records it in the program's collection info PDA.
func (c *Client) CreateCollection(ctx context.Context, p CreateCollectionParams) (solana.Signature, error) {
	if err := validateMetadata(p.Name, p.URI); err != nil {
		return solana.Signature{}, err
	}
	ix := &program.CreateCollection{
		Args: program.CreateCollectionArgs{Name: p.Name, URI: p.URI},
		Accounts: program.CreateCollectionAccounts{
			Collection:      p.Collection.PublicKey(),
			UpdateAuthority: p.UpdateAuthority,
			Payer:           c.payer.PublicKey(),
		},
	}
	return c.execute(ctx, ix, p.Collection)
}

// CreateAsset mints an asset into the collection registered with the program.
func (c *Client) CreateAsset(ctx context.Context, p CreateAssetParams) (solana.Signature, error) {
	if err := validateMetadata(p.Name, p.URI); err != nil {
		return solana.Signature{}, err
	}
	if p.Collection.IsZero() {
		return solana.Signature{}, types.NewValidationError("collection", "required field is missing")
	}
	signers := []solana.PrivateKey{p.Asset}
	var authority *solana.PublicKey
	if p.Authority != nil {
		pk := p.Authority.PublicKey()
		authority = &pk
		signers = append(signers, *p.Authority)
	}
	ix := &program.CreateAsset{
		Args: program.CreateAssetArgs{Name: p.Name, URI: p.URI},
		Accounts: program.CreateAssetAccounts{
			Asset:           p.Asset.PublicKey(),
			Authority:       authority,
			Collection:      p.Collection,
			Payer:           c.payer.PublicKey(),
			Owner:           p.Owner,
			UpdateAuthority: p.UpdateAuthority,
		},
	}
	return c.execute(ctx, ix, signers...)
}

// TransferAsset moves an asset to a new owner through the program. Collections created by the
// program carry an oracle that may reject the transfer.
func (c *Client) TransferAsset(ctx context.Context, p TransferAssetParams) (solana.Signature, error) {
	if p.NewOwner.IsZero() {
		return solana.Signature{}, types.NewValidationError("new_owner", "required field is missing")
	}
	var signers []solana.PrivateKey
	var authority *solana.PublicKey
	if p.Authority != nil {
		pk := p.Authority.PublicKey()
		authority = &pk
		signers = append(signers, *p.Authority)
	}
	ix := &program.Transfer{
		Accounts: program.TransferAccounts{
			Asset:      p.Asset,
			Collection: p.Collection,
			Payer:      c.payer.PublicKey(),
			Authority:  authority,
			NewOwner:   p.NewOwner,
		},
	}
	return c.execute(ctx, ix, signers...)
}

func (c *Client) FetchCollection(ctx context.Context, address solana.PublicKey) (*mplcore.BaseCollectionV1, error) {
	return mplcore.FetchCollection(ctx, c.rpc, address)
}

func (c *Client) FetchAsset(ctx context.Context, address solana.PublicKey) (*mplcore.BaseAssetV1, error) {
	return mplcore.FetchAsset(ctx, c.rpc, address)
}

// FetchCollectionInfo reads the program's collection info PDA.
func (c *Client) FetchCollectionInfo(ctx context.Context) (*program.CollectionInfo, error) {
	address, _, err := program.FindCollectionInfoAddress(c.programID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive collection info address: %w", err)
	}
	res, err := c.rpc.GetAccountInfo(ctx, address)
	if err != nil {
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", mplcore.ErrAccountNotFound, address)
		}
		return nil, types.NewNetworkError("getAccountInfo", err)
	}
	if res == nil || res.Value == nil || res.Value.Data == nil {
		return nil, fmt.Errorf("%w: %s", mplcore.ErrAccountNotFound, address)
	}
	if !res.Value.Owner.Equals(c.programID) {
		return nil, fmt.Errorf("%w: collection info is owned by %s", program.ErrAccountOwnedByWrongProgram, res.Value.Owner)
	}
	return program.DecodeCollectionInfo(res.Value.Data.GetBinary())
}

// ClusterVersion returns the solana-core version reported by the cluster.
func (c *Client) ClusterVersion(ctx context.Context) (string, error) {
	res, err := c.rpc.GetVersion(ctx)
	if err != nil {
		return "", types.NewNetworkError("getVersion", err)
	}
	return res.SolanaCore, nil
}
