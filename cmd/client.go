package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/client"
	"github.com/solcore-labs/corecollection/codec"
	"github.com/solcore-labs/corecollection/config"
	"github.com/solcore-labs/corecollection/log"
	"github.com/solcore-labs/corecollection/metrics"
	"github.com/solcore-labs/corecollection/mplcore"
)

// clientEnv bundles the loaded config with a connected client.
type clientEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	client *client.Client
}

func newClientEnv(rpcClient client.RPCClient, payer solana.PrivateKey, cfg *config.Config) *clientEnv {
	logger := log.NewLogger(cfg)
	cc := cfg.GetClusterConfig()
	c := client.New(rpcClient, payer,
		client.WithProgramID(cc.GetProgramID()),
		client.WithCommitment(cc.GetCommitment()),
		client.WithPollInterval(cc.PollInterval),
		client.WithConfirmTimeout(cc.ConfirmTimeout),
		client.WithLogger(logger),
	)
	return &clientEnv{cfg: cfg, logger: logger, client: c}
}

// loadClientEnv connects to RPC_URL and signs with the keypair at KEYPAIR_PATH.
func loadClientEnv() (*clientEnv, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	metrics.Init(cfg.GetCluster())
	payer, err := loadKeypair(cfg.GetKeypairPath())
	if err != nil {
		return nil, err
	}
	return newClientEnv(rpc.New(cfg.GetClusterConfig().RpcUrl), payer, cfg), nil
}

func loadKeypair(path string) (solana.PrivateKey, error) {
	if path == "" {
		return nil, fmt.Errorf("keypair path is empty")
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair %s: %w", path, err)
	}
	return key, nil
}

// loadOrGenerateKeypair reads path when set and otherwise generates a fresh keypair.
func loadOrGenerateKeypair(path string) (solana.PrivateKey, error) {
	if path == "" {
		return solana.NewWallet().PrivateKey, nil
	}
	return loadKeypair(path)
}

func optionalAddress(field, value string) (*solana.PublicKey, error) {
	if value == "" {
		return nil, nil
	}
	pk, err := codec.ParseAddress(field, value)
	if err != nil {
		return nil, err
	}
	return &pk, nil
}

func addressArg(field string, args []string) (solana.PublicKey, error) {
	if len(args) != 1 {
		return solana.PublicKey{}, fmt.Errorf("expected exactly one %s argument", field)
	}
	return codec.ParseAddress(field, args[0])
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type txOutput struct {
	Signature string `json:"signature"`
	Address   string `json:"address,omitempty"`
}

type collectionOutput struct {
	Address         string `json:"address"`
	Name            string `json:"name"`
	Uri             string `json:"uri"`
	UpdateAuthority string `json:"update_authority"`
	NumMinted       uint32 `json:"num_minted"`
	CurrentSize     uint32 `json:"current_size"`
}

func toCollectionOutput(addr solana.PublicKey, c *mplcore.BaseCollectionV1) collectionOutput {
	return collectionOutput{
		Address:         addr.String(),
		Name:            c.Name,
		Uri:             c.URI,
		UpdateAuthority: c.UpdateAuthority.String(),
		NumMinted:       c.NumMinted,
		CurrentSize:     c.CurrentSize,
	}
}

type assetOutput struct {
	Address         string `json:"address"`
	Name            string `json:"name"`
	Uri             string `json:"uri"`
	Owner           string `json:"owner"`
	UpdateAuthority string `json:"update_authority"`
	Collection      string `json:"collection,omitempty"`
}

func toAssetOutput(addr solana.PublicKey, a *mplcore.BaseAssetV1) assetOutput {
	out := assetOutput{
		Address:         addr.String(),
		Name:            a.Name,
		Uri:             a.URI,
		Owner:           a.Owner.String(),
		UpdateAuthority: a.UpdateAuthority.String(),
	}
	if collection, ok := a.Collection(); ok {
		out.Collection = collection.String()
	}
	return out
}

type collectionInfoOutput struct {
	Address           string `json:"address"`
	CollectionAddress string `json:"collection_address"`
	IsCreated         bool   `json:"is_created"`
}

func withEnv(run func(ctx context.Context, cmd *cobra.Command, env *clientEnv, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		env, err := loadClientEnv()
		if err != nil {
			return err
		}
		return run(cmd.Context(), cmd, env, args)
	}
}
