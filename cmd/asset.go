package cmd

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/client"
	"github.com/solcore-labs/corecollection/codec"
)

func createAssetCmd() *cobra.Command {
	var collection, name, uri, owner, updateAuthority, authorityKeypair, assetKeypair string

	cmd := &cobra.Command{
		Use:   "create-asset",
		Short: "Create a Core asset inside a collection",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, env *clientEnv, _ []string) error {
			collectionPK, err := codec.ParseAddress("collection", collection)
			if err != nil {
				return err
			}
			asset, err := loadOrGenerateKeypair(assetKeypair)
			if err != nil {
				return err
			}
			ownerPK, err := optionalAddress("owner", owner)
			if err != nil {
				return err
			}
			updateAuthorityPK, err := optionalAddress("update-authority", updateAuthority)
			if err != nil {
				return err
			}
			var authority *solana.PrivateKey
			if authorityKeypair != "" {
				key, err := loadKeypair(authorityKeypair)
				if err != nil {
					return err
				}
				authority = &key
			}

			sig, err := env.client.CreateAsset(ctx, client.CreateAssetParams{
				Asset:           asset,
				Collection:      collectionPK,
				Name:            name,
				URI:             uri,
				Authority:       authority,
				Owner:           ownerPK,
				UpdateAuthority: updateAuthorityPK,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, txOutput{Signature: sig.String(), Address: asset.PublicKey().String()})
		}),
	}

	cmd.Flags().StringVar(&collection, "collection", "", "collection address")
	cmd.Flags().StringVar(&name, "name", "", "asset name")
	cmd.Flags().StringVar(&uri, "uri", "", "asset metadata uri")
	cmd.Flags().StringVar(&owner, "owner", "", "owner address, defaults to the payer")
	cmd.Flags().StringVar(&updateAuthority, "update-authority", "", "update authority address")
	cmd.Flags().StringVar(&authorityKeypair, "authority-keypair", "", "keypair file of the collection authority, defaults to the payer")
	cmd.Flags().StringVar(&assetKeypair, "asset-keypair", "", "keypair file of the new asset")
	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func transferAssetCmd() *cobra.Command {
	var asset, newOwner, collection, authorityKeypair string

	cmd := &cobra.Command{
		Use:   "transfer-asset",
		Short: "Transfer a Core asset to a new owner",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, env *clientEnv, _ []string) error {
			assetPK, err := codec.ParseAddress("asset", asset)
			if err != nil {
				return err
			}
			newOwnerPK, err := codec.ParseAddress("new-owner", newOwner)
			if err != nil {
				return err
			}
			collectionPK, err := optionalAddress("collection", collection)
			if err != nil {
				return err
			}
			var authority *solana.PrivateKey
			if authorityKeypair != "" {
				key, err := loadKeypair(authorityKeypair)
				if err != nil {
					return err
				}
				authority = &key
			}

			sig, err := env.client.TransferAsset(ctx, client.TransferAssetParams{
				Asset:      assetPK,
				Collection: collectionPK,
				NewOwner:   newOwnerPK,
				Authority:  authority,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, txOutput{Signature: sig.String()})
		}),
	}

	cmd.Flags().StringVar(&asset, "asset", "", "asset address")
	cmd.Flags().StringVar(&newOwner, "new-owner", "", "address of the new owner")
	cmd.Flags().StringVar(&collection, "collection", "", "collection the asset belongs to")
	cmd.Flags().StringVar(&authorityKeypair, "authority-keypair", "", "keypair file of the current owner, defaults to the payer")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("new-owner")

	return cmd
}

func fetchAssetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-asset <address>",
		Short: "Print a Core asset account",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, env *clientEnv, args []string) error {
			addr, err := addressArg("address", args)
			if err != nil {
				return err
			}
			asset, err := env.client.FetchAsset(ctx, addr)
			if err != nil {
				return err
			}
			return printJSON(cmd, toAssetOutput(addr, asset))
		}),
	}
}
