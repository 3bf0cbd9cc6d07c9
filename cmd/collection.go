package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/client"
	"github.com/solcore-labs/corecollection/program"
)

func createCollectionCmd() *cobra.Command {
	var name, uri, updateAuthority, collectionKeypair string

	cmd := &cobra.Command{
		Use:   "create-collection",
		Short: "Create a Core collection through the program",
		Long: `
Create a Core collection through the program.

The payer is read from KEYPAIR_PATH. Without --collection-keypair a fresh collection
key is generated and its address printed.`,
		Args: cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, env *clientEnv, _ []string) error {
			collection, err := loadOrGenerateKeypair(collectionKeypair)
			if err != nil {
				return err
			}
			authority, err := optionalAddress("update-authority", updateAuthority)
			if err != nil {
				return err
			}

			sig, err := env.client.CreateCollection(ctx, client.CreateCollectionParams{
				Collection:      collection,
				Name:            name,
				URI:             uri,
				UpdateAuthority: authority,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd, txOutput{Signature: sig.String(), Address: collection.PublicKey().String()})
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "collection name")
	cmd.Flags().StringVar(&uri, "uri", "", "collection metadata uri")
	cmd.Flags().StringVar(&updateAuthority, "update-authority", "", "update authority address, defaults to the payer")
	cmd.Flags().StringVar(&collectionKeypair, "collection-keypair", "", "keypair file of the new collection")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func fetchCollectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-collection <address>",
		Short: "Print a Core collection account",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, env *clientEnv, args []string) error {
			addr, err := addressArg("address", args)
			if err != nil {
				return err
			}
			collection, err := env.client.FetchCollection(ctx, addr)
			if err != nil {
				return err
			}
			return printJSON(cmd, toCollectionOutput(addr, collection))
		}),
	}
}

func fetchCollectionInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-collection-info",
		Short: "Print the program's collection info account",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(ctx context.Context, cmd *cobra.Command, env *clientEnv, _ []string) error {
			info, err := env.client.FetchCollectionInfo(ctx)
			if err != nil {
				return err
			}
			addr, _, err := program.FindCollectionInfoAddress(env.client.ProgramID())
			if err != nil {
				return err
			}
			return printJSON(cmd, collectionInfoOutput{
				Address:           addr.String(),
				CollectionAddress: info.CollectionAddress.String(),
				IsCreated:         info.IsCreated,
			})
		}),
	}
}
