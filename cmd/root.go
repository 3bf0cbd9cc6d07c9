package cmd

import (
	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/config"
)

func SetVersion(version, commit string) {
	config.SetBuildInfo(version, commit)
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "corecollection",
		Short:         "Client, indexer and API for the create_core_collection program",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// client commands
	cmd.AddCommand(createCollectionCmd())
	cmd.AddCommand(createAssetCmd())
	cmd.AddCommand(transferAssetCmd())
	cmd.AddCommand(fetchCollectionCmd())
	cmd.AddCommand(fetchAssetCmd())
	cmd.AddCommand(fetchCollectionInfoCmd())
	cmd.AddCommand(scenarioCmd())

	// services
	cmd.AddCommand(indexerCmd())
	cmd.AddCommand(apiCmd())
	cmd.AddCommand(eventsCmd())
	cmd.AddCommand(migrateCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("%s (%s)\n", config.Version, config.CommitHash)
		},
	}
}
