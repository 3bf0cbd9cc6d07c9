package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/solcore-labs/corecollection/config"
)

func migrateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Generate a new database migration file",
		Long: `
Generate a new database migration file.

This command diffs the gorm models against the migration directory with Atlas.
The "gorm" environment in atlas.hcl loads the models through cmd/atlasloader.

You can configure database options via environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			dsn := cfg.GetDBConfig().DSN
			migrationDir := fmt.Sprintf("file://%s", cfg.GetDBConfig().MigrationDir)

			// #nosec G204
			rawCmd := exec.CommandContext(cmd.Context(), "atlas", "migrate", "diff",
				name,
				"--env", "gorm",
				"--dev-url", dsn,
				"--dir", migrationDir,
			)
			rawCmd.Stdout = os.Stdout
			rawCmd.Stderr = os.Stderr

			return rawCmd.Run()
		},
	}

	cmd.Flags().StringVar(&name, "name", "migration", "migration file name")

	return cmd
}
