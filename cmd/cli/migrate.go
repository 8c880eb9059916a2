package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
)

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation and updates
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update the creators table.",
	Long: `This command connects to the configured record store and creates the
'creators' table. SQLite uses GORM automatic migrations, PostgreSQL runs the
table DDL, and a hosted PostgREST project is left untouched since its schema
is managed by the provider.`,
	RunE: func(c *cobra.Command, args []string) error {
		backend, err := openStore(c.Context())
		if err != nil {
			return err
		}
		defer backend.Close() // Ensure connection is closed when function exits

		if err := backend.Migrate(c.Context()); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		cmd.Logger.Debug().Str("driver", cmd.Cfg.Store.Driver).Msg("migration done")
		fmt.Fprintln(c.OutOrStdout(), "Database migrations executed successfully.")
		return nil
	},
}

func init() {
	// Register this command with the root command so it can be executed via CLI
	cmd.RootCmd.AddCommand(MigrateCmd)
}
