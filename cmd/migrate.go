package cmd

import (
	"fmt"

	"planner-server/repositories"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Long: `Create or upgrade the database schema and exit. The gorm backend uses
AutoMigrate; the sql backend applies the embedded goose migrations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := repositories.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "schema is up to date (%s backend)\n", cfg.DBBackend)
			return nil
		},
	}
}
