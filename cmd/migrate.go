package cmd

import (
	"fmt"

	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run catalog database migrations",
	Long:  `Create or update the cards table of the catalog database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		repo, err := catalog.Open(cfg.Catalog)
		if err != nil {
			return fmt.Errorf("failed to initialize catalog database: %w", err)
		}
		defer repo.Close() //nolint: errcheck

		fmt.Println("Catalog migrations completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
