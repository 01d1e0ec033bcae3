package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/spf13/cobra"
)

var catalogStatsCmd = &cobra.Command{
	Use:   "catalog-stats",
	Short: "Show card catalog statistics",
	Long:  `Display the number of printings and distinct card names in the catalog.`,
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

		printings, err := repo.Count(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count cards: %w", err)
		}
		names, err := repo.CountNames(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to count card names: %w", err)
		}

		fmt.Println("Catalog Statistics:")
		fmt.Printf("Driver: %s\n", cfg.Catalog.Driver)
		if cfg.Catalog.Language != "" {
			fmt.Printf("Language: %s\n", cfg.Catalog.Language)
		}
		fmt.Printf("Printings: %s\n", humanize.Comma(printings))
		fmt.Printf("Distinct Cards: %s\n", humanize.Comma(names))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogStatsCmd)
}
