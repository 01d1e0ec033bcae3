package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import-cards FILE",
	Short: "Import cards from an MTGJSON file",
	Long: `Import cards into the catalog database.

FILE may be an AllPrintings dump, a single set file or a plain JSON array of cards.
Printings that are already in the catalog are skipped.`,
	Example: `decksmith import-cards AllPrintings.json`,
	Args:    cobra.ExactArgs(1),
	RunE:    importCards,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func importCards(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open card file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	cards, err := catalog.ParseSource(f)
	if err != nil {
		return err
	}

	repo, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog database: %w", err)
	}
	defer repo.Close() //nolint:errcheck

	result, err := repo.Import(cmd.Context(), cards)
	if err != nil {
		return err
	}

	fmt.Printf("Read %s cards, inserted %s, skipped %s\n",
		humanize.Comma(int64(result.Read)),
		humanize.Comma(result.Inserted),
		humanize.Comma(int64(result.Skipped)),
	)
	return nil
}
