package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/decksmith/internal/api"
	"github.com/jon4hz/decksmith/internal/auth"
	"github.com/jon4hz/decksmith/internal/catalog"
	"github.com/jon4hz/decksmith/internal/config"
	"github.com/jon4hz/decksmith/internal/deck"
	"github.com/jon4hz/decksmith/internal/scheduler"
	"github.com/jon4hz/decksmith/internal/session"
	"github.com/jon4hz/decksmith/internal/storage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the decksmith server",
	Long:  `Start the decksmith server. The card catalog cache is refreshed in the background.`,
	Example: `decksmith serve --config config.yml
decksmith serve -c /path/to/config.yml --log-level debug
`,
	RunE: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	repo, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer repo.Close() //nolint:errcheck

	cached := catalog.NewCached(repo, cfg.Cache)

	store, err := storage.NewFileStore(afero.NewOsFs(), cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open data dir: %w", err)
	}

	svc := session.NewService(store, auth.NewHasher(cfg.Auth), deck.New(store, cached))

	server, err := api.New(cfg, svc, cached)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}

	sched, err := scheduler.New()
	if err != nil {
		return err
	}
	if cfg.Catalog.RefreshSchedule != "" {
		if err := sched.AddCatalogRefresh(cfg.Catalog.RefreshSchedule, cached); err != nil {
			return err
		}
	} else if err := cached.Warm(cmd.Context()); err != nil {
		log.Warn("Failed to warm catalog cache", "error", err)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error { return server.Run(ctx) })
	g.Go(func() error { return sched.Run(ctx) })

	log.Info("decksmith started successfully", "listen", cfg.Listen)
	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("decksmith stopped")
	return nil
}
