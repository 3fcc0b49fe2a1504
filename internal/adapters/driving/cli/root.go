// Package cli is the driving adapter exposing the retrieval core on the
// command line: query, rebuild, status and watch commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/atheneum-labs/shelfsearch/internal/adapters/driven/config/file"
	"github.com/atheneum-labs/shelfsearch/internal/adapters/driven/embedding/hashing"
	"github.com/atheneum-labs/shelfsearch/internal/adapters/driven/embedding/ollama"
	"github.com/atheneum-labs/shelfsearch/internal/adapters/driven/source/catalogue"
	"github.com/atheneum-labs/shelfsearch/internal/adapters/driven/source/faqfile"
	"github.com/atheneum-labs/shelfsearch/internal/adapters/driven/storage/generation"
	"github.com/atheneum-labs/shelfsearch/internal/core/ports/driven"
	"github.com/atheneum-labs/shelfsearch/internal/core/services"
	"github.com/atheneum-labs/shelfsearch/internal/index/flat"
	"github.com/atheneum-labs/shelfsearch/internal/logger"
)

// Shared services wired in initApp and used by the commands.
var (
	cfg            *configfile.Config
	queryService   *services.QueryService
	rebuildService *services.RebuildCoordinator
)

var (
	flagConfig  string
	flagDataDir string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shelfsearch",
	Short: "Semantic retrieval for library FAQ and catalogue indexes",
	Long: `ShelfSearch builds and serves embedding-based retrieval indexes for a
library: a small FAQ index over question/answer pairs and a large
book-catalogue index. Rebuilds run in the background and promote
atomically, so queries keep serving the previous generation throughout.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.shelfsearch/config.toml)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "generation data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initApp loads configuration and wires the core services.
func initApp(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	var err error
	cfg, err = configfile.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}

	store, err := generation.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open generation store: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}

	factory := flat.NewFactory()
	registry := services.NewRegistry()
	builder := services.NewIndexBuilder(
		embedder, store, factory,
		faqfile.NewSource(cfg.Sources.FAQPath),
		catalogue.NewSource(cfg.Sources.CataloguePath),
	)

	rebuildService = services.NewRebuildCoordinator(
		builder, store, registry, factory,
		cfg.BuildTimeout(), cfg.Rebuild.RetainGenerations,
	)
	queryService = services.NewQueryService(registry, embedder, cfg.QueryTimeout())

	if err := rebuildService.Restore(cmd.Context()); err != nil {
		return fmt.Errorf("restore active generations: %w", err)
	}
	return nil
}

// newEmbedder builds the configured embedding backend.
func newEmbedder(cfg *configfile.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Backend {
	case "hashing":
		return hashing.New(cfg.Embedding.Dimensions), nil
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.OllamaURL,
			Model:      cfg.Embedding.OllamaModel,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding backend %q (want hashing or ollama)", cfg.Embedding.Backend)
	}
}
