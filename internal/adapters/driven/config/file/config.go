// Package file provides TOML-backed configuration for ShelfSearch.
// A missing config file is not an error: every field has a usable
// default, and CLI flags override file values.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultQueryTimeoutSeconds = 5
	DefaultBuildTimeoutMinutes = 30
	DefaultRebuildIntervalMin  = 0 // disabled
	DefaultRetainGenerations   = 1
	DefaultEmbeddingBackend    = "hashing"
	DefaultEmbeddingDimensions = 384
)

// Config is the full ShelfSearch configuration.
type Config struct {
	// DataDir holds generation artifacts. Defaults to
	// ~/.shelfsearch/data.
	DataDir string `toml:"data_dir"`

	Sources   SourcesConfig   `toml:"sources"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Query     QueryConfig     `toml:"query"`
	Rebuild   RebuildConfig   `toml:"rebuild"`
}

// SourcesConfig locates the upstream record sources.
type SourcesConfig struct {
	// FAQPath is the general-queries JSON file.
	FAQPath string `toml:"faq_path"`

	// CataloguePath is the catalogue SQLite database.
	CataloguePath string `toml:"catalogue_path"`
}

// EmbeddingConfig selects and tunes the embedding backend.
type EmbeddingConfig struct {
	// Backend is "hashing" (default, offline) or "ollama".
	Backend string `toml:"backend"`

	// Dimensions is the embedding vector length.
	Dimensions int `toml:"dimensions"`

	// OllamaURL and OllamaModel configure the ollama backend.
	OllamaURL   string `toml:"ollama_url"`
	OllamaModel string `toml:"ollama_model"`
}

// QueryConfig tunes the query path.
type QueryConfig struct {
	// TimeoutSeconds bounds one query's embed + search path.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// RebuildConfig tunes the rebuild path.
type RebuildConfig struct {
	// BuildTimeoutMinutes bounds one build's wall clock. Zero disables
	// the bound.
	BuildTimeoutMinutes int `toml:"build_timeout_minutes"`

	// IntervalMinutes enables periodic background rebuilds when
	// positive.
	IntervalMinutes int `toml:"interval_minutes"`

	// RetainGenerations is how many superseded generations survive a
	// prune.
	RetainGenerations int `toml:"retain_generations"`
}

// QueryTimeout returns the query budget as a duration.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Query.TimeoutSeconds) * time.Second
}

// BuildTimeout returns the build budget as a duration.
func (c *Config) BuildTimeout() time.Duration {
	return time.Duration(c.Rebuild.BuildTimeoutMinutes) * time.Minute
}

// RebuildInterval returns the scheduler interval, zero when disabled.
func (c *Config) RebuildInterval() time.Duration {
	return time.Duration(c.Rebuild.IntervalMinutes) * time.Minute
}

// Load reads the config file at path, falling back to
// ~/.shelfsearch/config.toml when path is empty. A missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".shelfsearch", "config.toml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyFloors(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Sources: SourcesConfig{
			FAQPath:       "general_queries.json",
			CataloguePath: "catalogue.db",
		},
		Embedding: EmbeddingConfig{
			Backend:    DefaultEmbeddingBackend,
			Dimensions: DefaultEmbeddingDimensions,
		},
		Query: QueryConfig{
			TimeoutSeconds: DefaultQueryTimeoutSeconds,
		},
		Rebuild: RebuildConfig{
			BuildTimeoutMinutes: DefaultBuildTimeoutMinutes,
			IntervalMinutes:     DefaultRebuildIntervalMin,
			RetainGenerations:   DefaultRetainGenerations,
		},
	}
}

// applyFloors restores defaults for values a config file zeroed or set
// to nonsense.
func applyFloors(cfg *Config) {
	if cfg.Embedding.Backend == "" {
		cfg.Embedding.Backend = DefaultEmbeddingBackend
	}
	if cfg.Embedding.Dimensions <= 0 {
		cfg.Embedding.Dimensions = DefaultEmbeddingDimensions
	}
	if cfg.Query.TimeoutSeconds <= 0 {
		cfg.Query.TimeoutSeconds = DefaultQueryTimeoutSeconds
	}
	if cfg.Rebuild.RetainGenerations < 0 {
		cfg.Rebuild.RetainGenerations = DefaultRetainGenerations
	}
}
