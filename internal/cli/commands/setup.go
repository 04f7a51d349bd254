package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/TroyWilliams3687/md-tools/internal/cli/config"
	"github.com/TroyWilliams3687/md-tools/internal/cli/output"
	"github.com/TroyWilliams3687/md-tools/internal/state"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    state.IndexStore
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with an open index store and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Store:    store,
		Renderer: r,
	}, cleanup, nil
}

// NewCommandContextWithoutStore creates a CommandContext without an index store.
// Useful for commands that don't touch the document index.
func NewCommandContextWithoutStore(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	docsRoot := getEnvOrDefault("MDTOOLS_DOCS_ROOT", config.DefaultDocsRoot)
	indexPath := getEnvOrDefault("MDTOOLS_INDEX_PATH", config.DefaultIndexFile)
	verbose := os.Getenv("MDTOOLS_VERBOSE") == "true"
	outputFormat := os.Getenv("MDTOOLS_OUTPUT")

	return &config.Config{
		DocsRoot:     docsRoot,
		IndexPath:    indexPath,
		Verbose:      verbose,
		OutputFormat: outputFormat,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// openStore opens and migrates the SQLite index store.
func openStore(cfg *config.Config) (state.IndexStore, error) {
	if cfg.IndexPath != ":memory:" {
		indexDir := filepath.Dir(cfg.IndexPath)
		if indexDir != "." && indexDir != "" {
			if err := os.MkdirAll(indexDir, 0750); err != nil {
				return nil, err
			}
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(cfg.IndexPath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
