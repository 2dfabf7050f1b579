// Package cmd implements Hermes's cobra-based CLI: a thin dispatcher over
// internal/service, internal/config, and internal/preflight.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hermeskg/hermes/internal/config"
	"github.com/hermeskg/hermes/internal/embed"
	"github.com/hermeskg/hermes/internal/logging"
	"github.com/hermeskg/hermes/internal/preflight"
	"github.com/hermeskg/hermes/internal/service"
	"github.com/hermeskg/hermes/pkg/version"
)

var (
	flagProjectRoot   string
	flagDBPath        string
	flagSkipPreflight bool
	flagDebug         bool
)

// NewRootCmd builds the hermes root command and every subcommand.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hermes",
		Short:   "Local knowledge-graph engine for pointer-based RAG",
		Version: version.Version,
		Long: `Hermes indexes a project into a local knowledge graph and serves
pointer-based retrieval over it: compact references (path, line range,
summary, relevance) instead of raw file content, fetched on demand.`,
	}
	cmd.SetVersionTemplate(version.String() + "\n")

	cmd.PersistentFlags().StringVar(&flagProjectRoot, "project-root", "", "project root (default: current directory)")
	cmd.PersistentFlags().StringVar(&flagDBPath, "db-path", "", "override the graph database path")
	cmd.PersistentFlags().BoolVar(&flagSkipPreflight, "skip-check", false, "skip startup preflight checks")
	cmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug-level logging")

	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newFetchCmd())
	cmd.AddCommand(newFactCmd())
	cmd.AddCommand(newFactsCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupLogger builds the process logger per the --debug flag.
func setupLogger() (*slog.Logger, func()) {
	cfg := logging.DefaultConfig()
	if flagDebug {
		cfg = logging.DebugConfig()
	}
	logger, cleanup, err := logging.Setup(cfg)
	if err != nil {
		return slog.Default(), func() {}
	}
	slog.SetDefault(logger)
	return logger, cleanup
}

// loadConfig resolves the effective configuration for this invocation,
// applying the --project-root and --db-path overrides on top of the
// layered config file/env precedence.
func loadConfig() (config.Config, error) {
	root := flagProjectRoot
	if root == "" {
		var err error
		root, err = filepath.Abs(".")
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve project root: %w", err)
		}
	} else {
		abs, err := filepath.Abs(root)
		if err != nil {
			return config.Config{}, fmt.Errorf("resolve project root: %w", err)
		}
		root = abs
	}

	cfg, err := config.Load(root)
	if err != nil {
		return cfg, err
	}
	if flagDBPath != "" {
		cfg.DBPath = flagDBPath
	}
	return cfg, nil
}

// openService runs preflight checks (unless skipped) and opens a Service
// against the effective configuration. A failed required preflight check
// aborts with a non-zero exit; a failed optional check (the embedding
// probe) only logs a warning, and the hash-based vectors are used instead
// of the configured endpoint.
func openService(ctx context.Context, cfg config.Config, logger *slog.Logger) (*service.Service, error) {
	embedProbeFailed := false
	if !flagSkipPreflight {
		report := preflight.Run(ctx, cfg.ProjectRoot, cfg.DBPath, cfg.EmbedEndpoint)
		for _, r := range report.Results {
			if r.Status == preflight.StatusPass {
				continue
			}
			if r.Name == "embed_endpoint" {
				embedProbeFailed = true
			}
			logger.Warn("preflight check", "name", r.Name, "status", r.Status.String(), "message", r.Message)
		}
		if !report.OK() {
			return nil, fmt.Errorf("preflight checks failed, rerun with --skip-check to bypass")
		}
	}

	var embedder embed.Embedder
	if cfg.EmbedEndpoint != "" && !embedProbeFailed {
		embedder = embed.NewHTTPEmbedder(cfg.EmbedEndpoint, cfg.EmbedModel, cfg.EmbedAPIKey)
	}

	return service.Open(ctx, service.Options{
		ProjectID: cfg.ProjectRoot,
		Root:      cfg.ProjectRoot,
		DBPath:    cfg.DBPath,
		Embedder:  embedder,
		Logger:    logger,
	})
}
