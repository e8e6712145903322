// Package main is the entry point for the papersearch CLI. It runs federated
// searches in-process with the same configuration as the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/helixir/paper-search-service/internal/config"
	"github.com/helixir/paper-search-service/internal/observability"
	"github.com/helixir/paper-search-service/internal/papersources"
	"github.com/helixir/paper-search-service/internal/search"
)

// version is set at build time via ldflags.
var version = "dev"

// app holds the dependencies shared by the subcommands. It is populated by
// the root command before any subcommand runs.
type app struct {
	cfg         *config.Config
	logger      zerolog.Logger
	registry    *papersources.Registry
	coordinator *search.Coordinator
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "papersearch",
		Short: "Search arXiv, Semantic Scholar, Crossref and PubMed from the terminal",
		Long: `papersearch fans a query out to several academic databases, merges the
results and ranks them by year and citation count.

Configuration is read from the same PAPERSEARCH_* environment variables and
config.yaml as the HTTP server. Logs go to stderr; results go to stdout.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, _ := cmd.Flags().GetString("log-level")
			return a.setup(cmd, level)
		},
	}
	root.PersistentFlags().String("log-level", "warn", "log level written to stderr (trace, debug, info, warn, error)")

	root.AddCommand(
		newSearchCmd(a),
		newSourcesCmd(a),
		newResolveCmd(),
	)
	return root
}

// setup loads configuration and builds the search stack.
func (a *app) setup(cmd *cobra.Command, level string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Format = "console"
	if level != "" {
		logCfg.Level = strings.ToLower(level)
	}
	a.cfg = cfg
	a.logger = observability.NewLoggerWithWriter(logCfg, cmd.ErrOrStderr()).
		With().Str("component", "cli").Logger()
	a.registry = papersources.NewRegistry(cfg.PaperSources.CatalogEntries())
	a.coordinator = search.NewCoordinator(
		cfg.CoordinatorConfig(),
		a.registry,
		papersources.NewRateLimits(cfg.PaperSources.RateLimits()...),
		nil,
		a.logger,
	)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
