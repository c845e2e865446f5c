package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/tsawler/scenery/config"
	"github.com/tsawler/scenery/internal/logging"
	"github.com/tsawler/scenery/internal/metrics"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "scenery",
	Short: "Scenery - stage placement extractor",
	Long: `Scenery reads object placements out of stage documents (BYML dumped to
XML) and placement manifests (JSON), converts them to the importer's
coordinate convention and writes one record per placed object.

Configuration comes from an optional YAML file (--config) overlaid with
SCENERY_* environment variables. Command flags override both.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: defaults plus environment)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every skipped and excluded object")
}

// runEnv is the state shared by one command invocation.
type runEnv struct {
	ctx     context.Context
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	out     io.Writer
}

// setup loads configuration and builds the logger and metrics for a
// command. cmd may be nil in tests.
func setup(cmd *cobra.Command) (*runEnv, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.VerboseLogging = true
	}

	ctx := context.Background()
	var out, errOut io.Writer = os.Stdout, os.Stderr
	if cmd != nil {
		if c := cmd.Context(); c != nil {
			ctx = c
		}
		out, errOut = cmd.OutOrStdout(), cmd.ErrOrStderr()
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Format: cfg.Log.Format,
		Writer: errOut,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	ctx, logger = logging.ForRun(ctx, logger)

	return &runEnv{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.NewCollector(nil),
		out:     out,
	}, nil
}

// finish writes the metrics textfile if one is configured.
func (e *runEnv) finish() {
	if err := e.metrics.WriteTextfile(e.cfg.MetricsFile); err != nil {
		e.logger.Error("Failed to write metrics", "path", e.cfg.MetricsFile, "error", err)
	}
}
