// =============================================================================
// SDMX Catalog Flattener - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI.
//
// COBRA CLI STRUCTURE:
//   rootCmd (sdmx-flatten)
//   ├── flattenCmd  (sdmx-flatten flatten)
//   ├── validateCmd (sdmx-flatten validate)
//   └── versionCmd  (sdmx-flatten version)
//
// Running the root command without a subcommand flattens the catalog with
// the configured (or default) paths, so the tool can be invoked bare.
//
// The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Loading the configuration
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/config"
	"github.com/ginjaninja78/sdmx-catalog-flattener/internal/converter"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging regardless of log_level.
var verbose bool

// cfg is the configuration loaded before any command runs.
var cfg *config.Config

// logger is built from cfg before any command runs.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "sdmx-flatten",
	Short: "SDMX Catalog Flattener - Flatten an SDMX catalog document into a table",
	Long: `SDMX Catalog Flattener reads the relaxed JSON catalog document that describes
SDMX data sources and writes one row per catalog item to a CSV (or XLSX) file.

Each row carries the group name, the item name and id, the LGA and state
flags, the single-valued dimensions, the sex and age dimensions and the
region dimension of the item.

Example Usage:
  sdmx-flatten                          # Flatten with config.yaml or the defaults
  sdmx-flatten flatten --format xlsx    # Write an XLSX workbook instead
  sdmx-flatten validate                 # Check the catalog without writing`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsConfig(cmd) {
			return nil
		}

		loaded, err := config.LoadConfig(cfgFile, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runFlatten(cmd, converter.RunOptions{})
	},
}

// needsConfig reports whether cmd runs the pipeline. Version, help and shell
// completion must work even when config.yaml is broken.
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// newLogger builds the production logger at the configured level.
func newLogger(level string, verbose bool) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()

	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zapConfig.Level = atomic
	if verbose {
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return zapConfig.Build()
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main(). An interrupt
// cancels the run between pipeline steps.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config flag: A missing default file means built-in defaults; a
	// missing file named with --config is an error.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
