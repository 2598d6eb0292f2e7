package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the fertcalc CLI.
// It wires up config overlays, logging and tracing, and the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "fertcalc",
		Short:         "Fertilizer requirement calculator",
		Long:          "fertcalc: classify soil test values and compute fertilizer requirements per crop variety",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyConfigOverlay(cmd); err != nil {
				return err
			}

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "YAML file overlaid on the configuration for this run")
	cmd.PersistentFlags().String("tables", "", "custom table set YAML (overrides calculator.tables_file)")
	cmd.AddCommand(
		NewReportCmd(), NewVarietiesCmd(), newTablesCmd(),
		NewBatchCmd(), newConfigCmd(),
	)

	return cmd
}

// applyConfigOverlay merges the --config file onto the global configuration.
func applyConfigOverlay(cmd *cobra.Command) error {
	overlay, _ := cmd.Flags().GetString("config")
	if overlay == "" {
		return nil
	}

	cfg := config.GetGlobalConfig()
	if err := config.ShallowMergeYAML(cfg, overlay); err != nil {
		return fmt.Errorf("applying --config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", overlay, err)
	}
	return nil
}

const rootCmdExample = `  # Compute the requirement for one soil sample
  fertcalc report --n 0.2 --p 12 --k 0.1 --s 5

  # Use a different variety and a styled table
  fertcalc report --n 0.2 --variety hyv-5.0 --output table

  # List the built-in varieties
  fertcalc varieties

  # Export the built-in tables as a starting point for a custom set
  fertcalc tables export > tables.yaml

  # Run a workbook of samples
  fertcalc batch --in samples.xlsx --out results.xlsx

  # Initialize configuration
  fertcalc config init

  # Set configuration values
  fertcalc config set output.default_format json`

// newTablesCmd creates the tables command group.
func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "tables", Short: "Inspect, export and validate calculator tables"}
	cmd.AddCommand(NewTablesShowCmd(), NewTablesExportCmd(), NewTablesValidateCmd())
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
