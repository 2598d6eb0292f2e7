package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/soil"
	"github.com/rshade/fertcalc/internal/tableset"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the configuration file at ~/.fertcalc/config.yaml for syntax and semantic correctness.

This includes:
- Output format and precision
- Log format
- The custom tables file, when one is configured
- The default variety, which must exist in the active tables`,
		Example: `  # Validate current configuration
  fertcalc config validate

  # Validate and show detailed information
  fertcalc config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	tables := soil.DefaultTables()
	if cfg.Calculator.TablesFile != "" {
		loaded, err := tableset.LoadFile(cfg.Calculator.TablesFile)
		if err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
		tables = loaded
	}

	if _, ok := tables.Varieties.Lookup(cfg.Calculator.DefaultVariety); !ok {
		return fmt.Errorf("configuration validation failed: %w: default variety %q",
			soil.ErrNoVarietyData, cfg.Calculator.DefaultVariety)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Default variety: %s\n", cfg.Calculator.DefaultVariety)
	if cfg.Calculator.TablesFile != "" {
		cmd.Printf("  Tables file: %s\n", cfg.Calculator.TablesFile)
	} else {
		cmd.Println("  Tables: built-in")
	}
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
}
