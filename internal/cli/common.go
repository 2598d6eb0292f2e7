package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/fertcalc/internal/batch"
	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/logging"
	"github.com/rshade/fertcalc/internal/soil"
	"github.com/rshade/fertcalc/internal/tableset"
)

// builtinTablesSource names the compiled-in tables in logs and output.
const builtinTablesSource = "built-in"

// resolveTablesFile returns the custom tables file selected by --tables or
// the configuration, or "" for the built-in tables.
func resolveTablesFile(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("tables"); path != "" {
		return path
	}
	return config.GetTablesFile()
}

// loadTables loads the tables for this invocation and returns them with a
// description of their source.
func loadTables(cmd *cobra.Command) (soil.Tables, string, error) {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	path := resolveTablesFile(cmd)
	if path == "" {
		return soil.DefaultTables(), builtinTablesSource, nil
	}

	tables, err := tableset.LoadFile(path)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("tables_file", path).Msg("failed to load tables")
		return soil.Tables{}, "", fmt.Errorf("loading tables: %w", err)
	}
	log.Debug().Ctx(ctx).
		Str("tables_file", path).
		Int("variety_count", tables.Varieties.Len()).
		Msg("custom tables loaded")
	return tables, path, nil
}

// newReportBuilder builds a report builder over tables logging through ctx.
func newReportBuilder(ctx context.Context, tables soil.Tables) *soil.ReportBuilder {
	log := logging.ComponentLogger(logging.FromContext(ctx), "soil")
	return soil.NewReportBuilderFromTables(tables, soil.WithLogger(log))
}

// resolveVariety returns the --variety flag when set, otherwise the
// configured default.
func resolveVariety(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("variety") && flagValue != "" {
		return flagValue
	}
	return config.GetDefaultVariety()
}

// resolveOutputFormat returns the --output flag when set, otherwise the
// configured default, and rejects unknown formats.
func resolveOutputFormat(cmd *cobra.Command, flagValue string) (string, error) {
	format := config.GetDefaultOutputFormat()
	if cmd.Flags().Changed("output") {
		format = flagValue
	}
	if !config.IsValidOutputFormat(format) {
		return "", fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, format)
	}
	return format, nil
}

// safeBuild runs the calculation and turns a panic into an error so a single
// bad table never crashes the command.
func safeBuild(builder *soil.ReportBuilder, inputs soil.Inputs, variety string) (report soil.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCalculationFailed, r)
		}
	}()
	return builder.Build(inputs, variety), nil
}

// safeRun is safeBuild for a batch of samples.
func safeRun(builder *soil.ReportBuilder, samples []batch.Sample, variety string) (results []batch.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCalculationFailed, r)
		}
	}()
	return batch.Run(builder, samples, variety), nil
}
