package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/fertcalc/internal/batch"
	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/logging"
)

// batchParams holds the flags of the batch command.
type batchParams struct {
	in      string
	out     string
	variety string
	output  string
	failure failureFlags
}

// NewBatchCmd creates the batch command, which runs a workbook of soil
// samples through the calculator.
func NewBatchCmd() *cobra.Command {
	params := &batchParams{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compute requirements for every sample in a workbook",
		Long: `Reads the first sheet of an .xlsx workbook whose header row names the
columns sample, variety and any of N, P, K, S, Zn, B. Blank nutrient cells are
skipped; a blank variety uses --variety or the configured default. One row per
nutrient result is written to the Results sheet of the output workbook.`,
		Example: `  fertcalc batch --in samples.xlsx --out results.xlsx

  # Print the run summary as JSON
  fertcalc batch --in samples.xlsx --out results.xlsx --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeBatch(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.in, "in", "", "input workbook (.xlsx)")
	cmd.Flags().StringVar(&params.out, "out", "", "output workbook (.xlsx)")
	cmd.Flags().StringVar(&params.variety, "variety", "", "variety for rows without one (default from config)")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "summary format: text or json")
	params.failure.register(cmd)
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func executeBatch(cmd *cobra.Command, params *batchParams) (err error) {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := resolveOutputFormat(cmd, params.output)
	if err != nil {
		return err
	}

	tables, source, err := loadTables(cmd)
	if err != nil {
		return err
	}

	in, err := os.Open(params.in)
	if err != nil {
		return fmt.Errorf("opening input workbook: %w", err)
	}
	defer in.Close()

	samples, err := batch.ReadSamples(in)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Str("input", params.in).Msg("failed to read samples")
		return fmt.Errorf("reading %s: %w", params.in, err)
	}

	runID := batch.NewRunID()
	variety := resolveVariety(cmd, params.variety)
	log.Info().Ctx(ctx).
		Str("run_id", runID).
		Int("sample_count", len(samples)).
		Str("tables", source).
		Str("default_variety", variety).
		Msg("batch run started")

	results, err := safeRun(newReportBuilder(ctx, tables), samples, variety)
	if err != nil {
		return err
	}
	summary := batch.Summarize(runID, results)

	out, err := os.Create(params.out)
	if err != nil {
		return fmt.Errorf("creating output workbook: %w", err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()
	if err := batch.WriteResults(out, summary, results); err != nil {
		return err
	}

	log.Info().Ctx(ctx).
		Str("run_id", runID).
		Int("results", summary.Results).
		Int("failures", summary.Failures).
		Msg("batch run finished")

	if err := renderBatchSummary(cmd, format, params.out, summary); err != nil {
		return err
	}
	return params.failure.check(summary.Failures)
}

func renderBatchSummary(cmd *cobra.Command, format, outPath string, summary batch.Summary) error {
	switch format {
	case config.OutputFormatJSON, config.OutputFormatNDJSON:
		return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
	case "", config.OutputFormatText, config.OutputFormatTable:
		cmd.Printf("Run %s\n", summary.RunID)
		cmd.Printf("  Samples: %d (%d without inputs)\n", summary.Samples, summary.Empty)
		cmd.Printf("  Nutrient results: %d (%d failed)\n", summary.Results, summary.Failures)
		cmd.Printf("  Written to %s\n", outPath)
		return nil
	default:
		return fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, format)
	}
}
