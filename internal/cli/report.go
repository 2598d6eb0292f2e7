package cli

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/fertcalc/internal/logging"
	"github.com/rshade/fertcalc/internal/soil"
)

var (
	// ErrCalculationFailed wraps an unexpected failure inside the calculator.
	ErrCalculationFailed = errors.New("calculation failed")
	// ErrNonFiniteValue is returned when a soil test value is NaN or infinite.
	ErrNonFiniteValue = errors.New("soil test value must be a finite number")
)

// reportParams holds the parsed flags of the report command.
type reportParams struct {
	values  map[soil.Nutrient]*float64
	variety string
	output  string
	failure failureFlags
}

// nutrientFlag returns the flag name of a nutrient ("n", "zn").
func nutrientFlag(n soil.Nutrient) string {
	return strings.ToLower(string(n))
}

// NewReportCmd creates the report command, which computes the fertilizer
// requirement for one soil sample.
func NewReportCmd() *cobra.Command {
	params := &reportParams{values: make(map[soil.Nutrient]*float64)}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute fertilizer requirements for one soil sample",
		Long: `Classifies each given soil test value into its STVI class, interpolates the
nutrient requirement for the selected variety and converts it to a fertilizer
product mass. Nutrients without a flag are skipped; a value of 0 is a real
measurement.`,
		Example: `  # Nitrogen only, default variety
  fertcalc report --n 0.2

  # Several nutrients for the 5.0 t/ha HYV list, as JSON
  fertcalc report --n 0.2 --p 12 --zn 0.8 --variety hyv-5.0 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeReport(cmd, params)
		},
	}

	for _, n := range soil.Nutrients() {
		params.values[n] = cmd.Flags().Float64(nutrientFlag(n), 0,
			n.Name()+" soil test value ("+n.Unit()+")")
	}
	cmd.Flags().StringVar(&params.variety, "variety", "", "variety key or label (default from config)")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: text, table, json, ndjson")
	params.failure.register(cmd)

	return cmd
}

// collectInputs returns the nutrient values whose flags were set.
func collectInputs(cmd *cobra.Command, values map[soil.Nutrient]*float64) (soil.Inputs, error) {
	inputs := make(soil.Inputs, len(values))
	for n, v := range values {
		if !cmd.Flags().Changed(nutrientFlag(n)) {
			continue
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return nil, fmt.Errorf("%w: --%s %s", ErrNonFiniteValue, nutrientFlag(n), soil.FormatValue(*v))
		}
		inputs[n] = *v
	}
	return inputs, nil
}

func executeReport(cmd *cobra.Command, params *reportParams) error {
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

	variety := resolveVariety(cmd, params.variety)
	if _, ok := tables.Varieties.Lookup(variety); !ok {
		log.Warn().Ctx(ctx).Str("variety", variety).Str("tables", source).Msg("variety not found in tables")
	}

	inputs, err := collectInputs(cmd, params.values)
	if err != nil {
		return err
	}
	log.Debug().Ctx(ctx).
		Str("variety", variety).
		Int("input_count", len(inputs)).
		Str("output_format", format).
		Msg("building report")

	report, err := safeBuild(newReportBuilder(ctx, tables), inputs, variety)
	if err != nil {
		log.Error().Ctx(ctx).Err(err).Msg("report failed")
		return err
	}

	if err := RenderReport(cmd.OutOrStdout(), format, report); err != nil {
		return err
	}
	return params.failure.check(report.Failures())
}
