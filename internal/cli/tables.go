package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/fertcalc/internal/soil"
	"github.com/rshade/fertcalc/internal/tableset"
)

// NewTablesShowCmd creates the tables show command.
func NewTablesShowCmd() *cobra.Command {
	var (
		nutrient string
		variety  string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show STVI class bands, recommended ranges and conversions",
		Example: `  # Show every threshold band
  fertcalc tables show

  # Show nitrogen bands with the recommended ranges of a variety
  fertcalc tables show --nutrient N --variety hyv-4.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, source, err := loadTables(cmd)
			if err != nil {
				return err
			}

			nutrients := tables.Thresholds.Nutrients()
			if nutrient != "" {
				n, err := soil.ParseNutrient(nutrient)
				if err != nil {
					return err
				}
				nutrients = []soil.Nutrient{n}
			}

			var v *soil.Variety
			if cmd.Flags().Changed("variety") {
				found, ok := tables.Varieties.Lookup(variety)
				if !ok {
					return fmt.Errorf("%w: %s", soil.ErrNoVarietyData, variety)
				}
				v = &found
			}

			return renderTables(cmd.OutOrStdout(), tables, source, nutrients, v)
		},
	}

	cmd.Flags().StringVar(&nutrient, "nutrient", "", "limit output to one nutrient")
	cmd.Flags().StringVar(&variety, "variety", "", "include the recommended ranges of this variety")
	return cmd
}

func renderTables(w io.Writer, tables soil.Tables, source string, nutrients []soil.Nutrient, v *soil.Variety) error {
	fmt.Fprintf(w, "Tables: %s\n\n", source)

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if v != nil {
		fmt.Fprintf(tw, "NUTRIENT\tUNIT\tSTVI\tLOW\tHIGH\tREC kg/ha (%s)\n", v.Key())
	} else {
		fmt.Fprintln(tw, "NUTRIENT\tUNIT\tSTVI\tLOW\tHIGH")
	}
	for _, n := range nutrients {
		for _, band := range tables.Thresholds.Bands(n) {
			line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
				n, n.Unit(), band.Class, soil.FormatValue(band.Range.Lo), soil.FormatValue(band.Range.Hi))
			if v != nil {
				rec := "-"
				if r, err := v.Recommendation(n, band.Class); err == nil {
					rec = soil.FormatValue(r.Lo) + "-" + soil.FormatValue(r.Hi)
				}
				line += "\t" + rec
			}
			fmt.Fprintln(tw, line)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "NUTRIENT\tPRODUCT\tRATIO")
	for _, n := range tables.Conversions.Nutrients() {
		c, _ := tables.Conversions.Lookup(n)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", n, c.Product, soil.FormatValue(c.Ratio))
	}
	return tw.Flush()
}

// NewTablesExportCmd creates the tables export command.
func NewTablesExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active tables as a YAML table set",
		Example: `  # Export the built-in tables to edit them
  fertcalc tables export --out my-tables.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, _, err := loadTables(cmd)
			if err != nil {
				return err
			}

			if out == "" {
				return tableset.Encode(cmd.OutOrStdout(), tables)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			defer f.Close()
			if err := tableset.Encode(f, tables); err != nil {
				return err
			}
			cmd.Printf("Tables written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}

// NewTablesValidateCmd creates the tables validate command.
func NewTablesValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a YAML table set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables, err := tableset.LoadFile(args[0])
			if err != nil {
				cmd.Printf("❌ Tables file is invalid: %v\n", err)
				return err
			}
			cmd.Printf("✅ Tables file is valid\n")
			cmd.Printf("   Threshold nutrients: %d\n", len(tables.Thresholds.Nutrients()))
			cmd.Printf("   Varieties: %d\n", tables.Varieties.Len())
			cmd.Printf("   Conversions: %d\n", len(tables.Conversions.Nutrients()))
			return nil
		},
	}
}
