package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/soil"
)

// varietyView is the JSON form of a variety listing entry.
type varietyView struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	Default   bool            `json:"default"`
	Nutrients []soil.Nutrient `json:"nutrients"`
}

// NewVarietiesCmd creates the varieties command, which lists the varieties
// of the active tables.
func NewVarietiesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "varieties",
		Short: "List crop varieties with recommendation data",
		Example: `  # List built-in varieties
  fertcalc varieties

  # List varieties of a custom table set as JSON
  fertcalc varieties --tables my-tables.yaml --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, _, err := loadTables(cmd)
			if err != nil {
				return err
			}

			defaultVariety, _ := tables.Varieties.Lookup(config.GetDefaultVariety())
			views := make([]varietyView, 0, tables.Varieties.Len())
			for _, v := range tables.Varieties.Varieties() {
				views = append(views, varietyView{
					Key:       v.Key(),
					Label:     v.Label(),
					Default:   v.Key() == defaultVariety.Key(),
					Nutrients: v.Nutrients(),
				})
			}

			switch output {
			case config.OutputFormatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			case "", config.OutputFormatText, config.OutputFormatTable:
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, tabPadding, ' ', 0)
				fmt.Fprintln(tw, "KEY\tDEFAULT\tNUTRIENTS\tLABEL")
				for _, v := range views {
					mark := ""
					if v.Default {
						mark = "*"
					}
					codes := make([]string, 0, len(v.Nutrients))
					for _, n := range v.Nutrients {
						codes = append(codes, string(n))
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Key, mark, strings.Join(codes, ","), strings.ReplaceAll(v.Label, "\n", " "))
				}
				return tw.Flush()
			default:
				return fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: text or json")
	return cmd
}
