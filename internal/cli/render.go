package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rshade/fertcalc/internal/config"
	"github.com/rshade/fertcalc/internal/soil"
)

// printer formats quantities with thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// Report table layout.
const (
	tabPadding      = 2
	styledCellWidth = 14
	styledNoteWidth = 26
)

// reportTableHeader is the header row of the table view.
//
//nolint:gochecknoglobals // Fixed column layout.
var reportTableHeader = []string{"NUTRIENT", "VALUE", "STVI", "REQ (kg/ha)", "PRODUCT", "PRODUCT (kg/ha)", "NOTE"}

func headerColor() lipgloss.Color  { return lipgloss.Color("39") }
func borderColor() lipgloss.Color  { return lipgloss.Color("240") }
func warningColor() lipgloss.Color { return lipgloss.Color("214") }
func okColor() lipgloss.Color      { return lipgloss.Color("42") }

// isWriterTerminal reports whether w is a terminal file.
func isWriterTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isTerminal(f)
	}
	return false
}

// resultView adds the rendered line to a nutrient result for JSON output.
// Value shadows the embedded field so non-finite values encode as strings.
type resultView struct {
	soil.NutrientResult

	Value any    `json:"value"`
	Line  string `json:"line"`
}

func newResultView(res soil.NutrientResult) resultView {
	view := resultView{NutrientResult: res, Value: res.Value, Line: res.Line()}
	if math.IsNaN(res.Value) || math.IsInf(res.Value, 0) {
		view.Value = soil.FormatValue(res.Value)
	}
	return view
}

// reportView is the JSON document of a report.
type reportView struct {
	Variety string       `json:"variety"`
	Results []resultView `json:"results"`
	Text    string       `json:"text"`
}

// emptyReportView is the NDJSON record written when no input was present.
type emptyReportView struct {
	Variety string `json:"variety"`
	Message string `json:"message"`
}

func newReportView(r soil.Report) reportView {
	view := reportView{Variety: r.Variety, Results: make([]resultView, 0, len(r.Results)), Text: r.Text()}
	for _, res := range r.Results {
		view.Results = append(view.Results, newResultView(res))
	}
	return view
}

// RenderReport writes the report in the given output format.
func RenderReport(w io.Writer, format string, r soil.Report) error {
	switch format {
	case config.OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newReportView(r))
	case config.OutputFormatNDJSON:
		return renderReportNDJSON(w, r)
	case config.OutputFormatTable:
		precision := config.GetOutputPrecision()
		if isWriterTerminal(w) {
			return renderStyledReport(w, r, precision)
		}
		return renderPlainReport(w, r, precision)
	case config.OutputFormatText, "":
		_, err := fmt.Fprintln(w, r.Text())
		return err
	default:
		return fmt.Errorf("%w: got %q", config.ErrInvalidOutputFormat, format)
	}
}

func renderReportNDJSON(w io.Writer, r soil.Report) error {
	enc := json.NewEncoder(w)
	if r.IsEmpty() {
		return enc.Encode(emptyReportView{Variety: r.Variety, Message: soil.NoInputMessage})
	}
	for _, res := range r.Results {
		if err := enc.Encode(newResultView(res)); err != nil {
			return err
		}
	}
	return nil
}

// formatQuantity formats f with the given decimals and thousand separators.
// Example: formatQuantity(1234.567, 2) returns "1,234.57".
func formatQuantity(f float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return printer.Sprintf(format, f)
}

// statusNote explains a result that did not produce a product mass.
func statusNote(s soil.Status) string {
	switch s {
	case soil.StatusNoConversion:
		return "no fertilizer product data"
	case soil.StatusUnclassified:
		return "out of range or no data"
	case soil.StatusNoRecommendation:
		return "no recommendation data"
	case soil.StatusNoClassRange:
		return "no range for STVI class"
	default:
		return ""
	}
}

// reportRows flattens a report into table cells.
func reportRows(r soil.Report, precision int) [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		class := "-"
		if res.Class != nil {
			class = res.Class.String()
		}
		row := []string{string(res.Nutrient), soil.FormatValue(res.Value) + " " + res.Nutrient.Unit(), class}
		switch {
		case res.Status.Failed():
			row = append(row, "-", "-", "-")
		case res.Status == soil.StatusNoConversion:
			row = append(row, formatQuantity(res.Requirement, precision), "-", "-")
		default:
			row = append(row,
				formatQuantity(res.Requirement, precision),
				res.Product,
				formatQuantity(res.ProductMass, precision))
		}
		rows = append(rows, append(row, statusNote(res.Status)))
	}
	return rows
}

func renderPlainReport(w io.Writer, r soil.Report, precision int) error {
	if r.IsEmpty() {
		_, err := fmt.Fprintln(w, soil.NoInputMessage)
		return err
	}

	fmt.Fprintf(w, "Variety: %s\n\n", r.Variety)
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, strings.Join(reportTableHeader, "\t"))
	for _, row := range reportRows(r, precision) {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func renderStyledReport(w io.Writer, r soil.Report, precision int) error {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(headerColor())
	headerStyle := lipgloss.NewStyle().Bold(true).Width(styledCellWidth)
	cellStyle := lipgloss.NewStyle().Width(styledCellWidth)
	okStyle := cellStyle.Foreground(okColor())
	warnStyle := cellStyle.Foreground(warningColor())
	noteStyle := lipgloss.NewStyle().Width(styledNoteWidth).Foreground(warningColor())
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor()).
		Padding(0, 1)

	lines := []string{titleStyle.Render("Fertilizer Requirements: " + r.Variety), ""}
	if r.IsEmpty() {
		lines = append(lines, soil.NoInputMessage)
		_, err := fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		return err
	}

	header := make([]string, 0, len(reportTableHeader))
	for i, h := range reportTableHeader {
		if i == len(reportTableHeader)-1 {
			header = append(header, headerStyle.Width(styledNoteWidth).Render(h))
			continue
		}
		header = append(header, headerStyle.Render(h))
	}
	lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	for i, row := range reportRows(r, precision) {
		status := r.Results[i].Status
		cells := make([]string, 0, len(row))
		for j, cell := range row {
			switch {
			case j == len(row)-1:
				cells = append(cells, noteStyle.Render(cell))
			case j == 2 && status.Failed():
				cells = append(cells, warnStyle.Render(cell))
			case j == 2:
				cells = append(cells, okStyle.Render(cell))
			default:
				cells = append(cells, cellStyle.Render(cell))
			}
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	_, err := fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	return err
}
