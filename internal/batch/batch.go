// Package batch runs the calculator over a workbook of soil samples and
// writes the per-nutrient results back to a workbook.
package batch

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/xuri/excelize/v2"

	"github.com/rshade/fertcalc/internal/soil"
)

// Sheet names of the results workbook.
const (
	ResultsSheet = "Results"
	SummarySheet = "Summary"
)

// Column names recognized in the sample header row, besides the nutrients.
const (
	ColumnSample  = "sample"
	ColumnVariety = "variety"
)

var (
	// ErrEmptyWorkbook indicates a workbook without a header row.
	ErrEmptyWorkbook = errors.New("workbook has no header row")
	// ErrNoNutrientColumns indicates a header row without any nutrient column.
	ErrNoNutrientColumns = errors.New("header row has no nutrient columns")
	// ErrInvalidCell indicates a nutrient cell that is not a number.
	ErrInvalidCell = errors.New("invalid soil test value")
)

// resultHeader is the header row of the results sheet.
//
//nolint:gochecknoglobals // Fixed column layout.
var resultHeader = []interface{}{
	"sample", "variety", "nutrient", "value", "stvi_class", "status",
	"requirement_kg_ha", "product", "product_kg_ha", "line",
}

// Sample is one row of the input workbook.
type Sample struct {
	Row     int
	ID      string
	Variety string
	Inputs  soil.Inputs
}

// Result pairs a sample with its report.
type Result struct {
	Sample Sample
	Report soil.Report
}

// Summary describes a finished run.
type Summary struct {
	RunID    string `json:"run_id"`
	Samples  int    `json:"samples"`
	Results  int    `json:"results"`
	Failures int    `json:"failures"`
	Empty    int    `json:"empty"`
}

// NewRunID returns a sortable identifier for a batch run.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
}

// ReadSamples reads the first sheet of the workbook in r. The first row is a
// header; columns are matched case-insensitively to "sample", "variety" and
// the nutrient codes or names. Blank nutrient cells are absent inputs and
// rows with no cells at all are skipped.
func ReadSamples(r io.Reader) ([]Sample, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyWorkbook
	}

	cols, err := parseHeader(rows[0])
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}
		sample, err := cols.toSample(row, rowNum)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	return samples, nil
}

type columns struct {
	sample    int
	variety   int
	nutrients map[soil.Nutrient]int
}

func parseHeader(header []string) (columns, error) {
	cols := columns{sample: -1, variety: -1, nutrients: make(map[soil.Nutrient]int)}
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		switch name {
		case "":
			continue
		case ColumnSample:
			cols.sample = i
		case ColumnVariety:
			cols.variety = i
		default:
			if n, err := soil.ParseNutrient(name); err == nil {
				cols.nutrients[n] = i
			}
		}
	}
	if len(cols.nutrients) == 0 {
		return columns{}, ErrNoNutrientColumns
	}
	return cols, nil
}

func (c columns) toSample(row []string, rowNum int) (Sample, error) {
	s := Sample{
		Row:     rowNum,
		ID:      cellAt(row, c.sample),
		Variety: cellAt(row, c.variety),
		Inputs:  make(soil.Inputs, len(c.nutrients)),
	}
	if s.ID == "" {
		s.ID = "row " + strconv.Itoa(rowNum)
	}
	for n, idx := range c.nutrients {
		raw := cellAt(row, idx)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			axis, _ := excelize.CoordinatesToCellName(idx+1, rowNum)
			return Sample{}, fmt.Errorf("%w: %s at %s: %q", ErrInvalidCell, n, axis, raw)
		}
		s.Inputs[n] = v
	}
	return s, nil
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Run builds a report for every sample. Samples without a variety use
// defaultVariety.
func Run(builder *soil.ReportBuilder, samples []Sample, defaultVariety string) []Result {
	results := make([]Result, 0, len(samples))
	for _, s := range samples {
		variety := s.Variety
		if variety == "" {
			variety = defaultVariety
		}
		results = append(results, Result{Sample: s, Report: builder.Build(s.Inputs, variety)})
	}
	return results
}

// Summarize counts the outcomes of a run.
func Summarize(runID string, results []Result) Summary {
	sum := Summary{RunID: runID, Samples: len(results)}
	for _, r := range results {
		if r.Report.IsEmpty() {
			sum.Empty++
			continue
		}
		sum.Results += len(r.Report.Results)
		sum.Failures += r.Report.Failures()
	}
	return sum
}

// WriteResults writes one row per nutrient result to a new workbook and
// streams it to w. A sample with no inputs gets a single row carrying the
// empty-report message.
func WriteResults(w io.Writer, summary Summary, results []Result) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName(wb.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("failed to name results sheet: %w", err)
	}
	if err := writeRow(wb, ResultsSheet, 1, resultHeader); err != nil {
		return err
	}

	rowNum := 2
	for _, r := range results {
		for _, row := range resultRows(r) {
			if err := writeRow(wb, ResultsSheet, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}

	twoDecimals, err := wb.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("failed to create number style: %w", err)
	}
	for _, col := range []string{"G", "I"} {
		if err := wb.SetColStyle(ResultsSheet, col, twoDecimals); err != nil {
			return fmt.Errorf("failed to style column %s: %w", col, err)
		}
	}

	if err := writeSummary(wb, summary); err != nil {
		return err
	}

	if err := wb.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func resultRows(r Result) [][]interface{} {
	if r.Report.IsEmpty() {
		return [][]interface{}{{
			r.Sample.ID, r.Report.Variety, "", "", "", "", "", "", "", soil.NoInputMessage,
		}}
	}
	rows := make([][]interface{}, 0, len(r.Report.Results))
	for _, res := range r.Report.Results {
		class := ""
		if res.Class != nil {
			class = res.Class.String()
		}
		row := []interface{}{
			r.Sample.ID, r.Report.Variety, string(res.Nutrient), res.Value, class, string(res.Status),
		}
		if res.Status.Failed() {
			row = append(row, "", "", "")
		} else {
			row = append(row, res.Requirement, res.Product, res.ProductMass)
		}
		rows = append(rows, append(row, res.Line()))
	}
	return rows
}

func writeSummary(wb *excelize.File, summary Summary) error {
	if _, err := wb.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	rows := [][]interface{}{
		{"run_id", summary.RunID},
		{"samples", summary.Samples},
		{"results", summary.Results},
		{"failures", summary.Failures},
		{"empty", summary.Empty},
	}
	for i, row := range rows {
		if err := writeRow(wb, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(wb *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, rowNum, err)
	}
	return nil
}
