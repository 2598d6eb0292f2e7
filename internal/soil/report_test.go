package soil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldGuideThresholds is the default table with the nitrogen Medium band
// widened to 0.091–0.27, as printed in some field guides.
func fieldGuideThresholds(t *testing.T) ThresholdTable {
	t.Helper()
	rows := map[Nutrient]Bands{}
	defaults := DefaultThresholds()
	for _, n := range Nutrients() {
		rows[n] = Bands{}
		for _, band := range defaults.Bands(n) {
			rows[n][band.Class] = band.Range
		}
	}
	rows[Nitrogen][Medium] = Range{Lo: 0.091, Hi: 0.27}
	table, err := NewThresholdTable(rows)
	require.NoError(t, err)
	return table
}

func TestBuild_NitrogenAmanRice(t *testing.T) {
	tables := DefaultTables()
	tables.Thresholds = fieldGuideThresholds(t)
	builder := NewReportBuilderFromTables(tables)

	report := builder.Build(Inputs{Nitrogen: 0.20}, "Aman Rice")
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	require.NotNil(t, res.Class)
	assert.Equal(t, Medium, *res.Class)
	assert.Equal(t, StatusOK, res.Status)
	assert.InDelta(t, 24-(11/0.179)*(0.20-0.091), res.Requirement, 1e-9)
	assert.InDelta(t, 17.30, res.Requirement, 0.005)
	assert.Equal(t, res.Requirement*2.17, res.ProductMass)
	assert.Equal(t,
		"N - STVI: Medium | Recommended Nutrient = 17.30 kg/ha | Urea needed ≈ 37.54 kg/ha",
		report.Text())
}

func TestBuild_NitrogenDefaultTables(t *testing.T) {
	got := Calculate(Inputs{Nitrogen: 0.20}, DefaultVarietyLabel)
	assert.Equal(t,
		"N - STVI: Medium | Recommended Nutrient = 21.65 kg/ha | Urea needed ≈ 46.98 kg/ha",
		got)
}

func TestBuild_AllInputsAbsent(t *testing.T) {
	builder := NewDefaultReportBuilder()

	report := builder.Build(Inputs{}, DefaultVarietyLabel)
	assert.True(t, report.IsEmpty())
	assert.Equal(t, "No valid nutrient inputs given.", report.Text())

	assert.Equal(t, NoInputMessage, builder.Build(nil, DefaultVarietyLabel).Text())
}

func TestBuild_OutOfRangeDoesNotAbort(t *testing.T) {
	builder := NewDefaultReportBuilder()

	report := builder.Build(Inputs{Nitrogen: 0.20, Phosphorus: -1, Sulfur: 5}, DefaultVarietyLabel)
	require.Len(t, report.Results, 3)

	lines := strings.Split(report.Text(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "N - STVI: Medium | Recommended Nutrient = 21.65 kg/ha | Urea needed ≈ 46.98 kg/ha", lines[0])
	assert.Equal(t, "P: Soil test value -1 out of range or no data.", lines[1])
	assert.Equal(t, "S - STVI: Very Low | Recommended Nutrient = 7.44 kg/ha | Gypsum needed ≈ 41.32 kg/ha", lines[2])

	assert.Equal(t, StatusUnclassified, report.Results[1].Status)
	require.ErrorIs(t, report.Results[1].Err, ErrNotFound)
	assert.Equal(t, 1, report.Failures())
}

func TestBuild_VarietyWithoutNutrientRow(t *testing.T) {
	nOnly, err := NewVariety("boro-trial", "Boro Trial", map[Nutrient]Bands{
		Nitrogen: {Medium: {Lo: 13, Hi: 24}},
	})
	require.NoError(t, err)
	varieties, err := NewVarietyTable(nOnly)
	require.NoError(t, err)

	tables := DefaultTables()
	tables.Varieties = varieties
	builder := NewReportBuilderFromTables(tables)

	report := builder.Build(Inputs{Nitrogen: 0.20, Potassium: 0.1}, "Boro Trial")
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusOK, report.Results[0].Status)
	assert.Equal(t, StatusNoRecommendation, report.Results[1].Status)
	assert.Equal(t, "K: No recommendation data for Boro Trial.", report.Results[1].Line())

	// Low class is missing for nitrogen.
	report = builder.Build(Inputs{Nitrogen: 0.1}, "Boro Trial")
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusNoClassRange, report.Results[0].Status)
	assert.Equal(t, "N: No recommended range for STVI class 'Low'.", report.Text())
}

func TestBuild_UnknownVariety(t *testing.T) {
	report := NewDefaultReportBuilder().Build(Inputs{Zinc: 0.5}, "Jasmine")
	require.Len(t, report.Results, 1)
	assert.Equal(t, "Zn: No recommendation data for Jasmine.", report.Text())
	require.ErrorIs(t, report.Results[0].Err, ErrNoVarietyData)
}

func TestBuild_NoConversion(t *testing.T) {
	conversions, err := NewConversionTable(map[Nutrient]Conversion{
		Nitrogen: {Product: "Urea", Ratio: 2.17},
	})
	require.NoError(t, err)
	tables := DefaultTables()
	tables.Conversions = conversions

	report := NewReportBuilderFromTables(tables).Build(Inputs{Boron: 0.2}, DefaultVarietyLabel)
	require.Len(t, report.Results, 1)
	assert.Equal(t, StatusNoConversion, report.Results[0].Status)
	assert.Zero(t, report.Results[0].ProductMass)
	assert.Equal(t, "B - STVI: Low | Recommended Nutrient = 0.87 kg/ha | No fertilizer product data.", report.Text())
}

func TestBuild_CanonicalOrderAndIdempotence(t *testing.T) {
	builder := NewDefaultReportBuilder()
	inputs := Inputs{
		Boron:      0.2,
		Zinc:       0.5,
		Sulfur:     5,
		Potassium:  0.1,
		Phosphorus: 15,
		Nitrogen:   0.4,
	}

	first := builder.Build(inputs, VarietyAmanRice)
	second := builder.Build(inputs, VarietyAmanRice)
	assert.Equal(t, first.Text(), second.Text())

	var order []Nutrient
	for _, res := range first.Results {
		order = append(order, res.Nutrient)
	}
	assert.Equal(t, Nutrients(), order)

	lines := first.Lines()
	assert.Equal(t, "N - STVI: High | Recommended Nutrient = 0.00 kg/ha | Urea needed ≈ 0.00 kg/ha", lines[0])
	assert.Equal(t, "P - STVI: Medium | Recommended Nutrient = 5.02 kg/ha | TSP needed ≈ 25.08 kg/ha", lines[1])
	assert.Equal(t, "K - STVI: Low | Recommended Nutrient = 27.08 kg/ha | MoP needed ≈ 54.16 kg/ha", lines[2])
	assert.Equal(t, "Zn - STVI: Low | Recommended Nutrient = 0.96 kg/ha | Zinc sulphate (heptahydrate) needed ≈ 4.54 kg/ha", lines[4])
}

func TestBuild_ZeroIsAMeasurement(t *testing.T) {
	report := NewDefaultReportBuilder().Build(Inputs{Potassium: 0}, DefaultVarietyLabel)
	require.Len(t, report.Results, 1)
	assert.Equal(t, VeryLow, *report.Results[0].Class)
	assert.InDelta(t, 40, report.Results[0].Requirement, 1e-9)
}

func TestBuild_LogsIgnoredNutrients(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	builder := NewDefaultReportBuilder(WithLogger(logger))

	report := builder.Build(Inputs{"Mg": 1, Phosphorus: -3}, DefaultVarietyLabel)
	require.Len(t, report.Results, 1)
	assert.Contains(t, buf.String(), "ignoring input for unknown nutrient")
	assert.Contains(t, buf.String(), "value not classified")
}
