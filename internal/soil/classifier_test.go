package soil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_DefaultBands(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	tests := []struct {
		name     string
		nutrient Nutrient
		value    float64
		want     Class
	}{
		{"N zero is very low", Nitrogen, 0, VeryLow},
		{"N interior low", Nitrogen, 0.12, Low},
		{"N interior medium", Nitrogen, 0.20, Medium},
		{"N upper medium bound inclusive", Nitrogen, 0.27, Medium},
		{"N very high", Nitrogen, 2.5, VeryHigh},
		{"P olsen optimum", Phosphorus, 20, Optimum},
		{"P lower low bound inclusive", Phosphorus, 6.1, Low},
		{"K high", Potassium, 0.35, High},
		{"S medium", Sulfur, 20, Medium},
		{"Zn low", Zinc, 0.5, Low},
		{"B very low", Boron, 0.1, VeryLow},
		{"top band limit inclusive", Boron, TopBandLimit, VeryHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.nutrient, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_InteriorOfEveryBand(t *testing.T) {
	thresholds := DefaultThresholds()
	c := NewClassifier(thresholds)

	for _, n := range Nutrients() {
		for _, band := range thresholds.Bands(n) {
			mid := band.Range.Lo + band.Range.Span()/2
			got, err := c.Classify(n, mid)
			require.NoError(t, err, "%s %s", n, band.Class)
			assert.Equal(t, band.Class, got, "%s midpoint %v", n, mid)
		}
	}
}

func TestClassify_NegativeValueNotFound(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	for _, n := range Nutrients() {
		t.Run(string(n), func(t *testing.T) {
			_, err := c.Classify(n, -1)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestClassify_OutOfRange(t *testing.T) {
	c := NewClassifier(DefaultThresholds())

	tests := []struct {
		name  string
		value float64
	}{
		{"above top band", TopBandLimit + 1},
		{"gap between bands", 0.0905},
		{"NaN", math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Classify(Nitrogen, tt.value)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestClassify_SharedBoundaryLowerClassWins(t *testing.T) {
	thresholds, err := NewThresholdTable(map[Nutrient]Bands{
		Phosphorus: {
			VeryLow:  {Lo: 0, Hi: 6},
			Low:      {Lo: 6, Hi: 12},
			Medium:   {Lo: 12, Hi: 18},
			Optimum:  {Lo: 18, Hi: 24},
			High:     {Lo: 24, Hi: 30},
			VeryHigh: {Lo: 30, Hi: 100},
		},
	})
	require.NoError(t, err)
	c := NewClassifier(thresholds)

	tests := []struct {
		value float64
		want  Class
	}{
		{6, VeryLow},
		{12, Low},
		{18, Medium},
		{24, Optimum},
		{30, High},
		{30.0001, VeryHigh},
	}

	for _, tt := range tests {
		got, err := c.Classify(Phosphorus, tt.value)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "value %v", tt.value)
	}
}

func TestClassify_UnknownNutrient(t *testing.T) {
	thresholds, err := NewThresholdTable(map[Nutrient]Bands{
		Nitrogen: {VeryLow: {Lo: 0, Hi: 1}},
	})
	require.NoError(t, err)
	c := NewClassifier(thresholds)

	_, err = c.Classify(Zinc, 0.5)
	require.ErrorIs(t, err, ErrUnknownNutrient)

	_, err = c.Classify(Nutrient("Mg"), 0.5)
	require.ErrorIs(t, err, ErrUnknownNutrient)
}
