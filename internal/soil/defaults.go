package soil

import "fmt"

// TopBandLimit is the upper bound of the open-ended Very High band in the
// built-in threshold table. Values above it cannot be classified.
const TopBandLimit = 999.999

// Built-in variety keys.
const (
	VarietyAmanRice = "aman-rice"
	VarietyHYV50    = "hyv-5.0"
	VarietyHYV40    = "hyv-4.0"
	VarietyHYV30    = "hyv-3.0"
)

// DefaultVarietyLabel is the variety used when none is selected.
const DefaultVarietyLabel = "Aman Rice"

// Built-in variety labels, as listed in the national fertilizer
// recommendation guide. Line breaks are part of the label text.
const (
	labelHYV50 = "BR 11, BR 22, BR 23, BRRI dhan40, BRRI dhan41, BRRI dhan44, BRRI dhan46, BRRI dhan49,\n" +
		"BRRI dhan51, BRRI dhan52, BRRI dhan53, BRRI dhan54, BRRI dhan56, BRRI dhan62,\n" +
		"BRRI dhan66, BRRI dhan70, BRRI dhan71, BRRI dhan72, BRRI dhan73, BRRI dhan75\n" +
		"BRRI dhan76, BRRI dhan78, BRRI dhan79, BRRI dhan80, BRRI hybrid dhan4, BRRI hybrid dhan6\n" +
		"and Binadhan-4, Binadhan-7, Binadhan-11, Binadhan-12, Binadhan-15, Binadhan-16, Binadhan-17, Binadhan-20"
	labelHYV40 = "BR25, BRRI dhan33, BRRI dhan34, BRRI dhan37, BRRI dhan38,\n" +
		"BRRI dhan39, BRRI dhan56, BRRI dhan57 and Binadhan-12, Binadhan-13"
	labelHYV30 = "BR5, Binadhan-9; LIV: Kataribhog, Kalijira, Chinigura etc"
)

// DefaultTables returns the built-in threshold, variety and conversion tables.
func DefaultTables() Tables {
	return Tables{
		Thresholds:  DefaultThresholds(),
		Varieties:   DefaultVarieties(),
		Conversions: DefaultConversions(),
	}
}

// DefaultThresholds returns the standard STVI classification bands.
// N is in %, P (Olsen), S, Zn and B in µg/g, K in meq/100g.
//
// Nitrogen Medium is 0.181–0.27, so N=0.20 on Aman Rice yields 21.65 kg/ha.
// Field guides that print Medium as 0.091–0.27 (17.30 kg/ha for the same
// sample) need a custom table set.
func DefaultThresholds() ThresholdTable {
	return mustTable(NewThresholdTable(map[Nutrient]Bands{
		Nitrogen: {
			VeryLow:  {Lo: 0, Hi: 0.09},
			Low:      {Lo: 0.091, Hi: 0.18},
			Medium:   {Lo: 0.181, Hi: 0.27},
			Optimum:  {Lo: 0.271, Hi: 0.36},
			High:     {Lo: 0.361, Hi: 0.45},
			VeryHigh: {Lo: 0.451, Hi: TopBandLimit},
		},
		Phosphorus: {
			VeryLow:  {Lo: 0, Hi: 6},
			Low:      {Lo: 6.1, Hi: 12},
			Medium:   {Lo: 12.1, Hi: 18},
			Optimum:  {Lo: 18.1, Hi: 24},
			High:     {Lo: 24.1, Hi: 30},
			VeryHigh: {Lo: 30.1, Hi: TopBandLimit},
		},
		Potassium: {
			VeryLow:  {Lo: 0, Hi: 0.075},
			Low:      {Lo: 0.076, Hi: 0.15},
			Medium:   {Lo: 0.151, Hi: 0.225},
			Optimum:  {Lo: 0.226, Hi: 0.3},
			High:     {Lo: 0.31, Hi: 0.375},
			VeryHigh: {Lo: 0.376, Hi: TopBandLimit},
		},
		Sulfur: {
			VeryLow:  {Lo: 0, Hi: 9},
			Low:      {Lo: 9.1, Hi: 18},
			Medium:   {Lo: 18.1, Hi: 27},
			Optimum:  {Lo: 27.1, Hi: 36},
			High:     {Lo: 36.1, Hi: 45},
			VeryHigh: {Lo: 45.1, Hi: TopBandLimit},
		},
		Zinc: {
			VeryLow:  {Lo: 0, Hi: 0.45},
			Low:      {Lo: 0.451, Hi: 0.9},
			Medium:   {Lo: 0.91, Hi: 1.35},
			Optimum:  {Lo: 1.351, Hi: 1.8},
			High:     {Lo: 1.81, Hi: 2.25},
			VeryHigh: {Lo: 2.251, Hi: TopBandLimit},
		},
		Boron: {
			VeryLow:  {Lo: 0, Hi: 0.15},
			Low:      {Lo: 0.151, Hi: 0.3},
			Medium:   {Lo: 0.31, Hi: 0.45},
			Optimum:  {Lo: 0.451, Hi: 0.6},
			High:     {Lo: 0.61, Hi: 0.75},
			VeryHigh: {Lo: 0.751, Hi: TopBandLimit},
		},
	}))
}

// DefaultVarieties returns the built-in rice variety recommendations in kg/ha.
// High and Very High classes carry the (0,0) "no addition" range.
func DefaultVarieties() VarietyTable {
	return mustTable(NewVarietyTable(
		mustTable(NewVariety(VarietyAmanRice, DefaultVarietyLabel, amanRiceRecommendations())),
		mustTable(NewVariety(VarietyHYV50, labelHYV50, hyv50Recommendations())),
		mustTable(NewVariety(VarietyHYV40, labelHYV40, hyv40Recommendations())),
		mustTable(NewVariety(VarietyHYV30, labelHYV30, hyv30Recommendations())),
	))
}

// DefaultConversions returns the nutrient to fertilizer product ratios.
func DefaultConversions() ConversionTable {
	return mustTable(NewConversionTable(map[Nutrient]Conversion{
		Nitrogen:   {Product: "Urea", Ratio: 2.17},
		Phosphorus: {Product: "TSP", Ratio: 5.0},
		Potassium:  {Product: "MoP", Ratio: 2.0},
		Sulfur:     {Product: "Gypsum", Ratio: 5.55},
		Zinc:       {Product: "Zinc sulphate (heptahydrate)", Ratio: 4.75},
		Boron:      {Product: "Boric acid", Ratio: 5.88},
	}))
}

func amanRiceRecommendations() map[Nutrient]Bands {
	return map[Nutrient]Bands{
		Nitrogen: {
			VeryLow:  {Lo: 37, Hi: 48},
			Low:      {Lo: 25, Hi: 36},
			Medium:   {Lo: 13, Hi: 24},
			Optimum:  {Lo: 0, Hi: 12},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Phosphorus: {
			VeryLow:  {Lo: 10, Hi: 12},
			Low:      {Lo: 7, Hi: 9},
			Medium:   {Lo: 4, Hi: 6},
			Optimum:  {Lo: 0, Hi: 3},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Potassium: {
			VeryLow:  {Lo: 31, Hi: 40},
			Low:      {Lo: 21, Hi: 30},
			Medium:   {Lo: 11, Hi: 20},
			Optimum:  {Lo: 0, Hi: 10},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Sulfur: {
			VeryLow:  {Lo: 7, Hi: 8},
			Low:      {Lo: 5, Hi: 6},
			Medium:   {Lo: 3, Hi: 4},
			Optimum:  {Lo: 0, Hi: 2},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Zinc: {
			VeryLow:  {Lo: 1.1, Hi: 1.5},
			Low:      {Lo: 0.6, Hi: 1},
			Medium:   {Lo: 0, Hi: 0.5},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Boron: {
			VeryLow:  {Lo: 1.1, Hi: 1.5},
			Low:      {Lo: 0.6, Hi: 1},
			Medium:   {Lo: 0, Hi: 0.5},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
	}
}

func hyv50Recommendations() map[Nutrient]Bands {
	return map[Nutrient]Bands{
		Nitrogen: {
			VeryLow:  {Lo: 91, Hi: 120},
			Low:      {Lo: 61, Hi: 90},
			Medium:   {Lo: 31, Hi: 60},
			Optimum:  {Lo: 0, Hi: 30},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Phosphorus: {
			VeryLow:  {Lo: 16, Hi: 20},
			Low:      {Lo: 11, Hi: 15},
			Medium:   {Lo: 6, Hi: 10},
			Optimum:  {Lo: 0, Hi: 5},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Potassium: {
			VeryLow:  {Lo: 76, Hi: 100},
			Low:      {Lo: 51, Hi: 75},
			Medium:   {Lo: 26, Hi: 50},
			Optimum:  {Lo: 0, Hi: 25},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Sulfur: {
			VeryLow:  {Lo: 13, Hi: 16},
			Low:      {Lo: 9, Hi: 12},
			Medium:   {Lo: 5, Hi: 8},
			Optimum:  {Lo: 0, Hi: 4},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Zinc: {
			VeryLow:  {Lo: 1.7, Hi: 2.4},
			Low:      {Lo: 0.9, Hi: 1.6},
			Medium:   {Lo: 0, Hi: 0.8},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Boron: {
			VeryLow:  {Lo: 1.7, Hi: 2.4},
			Low:      {Lo: 0.9, Hi: 1.6},
			Medium:   {Lo: 0, Hi: 0.8},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
	}
}

func hyv40Recommendations() map[Nutrient]Bands {
	return map[Nutrient]Bands{
		Nitrogen: {
			VeryLow:  {Lo: 73, Hi: 96},
			Low:      {Lo: 49, Hi: 72},
			Medium:   {Lo: 25, Hi: 48},
			Optimum:  {Lo: 0, Hi: 24},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Phosphorus: {
			VeryLow:  {Lo: 13, Hi: 16},
			Low:      {Lo: 9, Hi: 12},
			Medium:   {Lo: 5, Hi: 8},
			Optimum:  {Lo: 0, Hi: 4},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Potassium: {
			VeryLow:  {Lo: 61, Hi: 80},
			Low:      {Lo: 41, Hi: 60},
			Medium:   {Lo: 21, Hi: 40},
			Optimum:  {Lo: 0, Hi: 20},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Sulfur: {
			VeryLow:  {Lo: 10, Hi: 12},
			Low:      {Lo: 7, Hi: 9},
			Medium:   {Lo: 4, Hi: 6},
			Optimum:  {Lo: 0, Hi: 3},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Zinc: {
			VeryLow:  {Lo: 1.5, Hi: 2.1},
			Low:      {Lo: 0.8, Hi: 1.4},
			Medium:   {Lo: 0, Hi: 0.7},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Boron: {
			VeryLow:  {Lo: 1.5, Hi: 2.1},
			Low:      {Lo: 0.8, Hi: 1.4},
			Medium:   {Lo: 0, Hi: 0.7},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
	}
}

func hyv30Recommendations() map[Nutrient]Bands {
	return map[Nutrient]Bands{
		Nitrogen: {
			VeryLow:  {Lo: 55, Hi: 72},
			Low:      {Lo: 37, Hi: 54},
			Medium:   {Lo: 19, Hi: 36},
			Optimum:  {Lo: 0, Hi: 18},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Phosphorus: {
			VeryLow:  {Lo: 10, Hi: 12},
			Low:      {Lo: 7, Hi: 9},
			Medium:   {Lo: 4, Hi: 6},
			Optimum:  {Lo: 0, Hi: 3},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Potassium: {
			VeryLow:  {Lo: 46, Hi: 60},
			Low:      {Lo: 31, Hi: 45},
			Medium:   {Lo: 16, Hi: 30},
			Optimum:  {Lo: 0, Hi: 15},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Sulfur: {
			VeryLow:  {Lo: 10, Hi: 12},
			Low:      {Lo: 7, Hi: 9},
			Medium:   {Lo: 4, Hi: 6},
			Optimum:  {Lo: 0, Hi: 3},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Zinc: {
			VeryLow:  {Lo: 1.3, Hi: 1.8},
			Low:      {Lo: 0.7, Hi: 1.2},
			Medium:   {Lo: 0, Hi: 0.6},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
		Boron: {
			VeryLow:  {Lo: 1.3, Hi: 1.8},
			Low:      {Lo: 0.7, Hi: 1.2},
			Medium:   {Lo: 0, Hi: 0.6},
			Optimum:  {Lo: 0, Hi: 0},
			High:     {Lo: 0, Hi: 0},
			VeryHigh: {Lo: 0, Hi: 0},
		},
	}
}

// mustTable panics on an invalid built-in table; the data above is static.
func mustTable[T any](t T, err error) T {
	if err != nil {
		panic(fmt.Sprintf("soil: invalid built-in table: %v", err))
	}
	return t
}
