package soil

import (
	"fmt"
	"math"
	"strings"
)

// Bands maps each STVI class to a range for a single nutrient.
type Bands map[Class]Range

// ClassBand pairs a class with its range, for ordered iteration.
type ClassBand struct {
	Class Class `json:"class"`
	Range Range `json:"range"`
}

// ThresholdTable holds the soil-test classification bands per nutrient.
// The zero value is an empty table.
type ThresholdTable struct {
	rows map[Nutrient]Bands
}

// NewThresholdTable validates and copies rows into a read-only table.
func NewThresholdTable(rows map[Nutrient]Bands) (ThresholdTable, error) {
	copied, err := copyRows(rows, "threshold")
	if err != nil {
		return ThresholdTable{}, err
	}
	return ThresholdTable{rows: copied}, nil
}

// Has reports whether the table defines bands for the nutrient.
func (t ThresholdTable) Has(n Nutrient) bool {
	_, ok := t.rows[n]
	return ok
}

// Band returns the classification band of class c for nutrient n.
func (t ThresholdTable) Band(n Nutrient, c Class) (Range, bool) {
	r, ok := t.rows[n][c]
	return r, ok
}

// Bands returns the bands of nutrient n in canonical class order.
func (t ThresholdTable) Bands(n Nutrient) []ClassBand {
	return orderedBands(t.rows[n])
}

// Nutrients returns the nutrients present in the table in canonical order.
func (t ThresholdTable) Nutrients() []Nutrient {
	return presentNutrients(t.rows)
}

// Variety is a crop variety with its recommended nutrient ranges (kg/ha of
// pure nutrient) per nutrient and STVI class.
type Variety struct {
	key   string
	label string
	recs  map[Nutrient]Bands
}

// NewVariety validates and copies recs into a read-only variety. An empty key
// is derived from the label.
func NewVariety(key, label string, recs map[Nutrient]Bands) (Variety, error) {
	label = strings.TrimSpace(label)
	key = strings.TrimSpace(key)
	if label == "" && key == "" {
		return Variety{}, fmt.Errorf("%w: variety needs a key or a label", ErrNoVarietyData)
	}
	if label == "" {
		label = key
	}
	if key == "" {
		key = label
	}
	copied, err := copyRows(recs, "variety "+key)
	if err != nil {
		return Variety{}, err
	}
	return Variety{key: key, label: label, recs: copied}, nil
}

// Key returns the short identifier of the variety.
func (v Variety) Key() string { return v.key }

// Label returns the display label of the variety.
func (v Variety) Label() string { return v.label }

// Recommendation returns the recommended range for nutrient n in class c.
// It returns ErrNoNutrientData when the variety has no row for n and
// ErrNoClassRange when the row has no entry for c.
func (v Variety) Recommendation(n Nutrient, c Class) (Range, error) {
	bands, ok := v.recs[n]
	if !ok {
		return Range{}, fmt.Errorf("%w: %s for %s", ErrNoNutrientData, n, v.label)
	}
	r, ok := bands[c]
	if !ok {
		return Range{}, fmt.Errorf("%w: %s %q for %s", ErrNoClassRange, n, c, v.label)
	}
	return r, nil
}

// Bands returns the recommended ranges of nutrient n in canonical class order.
func (v Variety) Bands(n Nutrient) []ClassBand {
	return orderedBands(v.recs[n])
}

// Nutrients returns the nutrients the variety has recommendations for.
func (v Variety) Nutrients() []Nutrient {
	return presentNutrients(v.recs)
}

// VarietyTable is an ordered registry of varieties.
type VarietyTable struct {
	varieties []Variety
	index     map[string]int
}

// NewVarietyTable builds a table from varieties, keeping their order. Keys
// and labels must be unique.
func NewVarietyTable(varieties ...Variety) (VarietyTable, error) {
	t := VarietyTable{
		varieties: make([]Variety, 0, len(varieties)),
		index:     make(map[string]int, len(varieties)*2),
	}
	for _, v := range varieties {
		if v.key == "" {
			return VarietyTable{}, fmt.Errorf("%w: variety without key", ErrNoVarietyData)
		}
		for _, name := range []string{v.key, v.label} {
			if _, dup := t.index[name]; dup {
				return VarietyTable{}, fmt.Errorf("%w: %q", ErrDuplicateVariety, name)
			}
		}
		t.index[v.key] = len(t.varieties)
		t.index[v.label] = len(t.varieties)
		t.varieties = append(t.varieties, v)
	}
	return t, nil
}

// Lookup finds a variety by key or label. Exact matches win; otherwise the
// comparison ignores case and surrounding whitespace.
func (t VarietyTable) Lookup(name string) (Variety, bool) {
	if i, ok := t.index[name]; ok {
		return t.varieties[i], true
	}
	trimmed := strings.TrimSpace(name)
	for _, v := range t.varieties {
		if strings.EqualFold(trimmed, v.key) || strings.EqualFold(trimmed, v.label) {
			return v, true
		}
	}
	return Variety{}, false
}

// Varieties returns the registered varieties in registration order.
func (t VarietyTable) Varieties() []Variety {
	out := make([]Variety, len(t.varieties))
	copy(out, t.varieties)
	return out
}

// Len returns the number of registered varieties.
func (t VarietyTable) Len() int { return len(t.varieties) }

// Conversion maps a pure nutrient to a commercial fertilizer product.
// Ratio is the product mass equivalent to one unit mass of nutrient.
type Conversion struct {
	Product string  `json:"product" yaml:"product"`
	Ratio   float64 `json:"ratio"   yaml:"ratio"`
}

// ConversionTable holds the nutrient-to-product conversions.
type ConversionTable struct {
	rows map[Nutrient]Conversion
}

// NewConversionTable validates and copies rows into a read-only table.
func NewConversionTable(rows map[Nutrient]Conversion) (ConversionTable, error) {
	copied := make(map[Nutrient]Conversion, len(rows))
	for n, c := range rows {
		if !n.Valid() {
			return ConversionTable{}, fmt.Errorf("conversion: %w: %q", ErrUnknownNutrient, n)
		}
		if strings.TrimSpace(c.Product) == "" {
			return ConversionTable{}, fmt.Errorf("conversion %s: empty product name", n)
		}
		if !(c.Ratio > 0) || math.IsInf(c.Ratio, 0) {
			return ConversionTable{}, fmt.Errorf("conversion %s: %w: %v", n, ErrInvalidRatio, c.Ratio)
		}
		copied[n] = c
	}
	return ConversionTable{rows: copied}, nil
}

// Lookup returns the conversion for nutrient n.
func (t ConversionTable) Lookup(n Nutrient) (Conversion, bool) {
	c, ok := t.rows[n]
	return c, ok
}

// Nutrients returns the nutrients with a conversion in canonical order.
func (t ConversionTable) Nutrients() []Nutrient {
	var out []Nutrient
	for _, n := range Nutrients() {
		if _, ok := t.rows[n]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Tables bundles the three lookup tables the calculator needs.
type Tables struct {
	Thresholds  ThresholdTable
	Varieties   VarietyTable
	Conversions ConversionTable
}

func copyRows(rows map[Nutrient]Bands, what string) (map[Nutrient]Bands, error) {
	copied := make(map[Nutrient]Bands, len(rows))
	for n, bands := range rows {
		if !n.Valid() {
			return nil, fmt.Errorf("%s: %w: %q", what, ErrUnknownNutrient, n)
		}
		row := make(Bands, len(bands))
		for c, r := range bands {
			if !c.Valid() {
				return nil, fmt.Errorf("%s %s: %w: %d", what, n, ErrUnknownClass, int(c))
			}
			if err := validateRange(r); err != nil {
				return nil, fmt.Errorf("%s %s %q: %w", what, n, c, err)
			}
			row[c] = r
		}
		copied[n] = row
	}
	return copied, nil
}

func validateRange(r Range) error {
	if math.IsNaN(r.Lo) || math.IsNaN(r.Hi) || math.IsInf(r.Lo, 0) || math.IsInf(r.Hi, 0) {
		return fmt.Errorf("%w: non-finite bound", ErrInvalidRange)
	}
	if r.Lo < 0 {
		return fmt.Errorf("%w: negative lower bound %v", ErrInvalidRange, r.Lo)
	}
	if r.Lo > r.Hi {
		return fmt.Errorf("%w: lower bound %v above upper bound %v", ErrInvalidRange, r.Lo, r.Hi)
	}
	return nil
}

func orderedBands(bands Bands) []ClassBand {
	var out []ClassBand
	for _, c := range Classes() {
		if r, ok := bands[c]; ok {
			out = append(out, ClassBand{Class: c, Range: r})
		}
	}
	return out
}

func presentNutrients(rows map[Nutrient]Bands) []Nutrient {
	var out []Nutrient
	for _, n := range Nutrients() {
		if _, ok := rows[n]; ok {
			out = append(out, n)
		}
	}
	return out
}
