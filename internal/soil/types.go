// Package soil implements the fertilizer-requirement calculator.
//
// A soil-test value for one of six nutrients is classified into a soil test
// value index (STVI) class, a nutrient requirement is interpolated inside that
// class from a crop variety's recommended range, and the requirement is
// converted into a mass of a commercial fertilizer product.
//
// All tables are immutable once constructed and every component is safe for
// concurrent use.
package soil

import (
	"fmt"
	"strings"
)

// Nutrient identifies one of the soil nutrients covered by the calculator.
type Nutrient string

const (
	// Nitrogen, measured as a percentage.
	Nitrogen Nutrient = "N"
	// Phosphorus, measured in µg/g (Olsen method).
	Phosphorus Nutrient = "P"
	// Potassium, measured in meq/100g.
	Potassium Nutrient = "K"
	// Sulfur, measured in µg/g.
	Sulfur Nutrient = "S"
	// Zinc, measured in µg/g.
	Zinc Nutrient = "Zn"
	// Boron, measured in µg/g.
	Boron Nutrient = "B"
)

// Nutrients returns every nutrient in canonical report order.
func Nutrients() []Nutrient {
	return []Nutrient{Nitrogen, Phosphorus, Potassium, Sulfur, Zinc, Boron}
}

// Valid reports whether n is a known nutrient code.
func (n Nutrient) Valid() bool {
	switch n {
	case Nitrogen, Phosphorus, Potassium, Sulfur, Zinc, Boron:
		return true
	default:
		return false
	}
}

// Name returns the element name of the nutrient.
func (n Nutrient) Name() string {
	switch n {
	case Nitrogen:
		return "Nitrogen"
	case Phosphorus:
		return "Phosphorus"
	case Potassium:
		return "Potassium"
	case Sulfur:
		return "Sulfur"
	case Zinc:
		return "Zinc"
	case Boron:
		return "Boron"
	default:
		return string(n)
	}
}

// Unit returns the soil-test measurement unit for the nutrient.
func (n Nutrient) Unit() string {
	switch n {
	case Nitrogen:
		return "%"
	case Phosphorus, Sulfur, Zinc, Boron:
		return "µg/g"
	case Potassium:
		return "meq/100g"
	default:
		return ""
	}
}

// ParseNutrient resolves a nutrient code case-insensitively ("zn", "Zn", "ZN").
func ParseNutrient(s string) (Nutrient, error) {
	trimmed := strings.TrimSpace(s)
	for _, n := range Nutrients() {
		if strings.EqualFold(trimmed, string(n)) || strings.EqualFold(trimmed, n.Name()) {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNutrient, s)
}

// Class is a soil test value index category. Classes are ordered from
// VeryLow to VeryHigh.
type Class int

const (
	VeryLow Class = iota
	Low
	Medium
	Optimum
	High
	VeryHigh
)

// Classes returns every class in canonical scan order.
func Classes() []Class {
	return []Class{VeryLow, Low, Medium, Optimum, High, VeryHigh}
}

// String returns the display name of the class.
func (c Class) String() string {
	switch c {
	case VeryLow:
		return "Very Low"
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case Optimum:
		return "Optimum"
	case High:
		return "High"
	case VeryHigh:
		return "Very High"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Valid reports whether c is one of the six defined classes.
func (c Class) Valid() bool {
	return c >= VeryLow && c <= VeryHigh
}

// MarshalText encodes the class as its display name.
func (c Class) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownClass, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a class display name.
func (c *Class) UnmarshalText(text []byte) error {
	parsed, err := ParseClass(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseClass resolves a class by display name, ignoring case, spaces,
// hyphens and underscores ("very-low", "VeryLow" and "Very Low" all match).
func ParseClass(s string) (Class, error) {
	want := normalizeClassName(s)
	for _, c := range Classes() {
		if normalizeClassName(c.String()) == want {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownClass, s)
}

func normalizeClassName(s string) string {
	r := strings.NewReplacer(" ", "", "-", "", "_", "")
	return strings.ToLower(r.Replace(s))
}

// Range is an inclusive interval [Lo, Hi].
type Range struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return r.Lo <= v && v <= r.Hi
}

// Span returns Hi - Lo.
func (r Range) Span() float64 {
	return r.Hi - r.Lo
}

// IsZero reports whether the range is the (0,0) "no recommendation" marker.
func (r Range) IsZero() bool {
	return r.Lo == 0 && r.Hi == 0
}

// Inputs holds soil-test values keyed by nutrient. A nutrient without an
// entry is absent and skipped; a zero entry is a real measurement.
type Inputs map[Nutrient]float64
