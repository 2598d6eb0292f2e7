package soil

import "fmt"

// ConversionEngine converts nutrient masses into fertilizer product masses.
type ConversionEngine struct {
	conversions ConversionTable
}

// NewConversionEngine returns an engine over the given conversion table.
func NewConversionEngine(conversions ConversionTable) *ConversionEngine {
	return &ConversionEngine{conversions: conversions}
}

// ToProductMass returns the product name and the product mass equivalent to
// kg of pure nutrient n. It returns ErrNoConversionDefined when n has no
// registered product.
func (e *ConversionEngine) ToProductMass(n Nutrient, kg float64) (string, float64, error) {
	conv, ok := e.conversions.Lookup(n)
	if !ok {
		return "", 0, fmt.Errorf("%w: %s", ErrNoConversionDefined, n)
	}
	return conv.Product, kg * conv.Ratio, nil
}
