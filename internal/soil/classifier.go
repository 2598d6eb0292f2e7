package soil

import "fmt"

// Classifier maps soil-test values to STVI classes.
type Classifier struct {
	thresholds ThresholdTable
}

// NewClassifier returns a Classifier over the given threshold table.
func NewClassifier(thresholds ThresholdTable) *Classifier {
	return &Classifier{thresholds: thresholds}
}

// Classify returns the class whose band contains value. Bands are scanned
// from VeryLow to VeryHigh and bounds are inclusive, so a value on a boundary
// shared by two bands resolves to the lower class.
//
// It returns ErrUnknownNutrient when the table has no row for n and
// ErrNotFound when no band contains value (negative, above the top band or
// NaN).
func (c *Classifier) Classify(n Nutrient, value float64) (Class, error) {
	if !c.thresholds.Has(n) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNutrient, n)
	}
	for _, band := range c.thresholds.Bands(n) {
		if band.Range.Contains(value) {
			return band.Class, nil
		}
	}
	return 0, fmt.Errorf("%w: %s = %v", ErrNotFound, n, value)
}
