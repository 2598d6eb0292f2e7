package soil

import (
	"fmt"
	"math"
)

// RequirementCalculator computes the nutrient addition (kg/ha) for a
// classified soil-test value.
type RequirementCalculator struct {
	thresholds ThresholdTable
	varieties  VarietyTable
}

// NewRequirementCalculator returns a calculator over the given tables.
func NewRequirementCalculator(thresholds ThresholdTable, varieties VarietyTable) *RequirementCalculator {
	return &RequirementCalculator{thresholds: thresholds, varieties: varieties}
}

// Compute returns the nutrient requirement for an observed value already
// classified into class c:
//
//	Fr = Uf - (Ci / Cs) * (St - Ls)
//
// where Uf is the upper bound of the variety's recommended range, Ci its
// span, Ls the lower bound of the STVI band, Cs the band span and St the
// observed value. A zero-width band yields Uf unchanged. The result is never
// negative.
//
// Errors wrap ErrNoVarietyData, ErrNoNutrientData or ErrNoClassRange.
func (rc *RequirementCalculator) Compute(n Nutrient, variety string, c Class, observed float64) (float64, error) {
	v, ok := rc.varieties.Lookup(variety)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoVarietyData, variety)
	}
	rec, err := v.Recommendation(n, c)
	if err != nil {
		return 0, err
	}
	band, ok := rc.thresholds.Band(n, c)
	if !ok {
		return 0, fmt.Errorf("%w: no threshold band for %s %q", ErrNoClassRange, n, c)
	}
	return Requirement(rec, band, observed), nil
}

// Requirement applies the interpolation formula to a recommended range and
// an STVI band, clamping the result at zero.
func Requirement(rec, band Range, observed float64) float64 {
	uf := rec.Hi
	ci := rec.Span()
	ls := band.Lo
	cs := band.Span()

	fr := uf
	if cs != 0 {
		fr = uf - (ci/cs)*(observed-ls)
	}
	return math.Max(0, fr)
}
