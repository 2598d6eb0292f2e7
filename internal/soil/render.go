package soil

import (
	"fmt"
	"strconv"
	"strings"
)

// Line renders the result as a single report line.
func (r NutrientResult) Line() string {
	switch r.Status {
	case StatusOK:
		return fmt.Sprintf("%s - STVI: %s | Recommended Nutrient = %.2f kg/ha | %s needed ≈ %.2f kg/ha",
			r.Nutrient, r.className(), r.Requirement, r.Product, r.ProductMass)
	case StatusNoConversion:
		return fmt.Sprintf("%s - STVI: %s | Recommended Nutrient = %.2f kg/ha | No fertilizer product data.",
			r.Nutrient, r.className(), r.Requirement)
	case StatusNoRecommendation:
		return fmt.Sprintf("%s: No recommendation data for %s.", r.Nutrient, r.Variety)
	case StatusNoClassRange:
		return fmt.Sprintf("%s: No recommended range for STVI class '%s'.", r.Nutrient, r.className())
	default:
		return fmt.Sprintf("%s: Soil test value %s out of range or no data.", r.Nutrient, FormatValue(r.Value))
	}
}

func (r NutrientResult) className() string {
	if r.Class == nil {
		return ""
	}
	return r.Class.String()
}

// Lines renders every result in report order.
func (r Report) Lines() []string {
	lines := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		lines = append(lines, res.Line())
	}
	return lines
}

// Text renders the report as newline-separated lines, or NoInputMessage when
// no input was present.
func (r Report) Text() string {
	if r.IsEmpty() {
		return NoInputMessage
	}
	return strings.Join(r.Lines(), "\n")
}

// FormatValue renders a soil-test value with the shortest exact
// representation ("0.2", "-1", "12.05").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
