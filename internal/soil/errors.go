package soil

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for the calculator. Callers match them with errors.Is; the
// returned errors usually wrap them with the offending nutrient, variety or
// class.
var (
	// ErrUnknownNutrient indicates a nutrient code with no threshold data.
	ErrUnknownNutrient = constError("unknown nutrient")

	// ErrUnknownClass indicates an unrecognized STVI class name.
	ErrUnknownClass = constError("unknown STVI class")

	// ErrNotFound indicates a soil-test value outside every class band.
	// It means "cannot classify" and is distinct from an absent value.
	ErrNotFound = constError("soil test value out of range")

	// ErrNoVarietyData indicates a variety missing from the variety table.
	ErrNoVarietyData = constError("no recommendation data for variety")

	// ErrNoNutrientData indicates a variety without a row for the nutrient.
	ErrNoNutrientData = constError("no recommendation data for nutrient")

	// ErrNoClassRange indicates a missing recommended range or threshold band
	// for the (nutrient, class) pair.
	ErrNoClassRange = constError("no recommended range for STVI class")

	// ErrNoConversionDefined indicates a nutrient without a fertilizer product.
	ErrNoConversionDefined = constError("no fertilizer conversion defined")

	// ErrInvalidRange indicates a range with Lo > Hi or negative bounds.
	ErrInvalidRange = constError("invalid range")

	// ErrInvalidRatio indicates a non-positive conversion ratio.
	ErrInvalidRatio = constError("invalid conversion ratio")

	// ErrDuplicateVariety indicates two varieties sharing a key or label.
	ErrDuplicateVariety = constError("duplicate variety")
)
