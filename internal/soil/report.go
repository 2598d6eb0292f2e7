package soil

import (
	"errors"

	"github.com/rs/zerolog"
)

// NoInputMessage is the report text when every nutrient input is absent.
const NoInputMessage = "No valid nutrient inputs given."

// Status describes how a single nutrient was resolved.
type Status string

const (
	// StatusOK means a requirement and a product mass were computed.
	StatusOK Status = "ok"
	// StatusNoConversion means a requirement was computed but the nutrient
	// has no fertilizer product.
	StatusNoConversion Status = "no_conversion"
	// StatusUnclassified means the value fell outside every STVI band or the
	// nutrient has no threshold data.
	StatusUnclassified Status = "unclassified"
	// StatusNoRecommendation means the variety is unknown or has no row for
	// the nutrient.
	StatusNoRecommendation Status = "no_recommendation"
	// StatusNoClassRange means the variety has no range for the class.
	StatusNoClassRange Status = "no_class_range"
)

// Failed reports whether no requirement could be computed.
func (s Status) Failed() bool {
	return s != StatusOK && s != StatusNoConversion
}

// NutrientResult is the outcome of one nutrient in a report.
type NutrientResult struct {
	Nutrient    Nutrient `json:"nutrient"`
	Value       float64  `json:"value"`
	Status      Status   `json:"status"`
	Class       *Class   `json:"class,omitempty"`
	Requirement float64  `json:"requirement_kg_ha"`
	Product     string   `json:"product,omitempty"`
	ProductMass float64  `json:"product_kg_ha,omitempty"`
	Variety     string   `json:"-"`
	Err         error    `json:"-"`
}

// Report is the ordered per-nutrient result of one calculation.
type Report struct {
	Variety string           `json:"variety"`
	Results []NutrientResult `json:"results"`
}

// IsEmpty reports whether no nutrient input was present.
func (r Report) IsEmpty() bool {
	return len(r.Results) == 0
}

// Failures counts the results without a computed requirement.
func (r Report) Failures() int {
	n := 0
	for _, res := range r.Results {
		if res.Status.Failed() {
			n++
		}
	}
	return n
}

// Option configures a ReportBuilder.
type Option func(*ReportBuilder)

// WithLogger sets the logger used for per-nutrient diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *ReportBuilder) {
		b.logger = logger
	}
}

// ReportBuilder runs classification, requirement and conversion for every
// nutrient and collects the results in canonical order.
type ReportBuilder struct {
	classifier *Classifier
	calculator *RequirementCalculator
	converter  *ConversionEngine
	logger     zerolog.Logger
}

// NewReportBuilder wires the three calculator stages together.
func NewReportBuilder(
	classifier *Classifier,
	calculator *RequirementCalculator,
	converter *ConversionEngine,
	opts ...Option,
) *ReportBuilder {
	b := &ReportBuilder{
		classifier: classifier,
		calculator: calculator,
		converter:  converter,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewReportBuilderFromTables builds all stages over one set of tables.
func NewReportBuilderFromTables(t Tables, opts ...Option) *ReportBuilder {
	return NewReportBuilder(
		NewClassifier(t.Thresholds),
		NewRequirementCalculator(t.Thresholds, t.Varieties),
		NewConversionEngine(t.Conversions),
		opts...,
	)
}

// NewDefaultReportBuilder builds all stages over the built-in tables.
func NewDefaultReportBuilder(opts ...Option) *ReportBuilder {
	return NewReportBuilderFromTables(DefaultTables(), opts...)
}

// Build evaluates every present input in canonical nutrient order. Absent
// nutrients are skipped; a failing nutrient produces a failed result and
// never stops the others.
func (b *ReportBuilder) Build(inputs Inputs, variety string) Report {
	for n := range inputs {
		if !n.Valid() {
			b.logger.Debug().Str("nutrient", string(n)).Msg("ignoring input for unknown nutrient")
		}
	}

	report := Report{Variety: variety}
	for _, n := range Nutrients() {
		value, ok := inputs[n]
		if !ok {
			continue
		}
		report.Results = append(report.Results, b.Evaluate(n, value, variety))
	}
	return report
}

// Evaluate computes the result for a single nutrient value.
func (b *ReportBuilder) Evaluate(n Nutrient, value float64, variety string) NutrientResult {
	res := NutrientResult{Nutrient: n, Value: value, Variety: variety}

	class, err := b.classifier.Classify(n, value)
	if err != nil {
		b.logger.Debug().Err(err).Str("nutrient", string(n)).Float64("value", value).Msg("value not classified")
		res.Status = StatusUnclassified
		res.Err = err
		return res
	}
	res.Class = &class

	fr, err := b.calculator.Compute(n, variety, class, value)
	if err != nil {
		b.logger.Debug().Err(err).
			Str("nutrient", string(n)).
			Str("variety", variety).
			Stringer("class", class).
			Msg("no recommendation")
		res.Err = err
		if errors.Is(err, ErrNoClassRange) {
			res.Status = StatusNoClassRange
		} else {
			res.Status = StatusNoRecommendation
		}
		return res
	}
	res.Requirement = fr

	product, mass, err := b.converter.ToProductMass(n, fr)
	if err != nil {
		res.Status = StatusNoConversion
		res.Err = err
		return res
	}
	res.Status = StatusOK
	res.Product = product
	res.ProductMass = mass
	return res
}

// Calculate builds a report over the built-in tables and renders it as text.
func Calculate(inputs Inputs, variety string) string {
	return NewDefaultReportBuilder().Build(inputs, variety).Text()
}
