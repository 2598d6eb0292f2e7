// Package tableset reads and writes calculator tables as YAML so thresholds,
// variety recommendations and fertilizer conversions can be replaced without
// a rebuild.
package tableset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/fertcalc/internal/soil"
)

// SchemaVersion is the version written by Encode.
const SchemaVersion = "1.0.0"

// supportedSchemas is the range of schema versions Decode accepts.
const supportedSchemas = ">= 1.0.0, < 2.0.0"

// Validation errors.
var (
	ErrMissingSchemaVersion     = errors.New("schema_version is required")
	ErrUnsupportedSchemaVersion = errors.New("unsupported schema_version")
	ErrMalformedBand            = errors.New("band must have exactly two bounds [lo, hi]")
)

// File is the YAML document layout. Sections left out fall back to the
// built-in tables.
type File struct {
	SchemaVersion string           `yaml:"schema_version"`
	Thresholds    []NutrientBands  `yaml:"thresholds,omitempty"`
	Varieties     []VarietyEntry   `yaml:"varieties,omitempty"`
	Conversions   []ConversionItem `yaml:"conversions,omitempty"`
}

// NutrientBands lists the bands of one nutrient.
type NutrientBands struct {
	Nutrient string     `yaml:"nutrient"`
	Bands    []BandItem `yaml:"bands"`
}

// BandItem is one class with its inclusive [lo, hi] bounds.
type BandItem struct {
	Class string    `yaml:"class"`
	Range []float64 `yaml:"range,flow"`
}

// VarietyEntry is one variety with its recommended ranges in kg/ha.
type VarietyEntry struct {
	Key             string          `yaml:"key"`
	Label           string          `yaml:"label,omitempty"`
	Recommendations []NutrientBands `yaml:"recommendations"`
}

// ConversionItem maps a nutrient to a fertilizer product.
type ConversionItem struct {
	Nutrient string  `yaml:"nutrient"`
	Product  string  `yaml:"product"`
	Ratio    float64 `yaml:"ratio"`
}

// LoadFile reads a table set from path.
func LoadFile(path string) (soil.Tables, error) {
	f, err := os.Open(path)
	if err != nil {
		return soil.Tables{}, fmt.Errorf("opening tables file: %w", err)
	}
	defer f.Close()

	tables, err := Decode(f)
	if err != nil {
		return soil.Tables{}, fmt.Errorf("tables file %s: %w", path, err)
	}
	return tables, nil
}

// Decode parses and validates a YAML table set.
func Decode(r io.Reader) (soil.Tables, error) {
	var doc File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return soil.Tables{}, ErrMissingSchemaVersion
		}
		return soil.Tables{}, fmt.Errorf("parsing YAML: %w", err)
	}
	return doc.Tables()
}

// CheckSchemaVersion verifies that version is a semantic version this
// package can read.
func CheckSchemaVersion(version string) error {
	if version == "" {
		return ErrMissingSchemaVersion
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchemaVersion, version, err)
	}
	constraint, err := semver.NewConstraint(supportedSchemas)
	if err != nil {
		return fmt.Errorf("invalid schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s (supported %s)", ErrUnsupportedSchemaVersion, version, supportedSchemas)
	}
	return nil
}

// Tables converts the document into validated calculator tables.
func (f File) Tables() (soil.Tables, error) {
	if err := CheckSchemaVersion(f.SchemaVersion); err != nil {
		return soil.Tables{}, err
	}

	tables := soil.DefaultTables()

	if len(f.Thresholds) > 0 {
		rows, err := toRows(f.Thresholds)
		if err != nil {
			return soil.Tables{}, fmt.Errorf("thresholds: %w", err)
		}
		if tables.Thresholds, err = soil.NewThresholdTable(rows); err != nil {
			return soil.Tables{}, err
		}
	}

	if len(f.Varieties) > 0 {
		varieties := make([]soil.Variety, 0, len(f.Varieties))
		for _, entry := range f.Varieties {
			rows, err := toRows(entry.Recommendations)
			if err != nil {
				return soil.Tables{}, fmt.Errorf("variety %q: %w", entry.Key, err)
			}
			v, err := soil.NewVariety(entry.Key, entry.Label, rows)
			if err != nil {
				return soil.Tables{}, err
			}
			varieties = append(varieties, v)
		}
		var err error
		if tables.Varieties, err = soil.NewVarietyTable(varieties...); err != nil {
			return soil.Tables{}, err
		}
	}

	if len(f.Conversions) > 0 {
		rows := make(map[soil.Nutrient]soil.Conversion, len(f.Conversions))
		for _, item := range f.Conversions {
			n, err := soil.ParseNutrient(item.Nutrient)
			if err != nil {
				return soil.Tables{}, fmt.Errorf("conversions: %w", err)
			}
			rows[n] = soil.Conversion{Product: item.Product, Ratio: item.Ratio}
		}
		var err error
		if tables.Conversions, err = soil.NewConversionTable(rows); err != nil {
			return soil.Tables{}, err
		}
	}

	return tables, nil
}

func toRows(items []NutrientBands) (map[soil.Nutrient]soil.Bands, error) {
	rows := make(map[soil.Nutrient]soil.Bands, len(items))
	for _, item := range items {
		n, err := soil.ParseNutrient(item.Nutrient)
		if err != nil {
			return nil, err
		}
		bands := make(soil.Bands, len(item.Bands))
		for _, b := range item.Bands {
			c, err := soil.ParseClass(b.Class)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", n, err)
			}
			if len(b.Range) != 2 {
				return nil, fmt.Errorf("%s %q: %w", n, c, ErrMalformedBand)
			}
			bands[c] = soil.Range{Lo: b.Range[0], Hi: b.Range[1]}
		}
		rows[n] = bands
	}
	return rows, nil
}

// FromTables converts calculator tables into a document, in canonical
// nutrient and class order.
func FromTables(t soil.Tables) File {
	doc := File{SchemaVersion: SchemaVersion}

	for _, n := range t.Thresholds.Nutrients() {
		doc.Thresholds = append(doc.Thresholds, NutrientBands{
			Nutrient: string(n),
			Bands:    toItems(t.Thresholds.Bands(n)),
		})
	}

	for _, v := range t.Varieties.Varieties() {
		entry := VarietyEntry{Key: v.Key(), Label: v.Label()}
		for _, n := range v.Nutrients() {
			entry.Recommendations = append(entry.Recommendations, NutrientBands{
				Nutrient: string(n),
				Bands:    toItems(v.Bands(n)),
			})
		}
		doc.Varieties = append(doc.Varieties, entry)
	}

	for _, n := range t.Conversions.Nutrients() {
		c, _ := t.Conversions.Lookup(n)
		doc.Conversions = append(doc.Conversions, ConversionItem{
			Nutrient: string(n),
			Product:  c.Product,
			Ratio:    c.Ratio,
		})
	}

	return doc
}

func toItems(bands []soil.ClassBand) []BandItem {
	items := make([]BandItem, 0, len(bands))
	for _, b := range bands {
		items = append(items, BandItem{Class: b.Class.String(), Range: []float64{b.Range.Lo, b.Range.Hi}})
	}
	return items
}

// Encode writes t as a YAML table set.
func Encode(w io.Writer, t soil.Tables) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromTables(t)); err != nil {
		return fmt.Errorf("encoding tables: %w", err)
	}
	return enc.Close()
}
