package tableset_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/fertcalc/internal/soil"
	"github.com/rshade/fertcalc/internal/tableset"
)

const customYAML = `schema_version: "1.2.0"
thresholds:
  - nutrient: N
    bands:
      - {class: Low, range: [0, 0.1]}
      - {class: Medium, range: [0.1, 0.3]}
varieties:
  - key: boro
    label: Boro Trial
    recommendations:
      - nutrient: N
        bands:
          - {class: low, range: [60, 90]}
          - {class: medium, range: [30, 60]}
conversions:
  - {nutrient: n, product: Urea, ratio: 2.17}
`

func TestDecode_Custom(t *testing.T) {
	tables, err := tableset.Decode(strings.NewReader(customYAML))
	require.NoError(t, err)

	band, ok := tables.Thresholds.Band(soil.Nitrogen, soil.Medium)
	require.True(t, ok)
	assert.Equal(t, soil.Range{Lo: 0.1, Hi: 0.3}, band)
	assert.False(t, tables.Thresholds.Has(soil.Phosphorus))

	require.Equal(t, 1, tables.Varieties.Len())
	v, ok := tables.Varieties.Lookup("Boro Trial")
	require.True(t, ok)
	assert.Equal(t, "boro", v.Key())
	rec, err := v.Recommendation(soil.Nitrogen, soil.Low)
	require.NoError(t, err)
	assert.Equal(t, soil.Range{Lo: 60, Hi: 90}, rec)

	conv, ok := tables.Conversions.Lookup(soil.Nitrogen)
	require.True(t, ok)
	assert.Equal(t, "Urea", conv.Product)
	assert.Equal(t, []soil.Nutrient{soil.Nitrogen}, tables.Conversions.Nutrients())
}

func TestDecode_MissingSectionsUseDefaults(t *testing.T) {
	tables, err := tableset.Decode(strings.NewReader(`schema_version: "1.0.0"
conversions:
  - {nutrient: B, product: Solubor, ratio: 4.8}
`))
	require.NoError(t, err)

	defaults := soil.DefaultTables()
	assert.Equal(t, defaults.Thresholds.Nutrients(), tables.Thresholds.Nutrients())
	assert.Equal(t, defaults.Varieties.Len(), tables.Varieties.Len())

	conv, ok := tables.Conversions.Lookup(soil.Boron)
	require.True(t, ok)
	assert.Equal(t, "Solubor", conv.Product)
	_, ok = tables.Conversions.Lookup(soil.Nitrogen)
	assert.False(t, ok, "a conversions section replaces the whole table")
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		wantMsg string
	}{
		{name: "empty document", input: "", wantErr: tableset.ErrMissingSchemaVersion},
		{name: "no version", input: "conversions: []\n", wantErr: tableset.ErrMissingSchemaVersion},
		{name: "major too new", input: `schema_version: "2.0.0"`, wantErr: tableset.ErrUnsupportedSchemaVersion},
		{name: "not semver", input: `schema_version: "one"`, wantErr: tableset.ErrUnsupportedSchemaVersion},
		{
			name: "unknown nutrient",
			input: `schema_version: "1.0.0"
thresholds:
  - nutrient: Mg
    bands: []
`,
			wantErr: soil.ErrUnknownNutrient,
		},
		{
			name: "unknown class",
			input: `schema_version: "1.0.0"
thresholds:
  - nutrient: N
    bands:
      - {class: Tiny, range: [0, 1]}
`,
			wantErr: soil.ErrUnknownClass,
		},
		{
			name: "inverted range",
			input: `schema_version: "1.0.0"
thresholds:
  - nutrient: N
    bands:
      - {class: Low, range: [1, 0]}
`,
			wantErr: soil.ErrInvalidRange,
		},
		{
			name: "one bound",
			input: `schema_version: "1.0.0"
thresholds:
  - nutrient: N
    bands:
      - {class: Low, range: [1]}
`,
			wantErr: tableset.ErrMalformedBand,
		},
		{
			name: "zero ratio",
			input: `schema_version: "1.0.0"
conversions:
  - {nutrient: N, product: Urea, ratio: 0}
`,
			wantErr: soil.ErrInvalidRatio,
		},
		{
			name: "duplicate variety",
			input: `schema_version: "1.0.0"
varieties:
  - {key: a, label: A, recommendations: []}
  - {key: a, label: B, recommendations: []}
`,
			wantErr: soil.ErrDuplicateVariety,
		},
		{name: "unknown field", input: "schema_version: \"1.0.0\"\nextra: 1\n", wantMsg: "parsing YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tableset.Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestCheckSchemaVersion(t *testing.T) {
	for _, v := range []string{"1.0.0", "1.9.3", "v1.1.0"} {
		assert.NoError(t, tableset.CheckSchemaVersion(v), v)
	}
	for _, v := range []string{"0.9.0", "2.0.0", "latest"} {
		assert.ErrorIs(t, tableset.CheckSchemaVersion(v), tableset.ErrUnsupportedSchemaVersion, v)
	}
}

func TestEncode_RoundTripsDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, tableset.Encode(&buf, soil.DefaultTables()))
	assert.Contains(t, buf.String(), "schema_version: 1.0.0")
	assert.Contains(t, buf.String(), "class: Very Low")

	decoded, err := tableset.Decode(&buf)
	require.NoError(t, err)

	defaults := soil.DefaultTables()
	for _, n := range soil.Nutrients() {
		assert.Equal(t, defaults.Thresholds.Bands(n), decoded.Thresholds.Bands(n), n)
	}
	for _, want := range defaults.Varieties.Varieties() {
		got, ok := decoded.Varieties.Lookup(want.Key())
		require.True(t, ok, want.Key())
		assert.Equal(t, want.Label(), got.Label())
		for _, n := range want.Nutrients() {
			assert.Equal(t, want.Bands(n), got.Bands(n))
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(customYAML), 0o600))

	tables, err := tableset.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, tables.Varieties.Len())

	_, err = tableset.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening tables file")
}
