package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/validate"
)

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	table, err := domain.LoadQuantityTable()
	require.NoError(t, err)
	return NewNormalizer(table)
}

func TestNormalizeSI_Basic(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}

	rec, ok := n.NormalizeSI(SIRawRecord{
		Name:       "kilometre",
		Symbol:     "km",
		Quantity:   "length",
		BaseUnit:   "metre",
		Multiplier: 1000.0,
		System:     "Metric",
	}, 1, report)

	require.True(t, ok, "unexpected violations: %v", report.Violations())
	assert.Equal(t, "kilometer", rec.Unit)
	assert.Equal(t, "kilometer", rec.CanonicalUnit)
	assert.Equal(t, "kilo", rec.Prefix)
	assert.Equal(t, "kilometers", rec.Plural)
	assert.Equal(t, "length", rec.Property)
	assert.Equal(t, "length", rec.Quantity)
	assert.Equal(t, "meter", rec.ReferenceUnit)
	assert.True(t, domain.Dimension{"L": 1}.Equal(rec.Dimension))
}

func TestNormalizeUOM_Composition(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}

	rec, ok := n.NormalizeUOM(UOMRawRecord{
		Unit:             "meter per second squared",
		Abbreviation:     "m/s²",
		Property:         "acceleration",
		ConversionFactor: 1.0,
		ReferenceUnit:    "meter per second squared",
		System:           "SI",
		Composition: []RawFactor{
			{Unit: "meter", Exponent: 1},
			{Unit: "second", Exponent: -2},
		},
	}, 1, report)

	require.True(t, ok, "unexpected violations: %v", report.Violations())
	assert.Equal(t, "meter/second²", rec.CanonicalUnit)
	assert.True(t, domain.Dimension{"L": 1, "T": -2}.Equal(rec.Dimension))
	assert.Empty(t, rec.Prefix)
}

func TestNormalize_MissingFieldsReported(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}

	_, ok := n.NormalizeSI(SIRawRecord{
		Name:   "mystery",
		System: "SI",
	}, 7, report)

	require.False(t, ok)
	require.NotEmpty(t, report.Violations())
	for _, v := range report.Violations() {
		assert.Equal(t, 7, v.Line)
	}
	var sawMissing bool
	for _, v := range report.Violations() {
		if v.Kind == validate.KindMissingField {
			sawMissing = true
		}
	}
	assert.True(t, sawMissing)
}

func TestNormalize_InvalidSystem(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}

	_, ok := n.NormalizeUOM(UOMRawRecord{
		Unit:             "cubit",
		Abbreviation:     "cbt",
		Property:         "length",
		ConversionFactor: 0.4572,
		ReferenceUnit:    "meter",
		System:           "Egyptian",
	}, 3, report)

	require.False(t, ok)
	require.Len(t, report.Violations(), 1)
	assert.Equal(t, validate.KindInvalidEnum, report.Violations()[0].Kind)
	assert.Contains(t, report.Violations()[0].Message, "Egyptian")
}

func TestNormalize_UnknownQuantity(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}

	_, ok := n.NormalizeUOM(UOMRawRecord{
		Unit:             "point",
		Abbreviation:     "pt",
		Property:         "charisma",
		ConversionFactor: 1.0,
		ReferenceUnit:    "one",
		System:           "other",
	}, 1, report)

	require.False(t, ok)
	require.Len(t, report.Violations(), 1)
	assert.Equal(t, validate.KindInvalidEnum, report.Violations()[0].Kind)
}

func TestNormalize_DimensionlessQuantity(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}

	rec, ok := n.NormalizeUOM(UOMRawRecord{
		Unit:             "dozen",
		Abbreviation:     "doz",
		Property:         "ratio",
		ConversionFactor: 12.0,
		ReferenceUnit:    "one",
		System:           "other",
	}, 1, report)

	require.True(t, ok)
	require.NotNil(t, rec.Dimension)
	assert.Empty(t, rec.Dimension)
}

func TestNormalize_AffineOffsetCarried(t *testing.T) {
	n := newNormalizer(t)
	report := &validate.Report{}
	offset := 273.15

	rec, ok := n.NormalizeSI(SIRawRecord{
		Name:       "degree Celsius",
		Symbol:     "°C",
		Quantity:   "temperature",
		BaseUnit:   "kelvin",
		Multiplier: 1.0,
		Offset:     &offset,
		System:     "Metric",
	}, 1, report)

	require.True(t, ok)
	require.NotNil(t, rec.ConversionOffset)
	assert.Equal(t, 273.15, *rec.ConversionOffset)
	assert.Equal(t, "degree·Celsius", rec.CanonicalUnit)
	assert.Equal(t, 273.15, rec.ToReference(0))
}

func TestSpell(t *testing.T) {
	tests := []struct{ in, want string }{
		{"metre", "meter"},
		{"kilometre", "kilometer"},
		{"litres", "liters"},
		{"litre per hour", "liter per hour"},
		{"grammes", "grams"},
		{"meter", "meter"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Spell(tt.in), tt.in)
	}
}

func TestDetectPrefix(t *testing.T) {
	tests := []struct{ unit, want string }{
		{"kilometer", "kilo"},
		{"milligram", "milli"},
		{"gibibyte", "gibi"},
		{"meter", ""},
		{"micron", ""},  // remainder too short to be a unit name
		{"hectare", ""}, // not hecto + are
		{"degree Celsius", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPrefix(tt.unit), tt.unit)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct{ in, want string }{
		{"km", "km"},
		{"Pa", "Pa"},
		{"MHz", "MHz"},
		{"kW", "kW"},
		{"°C", "°C"},
		{"m/s²", "m/s²"},
		{"statT", "statT"},
		{"CBT", "cbt"},
		{"Doz", "doz"},
		{"Btu_th", "Btu_th"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeSymbol(tt.in), tt.in)
	}
}
