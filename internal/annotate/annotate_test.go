package annotate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
)

func fixture(name string) string {
	return filepath.Join("testdata", name)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Metre Per Second²", "meter per second2"},
		{"degree-Celsius", "degree celsius"},
		{"newton·metre", "newton meter"},
		{"joule_per_kilogram", "joule per kilogram"},
		{"Litres", "liters"},
		{"gramme", "gram"},
		{"°C", "c"},
		{"  spaced   out  ", "spaced out"},
		{"", ""},
		{"†‡", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNormalizeUCUM(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"m·s", "m.s"},
		{"kg m", "kgm"},
		{`m\s`, "m/s"},
		{"Cel", "Cel"},
		{"″", "''"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeUCUM(tt.in))
		})
	}
}

func TestUOTermCURIE(t *testing.T) {
	term := &UOTerm{URI: "http://purl.obolibrary.org/obo/UO_0000008"}
	assert.Equal(t, "UO:0000008", term.CURIE())
}

func TestLoadUOTerms(t *testing.T) {
	nameMap, err := LoadUOTerms(fixture("uo.csv"))
	require.NoError(t, err)

	meters := nameMap["meter"]
	require.Len(t, meters, 1)
	assert.Equal(t, "UO:0000008", meters[0].CURIE())

	// Synonyms land on the same term as the label.
	assert.Same(t, meters[0], nameMap["m"][0])

	// "degree" is carried by the angle term's label and the Celsius term's
	// synonym.
	assert.Len(t, nameMap["degree"], 2)
}

func TestLoadOMTerms(t *testing.T) {
	nameMap, uriMap, err := LoadOMTerms(fixture("om.rdf"))
	require.NoError(t, err)

	metre, ok := uriMap[OMBase+"metre"]
	require.True(t, ok)
	assert.Equal(t, "metre", metre.Label)
	assert.Equal(t, "The metre is the SI base unit of length.", metre.Definition)
	assert.Equal(t, []string{"length"}, metre.Quantities)

	// British label, symbol, and URI tail all resolve to the term.
	require.Len(t, nameMap["meter"], 1)
	assert.Same(t, metre, nameMap["meter"][0])
	assert.Same(t, metre, nameMap["m"][0])

	// Alternative labels and symbols of litre are indexed too.
	require.Len(t, nameMap["cubic decimeter"], 1)
	assert.Equal(t, "litre", nameMap["cubic decimeter"][0].Label)

	// Quantity and application-area resources are not unit terms.
	_, ok = uriMap[OMBase+"Length"]
	assert.False(t, ok)
	assert.Empty(t, nameMap["astronomy"])
}

func TestLoadUCUMCodes(t *testing.T) {
	codeMap, uriMap, err := LoadUCUMCodes(fixture("ucum.ttl"))
	require.NoError(t, err)

	require.Len(t, codeMap["m"], 1)
	assert.Equal(t, OMBase+"metre", codeMap["m"][0].URI)

	require.Len(t, uriMap[OMBase+"degreeCelsius"], 1)
	assert.Equal(t, "Cel", uriMap[OMBase+"degreeCelsius"][0].Code)
}

func loadFixtureOntologies(t *testing.T) *Ontologies {
	t.Helper()
	ont, err := LoadOntologies(fixture("uo.csv"), fixture("om.rdf"), fixture("ucum.ttl"))
	require.NoError(t, err)
	return ont
}

func TestAnnotate(t *testing.T) {
	ont := loadFixtureOntologies(t)
	records := []domain.UnitRecord{
		{Unit: "meter", CanonicalUnit: "meter", Symbol: "m", Property: "length", Quantity: "length"},
		{Unit: "degree Celsius", CanonicalUnit: "degree·Celsius", Symbol: "°C", Property: "temperature", Quantity: "temperature"},
		{Unit: "liter", CanonicalUnit: "liter", Symbol: "L", Property: "volume", Quantity: "volume"},
		{Unit: "charisma point", CanonicalUnit: "charisma·point", Symbol: "chp", Property: "charisma", Quantity: "charisma"},
	}

	annotated, stats := Annotate(records, ont)
	require.Len(t, annotated, 4)
	assert.Equal(t, Stats{Total: 4, UOMatches: 2, UCUMMatches: 3, OMMatches: 3}, stats)

	t.Run("meter matches all three ontologies", func(t *testing.T) {
		rec := annotated[0]
		assert.Equal(t, map[string]string{"uo": "UO:0000008", "ucum": "m"}, rec.ExternalIDs)
		require.Contains(t, rec.OntologyMetadata, "om")
		om := rec.OntologyMetadata["om"]
		assert.Equal(t, OMBase+"metre", om.URI)
		assert.Equal(t, []string{"length"}, om.Quantities)
		assert.Equal(t, "m", om.UCUMCode)
	})

	t.Run("celsius recovers its UCUM code through the OM resource", func(t *testing.T) {
		rec := annotated[1]
		assert.Equal(t, "UO:0000027", rec.ExternalIDs["uo"])
		assert.Equal(t, "Cel", rec.ExternalIDs["ucum"])
		assert.Equal(t, "Cel", rec.OntologyMetadata["om"].UCUMCode)
	})

	t.Run("liter has UCUM and OM but no UO entry", func(t *testing.T) {
		rec := annotated[2]
		assert.Equal(t, map[string]string{"ucum": "L"}, rec.ExternalIDs)
		assert.NotContains(t, rec.OntologyMetadata, "uo")
		assert.Equal(t, "litre", rec.OntologyMetadata["om"].Label)
	})

	t.Run("unmatched record stays bare", func(t *testing.T) {
		rec := annotated[3]
		assert.Nil(t, rec.ExternalIDs)
		assert.Nil(t, rec.OntologyMetadata)
	})
}

func TestAnnotate_ClearsStaleCrossReferences(t *testing.T) {
	ont := loadFixtureOntologies(t)
	records := []domain.UnitRecord{{
		Unit: "charisma point", Symbol: "chp", Property: "charisma", Quantity: "charisma",
		ExternalIDs:      map[string]string{"uo": "UO:9999999"},
		OntologyMetadata: map[string]domain.OntologyTerm{"uo": {Label: "stale"}},
	}}
	annotated, _ := Annotate(records, ont)
	assert.Nil(t, annotated[0].ExternalIDs)
	assert.Nil(t, annotated[0].OntologyMetadata)
}

func TestSelectBestUO_Ambiguity(t *testing.T) {
	ont := loadFixtureOntologies(t)

	t.Run("property steers degree to the angle term", func(t *testing.T) {
		rec := domain.UnitRecord{Unit: "degree", Property: "plane angle", Quantity: "plane angle"}
		term := selectBestUO(rec, ont.UO["degree"], []string{"degree"})
		require.NotNil(t, term)
		assert.Equal(t, "UO:0000185", term.CURIE())
	})

	t.Run("single match still needs context", func(t *testing.T) {
		rec := domain.UnitRecord{Unit: "kelvin", Property: "luminous intensity", Quantity: "luminous intensity"}
		assert.Nil(t, selectBestUO(rec, ont.UO["kelvin"], []string{"kelvin"}))
	})
}

func TestApply(t *testing.T) {
	ont := loadFixtureOntologies(t)
	base := []domain.UnitRecord{
		{Unit: "meter", CanonicalUnit: "meter", Symbol: "m", Property: "length", Quantity: "length"},
		{Unit: "charisma point", Symbol: "chp", Property: "charisma", Quantity: "charisma"},
	}
	annotated, _ := Annotate(base, ont)

	updated, changed := Apply(base, annotated)
	assert.Equal(t, 1, changed)
	assert.Equal(t, "UO:0000008", updated[0].ExternalIDs["uo"])
	assert.Nil(t, updated[1].ExternalIDs)

	// A second application is a no-op.
	_, changed = Apply(updated, annotated)
	assert.Equal(t, 0, changed)
}
