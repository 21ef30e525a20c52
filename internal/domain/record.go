package domain

// Base-quantity dimension symbols, SI brochure order.
const (
	DimLength      = "L"
	DimMass        = "M"
	DimTime        = "T"
	DimCurrent     = "I"
	DimTemperature = "Θ"
	DimAmount      = "N"
	DimLuminous    = "J"
)

// DimensionKeys is the closed set of valid dimension-vector keys.
var DimensionKeys = map[string]bool{
	DimLength:      true,
	DimMass:        true,
	DimTime:        true,
	DimCurrent:     true,
	DimTemperature: true,
	DimAmount:      true,
	DimLuminous:    true,
}

// Dimension is a base-quantity exponent vector. Only non-zero exponents are
// stored; a present-but-empty map marks a dimensionless quantity.
type Dimension map[string]int

// Equal reports whether two dimension vectors carry the same exponents.
func (d Dimension) Equal(other Dimension) bool {
	if len(d) != len(other) {
		return false
	}
	for k, v := range d {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy. The copy of an empty dimension is an
// empty non-nil map so it still serializes as {}.
func (d Dimension) Clone() Dimension {
	out := make(Dimension, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// MeasurementSystems is the fixed 11-value system vocabulary. Values outside
// this set are a validation failure, never silently accepted.
var MeasurementSystems = map[string]bool{
	"SI":             true,
	"Metric":         true,
	"Imperial":       true,
	"CGS":            true,
	"Nautical":       true,
	"Astronomical":   true,
	"Atomic/Natural": true,
	"IEC":            true,
	"Information":    true,
	"Ancient Roman":  true,
	"other":          true,
}

// OntologyTerm holds descriptive metadata for one ontology cross-reference.
type OntologyTerm struct {
	URI        string   `json:"uri,omitempty"`
	Label      string   `json:"label,omitempty"`
	Definition string   `json:"definition,omitempty"`
	Quantities []string `json:"quantities,omitempty"`
	UCUMCode   string   `json:"ucum_code,omitempty"`
}

// ExternalIDKeys and OntologyMetadataKeys bound the cross-reference maps.
var (
	ExternalIDKeys       = map[string]bool{"uo": true, "ucum": true}
	OntologyMetadataKeys = map[string]bool{"uo": true, "om": true}
)

// UnitRecord is one row of the merged dataset. Struct field order matches the
// documented schema order; the JSONL writer preserves it.
type UnitRecord struct {
	Unit             string                  `json:"unit"`
	CanonicalUnit    string                  `json:"canonical_unit"`
	Prefix           string                  `json:"prefix,omitempty"`
	Symbol           string                  `json:"symbol"`
	Plural           string                  `json:"plural"`
	Property         string                  `json:"property"`
	Quantity         string                  `json:"quantity"`
	Dimension        Dimension               `json:"dimension"`
	ConversionFactor float64                 `json:"conversion_factor"`
	ConversionOffset *float64                `json:"conversion_offset,omitempty"`
	ReferenceUnit    string                  `json:"reference_unit"`
	AlternateUnit    []string                `json:"alternate_unit,omitempty"`
	System           string                  `json:"system"`
	ExternalIDs      map[string]string       `json:"external_ids,omitempty"`
	OntologyMetadata map[string]OntologyTerm `json:"ontology_metadata,omitempty"`
}

// Key identifies a record within a dataset file.
type Key struct {
	Unit     string
	Property string
}

// Key returns the (unit, property) primary key of the record.
func (r UnitRecord) Key() Key {
	return Key{Unit: r.Unit, Property: r.Property}
}

// Affine reports whether the record's conversion law has an offset term
// (Celsius/Fahrenheit-style temperature conversions).
func (r UnitRecord) Affine() bool {
	return r.ConversionOffset != nil
}

// ToReference converts a value expressed in this unit into the record's
// reference unit: value*factor, plus the offset for affine conversions.
func (r UnitRecord) ToReference(value float64) float64 {
	out := value * r.ConversionFactor
	if r.ConversionOffset != nil {
		out += *r.ConversionOffset
	}
	return out
}

// FromReference inverts ToReference.
func (r UnitRecord) FromReference(value float64) float64 {
	if r.ConversionOffset != nil {
		value -= *r.ConversionOffset
	}
	return value / r.ConversionFactor
}
