// Package source parses the two raw unit listings and normalizes their
// heterogeneous records into the shared UnitRecord vocabulary.
package source

import (
	"fmt"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
)

// RawFactor is one term of a unit's base-unit composition as written in a
// source listing, e.g. {"unit": "second", "exponent": -2}.
type RawFactor struct {
	Unit     string `json:"unit"`
	Exponent int    `json:"exponent"`
}

// SIRawRecord is a row from the SI-brochure-derived listing. Field names
// follow the brochure's vocabulary rather than the merged schema's.
type SIRawRecord struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Quantity    string      `json:"quantity"`
	Plural      string      `json:"plural,omitempty"`
	Prefix      string      `json:"prefix,omitempty"`
	BaseUnit    string      `json:"base_unit"`
	Multiplier  float64     `json:"multiplier"`
	Offset      *float64    `json:"offset,omitempty"`
	System      string      `json:"system"`
	Composition []RawFactor `json:"composition,omitempty"`
}

// UOMRawRecord is a row from the units-crate-derived listing.
type UOMRawRecord struct {
	Unit             string      `json:"unit"`
	Abbreviation     string      `json:"abbreviation"`
	Property         string      `json:"property"`
	Plural           string      `json:"plural,omitempty"`
	ConversionFactor float64     `json:"conversion_factor"`
	ConversionOffset *float64    `json:"conversion_offset,omitempty"`
	ReferenceUnit    string      `json:"reference_unit"`
	System           string      `json:"system"`
	Aliases          []string    `json:"aliases,omitempty"`
	Composition      []RawFactor `json:"composition,omitempty"`
}

// ReadSIListing parses the SI raw listing from a JSONL file.
func ReadSIListing(path string) ([]SIRawRecord, error) {
	records, err := jsonl.ReadFile[SIRawRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read SI listing: %w", err)
	}
	return records, nil
}

// ReadUOMListing parses the uom raw listing from a JSONL file.
func ReadUOMListing(path string) ([]UOMRawRecord, error) {
	records, err := jsonl.ReadFile[UOMRawRecord](path)
	if err != nil {
		return nil, fmt.Errorf("read uom listing: %w", err)
	}
	return records, nil
}

// factors converts raw composition terms into canonical-builder factors.
func factors(raw []RawFactor) []domain.Factor {
	if len(raw) == 0 {
		return nil
	}
	out := make([]domain.Factor, len(raw))
	for i, f := range raw {
		out[i] = domain.Factor{Unit: f.Unit, Exponent: f.Exponent}
	}
	return out
}
