// Package derive produces the focused subsets of the canonical dataset.
// Every builder is a pure filter or aggregation over fields already present
// on the records; derivation never introduces new facts, and re-running it
// against an unchanged dataset yields byte-identical files.
package derive

import (
	"path/filepath"
	"sort"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
)

// siBaseDefinitions are the 8 fixed (property, unit) base/interval pairs of
// the SI.
var siBaseDefinitions = map[string]string{
	"length":                    "meter",
	"mass":                      "kilogram",
	"time":                      "second",
	"electric current":          "ampere",
	"thermodynamic temperature": "kelvin",
	"temperature interval":      "kelvin",
	"amount of substance":       "mole",
	"luminous intensity":        "candela",
}

// SIBaseUnit is one row of the si_base_units subset.
type SIBaseUnit struct {
	Unit             string                         `json:"unit"`
	Property         string                         `json:"property"`
	Symbol           string                         `json:"symbol"`
	System           string                         `json:"system"`
	ExternalIDs      map[string]string              `json:"external_ids"`
	OntologyMetadata map[string]domain.OntologyTerm `json:"ontology_metadata"`
}

// PropertySummary is one row of the property_summary subset.
type PropertySummary struct {
	Property         string   `json:"property"`
	Count            int      `json:"count"`
	Systems          []string `json:"systems"`
	ReferenceUnits   []string `json:"reference_units"`
	AnnotatedRecords int      `json:"annotated_records"`
}

// BiomedicalUnit is one row of the biomedical_units subset.
type BiomedicalUnit struct {
	Unit             string                         `json:"unit"`
	Property         string                         `json:"property"`
	Symbol           string                         `json:"symbol"`
	System           string                         `json:"system"`
	ExternalIDs      map[string]string              `json:"external_ids"`
	OntologyMetadata map[string]domain.OntologyTerm `json:"ontology_metadata"`
}

// UOUnit is one row of the uo_units subset, projected through the stored UO
// label/definition as-is.
type UOUnit struct {
	Unit             string               `json:"unit"`
	Property         string               `json:"property"`
	Symbol           string               `json:"symbol"`
	System           string               `json:"system"`
	UOID             string               `json:"uo_id"`
	OntologyMetadata *domain.OntologyTerm `json:"ontology_metadata"`
}

// UCUMUnit is one row of the ucum_units subset.
type UCUMUnit struct {
	Unit       string               `json:"unit"`
	Property   string               `json:"property"`
	Symbol     string               `json:"symbol"`
	System     string               `json:"system"`
	UCUMCode   string               `json:"ucum_code"`
	OMMetadata *domain.OntologyTerm `json:"om_metadata"`
}

// SIBaseUnits keeps records whose (property, unit) pair matches one of the 8
// fixed SI base/interval definitions.
func SIBaseUnits(records []domain.UnitRecord) []SIBaseUnit {
	keep := make([]SIBaseUnit, 0, len(siBaseDefinitions))
	for _, rec := range records {
		if siBaseDefinitions[rec.Property] != rec.Unit {
			continue
		}
		keep = append(keep, SIBaseUnit{
			Unit:             rec.Unit,
			Property:         rec.Property,
			Symbol:           rec.Symbol,
			System:           rec.System,
			ExternalIDs:      rec.ExternalIDs,
			OntologyMetadata: rec.OntologyMetadata,
		})
	}
	return keep
}

// Summarize groups records by property and aggregates the observed systems,
// reference units, and annotated-record counts. Rows are sorted by property.
func Summarize(records []domain.UnitRecord) []PropertySummary {
	type acc struct {
		count     int
		systems   map[string]bool
		refs      map[string]bool
		annotated int
	}
	groups := make(map[string]*acc)
	for _, rec := range records {
		g, ok := groups[rec.Property]
		if !ok {
			g = &acc{systems: map[string]bool{}, refs: map[string]bool{}}
			groups[rec.Property] = g
		}
		g.count++
		if rec.System != "" {
			g.systems[rec.System] = true
		}
		if rec.ReferenceUnit != "" {
			g.refs[rec.ReferenceUnit] = true
		}
		if len(rec.ExternalIDs) > 0 {
			g.annotated++
		}
	}

	properties := make([]string, 0, len(groups))
	for p := range groups {
		properties = append(properties, p)
	}
	sort.Strings(properties)

	out := make([]PropertySummary, 0, len(properties))
	for _, p := range properties {
		g := groups[p]
		out = append(out, PropertySummary{
			Property:         p,
			Count:            g.count,
			Systems:          sortedKeys(g.systems),
			ReferenceUnits:   sortedKeys(g.refs),
			AnnotatedRecords: g.annotated,
		})
	}
	return out
}

// BiomedicalUnits keeps records that already carry a UO identifier, or a
// UCUM code paired with OM metadata.
func BiomedicalUnits(records []domain.UnitRecord) []BiomedicalUnit {
	var keep []BiomedicalUnit
	for _, rec := range records {
		_, hasUO := rec.ExternalIDs["uo"]
		_, hasUCUM := rec.ExternalIDs["ucum"]
		_, hasOM := rec.OntologyMetadata["om"]
		if !hasUO && !(hasUCUM && hasOM) {
			continue
		}
		keep = append(keep, BiomedicalUnit{
			Unit:             rec.Unit,
			Property:         rec.Property,
			Symbol:           rec.Symbol,
			System:           rec.System,
			ExternalIDs:      rec.ExternalIDs,
			OntologyMetadata: rec.OntologyMetadata,
		})
	}
	return keep
}

// UOUnits keeps records whose external_ids carries a UO CURIE.
func UOUnits(records []domain.UnitRecord) []UOUnit {
	var keep []UOUnit
	for _, rec := range records {
		uoID, ok := rec.ExternalIDs["uo"]
		if !ok {
			continue
		}
		keep = append(keep, UOUnit{
			Unit:             rec.Unit,
			Property:         rec.Property,
			Symbol:           rec.Symbol,
			System:           rec.System,
			UOID:             uoID,
			OntologyMetadata: termOrNil(rec.OntologyMetadata, "uo"),
		})
	}
	return keep
}

// UCUMUnits keeps records whose external_ids carries a UCUM code.
func UCUMUnits(records []domain.UnitRecord) []UCUMUnit {
	var keep []UCUMUnit
	for _, rec := range records {
		code, ok := rec.ExternalIDs["ucum"]
		if !ok {
			continue
		}
		keep = append(keep, UCUMUnit{
			Unit:       rec.Unit,
			Property:   rec.Property,
			Symbol:     rec.Symbol,
			System:     rec.System,
			UCUMCode:   code,
			OMMetadata: termOrNil(rec.OntologyMetadata, "om"),
		})
	}
	return keep
}

// Counts reports the row count per focused dataset from one derivation run.
type Counts struct {
	SIBaseUnits     int
	PropertySummary int
	Biomedical      int
	UOUnits         int
	UCUMUnits       int
}

// WriteAll derives every focused subset and writes the JSONL files with
// their JSON mirrors under dir.
func WriteAll(records []domain.UnitRecord, dir string) (Counts, error) {
	siBase := SIBaseUnits(records)
	summary := Summarize(records)
	biomedical := BiomedicalUnits(records)
	uo := UOUnits(records)
	ucum := UCUMUnits(records)

	counts := Counts{
		SIBaseUnits:     len(siBase),
		PropertySummary: len(summary),
		Biomedical:      len(biomedical),
		UOUnits:         len(uo),
		UCUMUnits:       len(ucum),
	}

	if err := writeDataset(dir, "si_base_units", siBase); err != nil {
		return counts, err
	}
	if err := writeDataset(dir, "property_summary", summary); err != nil {
		return counts, err
	}
	if err := writeDataset(dir, "biomedical_units", biomedical); err != nil {
		return counts, err
	}
	if err := writeDataset(dir, "uo_units", uo); err != nil {
		return counts, err
	}
	if err := writeDataset(dir, "ucum_units", ucum); err != nil {
		return counts, err
	}
	return counts, nil
}

func writeDataset[T any](dir, name string, records []T) error {
	if err := jsonl.WriteFile(filepath.Join(dir, name+".jsonl"), records); err != nil {
		return err
	}
	return jsonl.WriteJSONMirror(filepath.Join(dir, name+".json"), records)
}

func termOrNil(meta map[string]domain.OntologyTerm, key string) *domain.OntologyTerm {
	if term, ok := meta[key]; ok {
		return &term
	}
	return nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
