package annotate

import (
	"fmt"
	"strings"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
)

// Ontologies bundles the three loaded exports.
type Ontologies struct {
	UO      map[string][]*UOTerm
	OMNames map[string][]*OMTerm
	OMURIs  map[string]*OMTerm
	UCUM    map[string][]*UCUMEntry
	UCUMURI map[string][]*UCUMEntry
}

// LoadOntologies reads all three exports from disk.
func LoadOntologies(uoPath, omPath, ucumPath string) (*Ontologies, error) {
	uo, err := LoadUOTerms(uoPath)
	if err != nil {
		return nil, fmt.Errorf("load UO terms: %w", err)
	}
	omNames, omURIs, err := LoadOMTerms(omPath)
	if err != nil {
		return nil, fmt.Errorf("load OM terms: %w", err)
	}
	ucum, ucumURI, err := LoadUCUMCodes(ucumPath)
	if err != nil {
		return nil, fmt.Errorf("load UCUM codes: %w", err)
	}
	return &Ontologies{UO: uo, OMNames: omNames, OMURIs: omURIs, UCUM: ucum, UCUMURI: ucumURI}, nil
}

// Stats counts the matches made by one annotation pass.
type Stats struct {
	Total       int
	UOMatches   int
	UCUMMatches int
	OMMatches   int
}

// Annotate cross-references every record against the loaded ontologies and
// returns annotated copies. Existing cross-references are discarded first so
// the pass is authoritative over external_ids and ontology_metadata.
func Annotate(records []domain.UnitRecord, ont *Ontologies) ([]domain.UnitRecord, Stats) {
	stats := Stats{Total: len(records)}
	out := make([]domain.UnitRecord, 0, len(records))
	for _, record := range records {
		augmented := record
		augmented.ExternalIDs = nil
		augmented.OntologyMetadata = nil

		names := []string{record.Unit, record.CanonicalUnit}
		names = append(names, record.AlternateUnit...)
		if record.Symbol != "" {
			names = append(names, record.Symbol)
		}
		var candidates []string
		for _, name := range names {
			if norm := NormalizeName(name); norm != "" {
				candidates = append(candidates, norm)
			}
		}

		var uoTerm *UOTerm
		for _, norm := range candidates {
			if term := selectBestUO(record, ont.UO[norm], candidates); term != nil {
				uoTerm = term
				stats.UOMatches++
				break
			}
		}

		var ucumEntry *UCUMEntry
		if key := NormalizeUCUM(record.Symbol); key != "" {
			if ucumEntry = selectUCUMEntry(record, ont.UCUM[key]); ucumEntry != nil {
				stats.UCUMMatches++
			}
		}

		var omEntry *OMTerm
		if ucumEntry != nil {
			omEntry = ont.OMURIs[ucumEntry.URI]
		}
		if omEntry == nil {
			var omCandidates []*OMTerm
			for _, norm := range candidates {
				omCandidates = append(omCandidates, ont.OMNames[norm]...)
			}
			omEntry = selectBestOM(record, omCandidates, candidates)
			if ucumEntry == nil && omEntry != nil {
				if ucumEntry = findUnique(ont.UCUMURI[omEntry.URI]); ucumEntry != nil {
					stats.UCUMMatches++
				}
			}
		}
		if omEntry != nil {
			stats.OMMatches++
		}

		externalIDs := map[string]string{}
		metadata := map[string]domain.OntologyTerm{}
		if uoTerm != nil {
			externalIDs["uo"] = uoTerm.CURIE()
			metadata["uo"] = domain.OntologyTerm{Label: uoTerm.Label, Definition: uoTerm.Definition}
		}
		if ucumEntry != nil {
			externalIDs["ucum"] = ucumEntry.Code
		}
		if omEntry != nil {
			term := domain.OntologyTerm{
				URI:        omEntry.URI,
				Label:      omEntry.Label,
				Definition: omEntry.Definition,
			}
			if len(omEntry.Quantities) > 0 {
				term.Quantities = append([]string(nil), omEntry.Quantities...)
			}
			if code, ok := externalIDs["ucum"]; ok {
				term.UCUMCode = code
			}
			metadata["om"] = term
		}

		if len(externalIDs) > 0 {
			augmented.ExternalIDs = externalIDs
		}
		if len(metadata) > 0 {
			augmented.OntologyMetadata = metadata
		}
		out = append(out, augmented)
	}
	return out, stats
}

// selectBestUO picks the UO term for a record among the terms sharing one of
// its normalized names. Ambiguous hits are scored by how well the label and
// definition echo the record's property and quantity; a winner still has to
// clear the context check so "degree" never lands on an unrelated term.
func selectBestUO(record domain.UnitRecord, matches []*UOTerm, candidates []string) *UOTerm {
	if len(matches) == 0 {
		return nil
	}
	prop := NormalizeName(record.Property)
	quantity := NormalizeName(record.Quantity)
	nameSet := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		nameSet[c] = true
	}

	if len(matches) == 1 {
		term := matches[0]
		if (prop == "" && quantity == "") || uoMatchesContext(term, prop, quantity) {
			return term
		}
		return nil
	}

	var best *UOTerm
	bestScore := 0
	for _, term := range matches {
		score := 0
		if term.labelNorm != "" && nameSet[term.labelNorm] {
			score += 4
		}
		if prop != "" {
			if strings.Contains(term.labelNorm, prop) {
				score += 3
			}
			if strings.Contains(term.definitionNorm, prop) {
				score += 2
			}
		}
		if quantity != "" && quantity != prop {
			if strings.Contains(term.labelNorm, quantity) {
				score += 2
			}
			if strings.Contains(term.definitionNorm, quantity) {
				score += 1
			}
		}
		if score > bestScore {
			best = term
			bestScore = score
		}
	}
	if bestScore > 0 {
		if (prop == "" && quantity == "") || uoMatchesContext(best, prop, quantity) {
			return best
		}
	}
	return nil
}

func uoMatchesContext(term *UOTerm, prop, quantity string) bool {
	for _, needle := range []string{prop, quantity} {
		if needle == "" {
			continue
		}
		if term.labelNorm != "" && strings.Contains(term.labelNorm, needle) {
			return true
		}
		if term.definitionNorm != "" && strings.Contains(term.definitionNorm, needle) {
			return true
		}
	}
	return false
}

// selectUCUMEntry disambiguates UCUM entries sharing a normalized code by
// matching the OM URI tail against the record's names.
func selectUCUMEntry(record domain.UnitRecord, entries []*UCUMEntry) *UCUMEntry {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) == 1 {
		return entries[0]
	}
	targets := make(map[string]bool)
	names := []string{record.Unit, record.CanonicalUnit}
	names = append(names, record.AlternateUnit...)
	for _, name := range names {
		if norm := NormalizeName(name); norm != "" {
			targets[norm] = true
		}
	}
	for _, entry := range entries {
		tail := entry.URI[strings.LastIndexByte(entry.URI, '/')+1:]
		if norm := NormalizeName(tail); norm != "" && targets[norm] {
			return entry
		}
	}
	return nil
}

// selectBestOM prefers OM terms whose declared quantities include the
// record's property, then quantity, then a label hit among the record's
// names, and finally falls back to the first candidate.
func selectBestOM(record domain.UnitRecord, entries []*OMTerm, candidates []string) *OMTerm {
	if len(entries) == 0 {
		return nil
	}
	if len(entries) == 1 {
		return entries[0]
	}
	if prop := NormalizeName(record.Property); prop != "" {
		for _, entry := range entries {
			if containsString(entry.Quantities, prop) {
				return entry
			}
		}
	}
	if quantity := NormalizeName(record.Quantity); quantity != "" {
		for _, entry := range entries {
			if containsString(entry.Quantities, quantity) {
				return entry
			}
		}
	}
	nameSet := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		nameSet[c] = true
	}
	for _, entry := range entries {
		if entry.labelNorm != "" && nameSet[entry.labelNorm] {
			return entry
		}
	}
	return entries[0]
}

func findUnique(entries []*UCUMEntry) *UCUMEntry {
	if len(entries) == 1 {
		return entries[0]
	}
	return nil
}

func containsString(list []string, needle string) bool {
	for _, s := range list {
		if s == needle {
			return true
		}
	}
	return false
}
