package annotate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// UOTerm is one class from the Unit Ontology CSV export.
type UOTerm struct {
	URI        string
	Label      string
	Definition string

	labelNorm      string
	definitionNorm string
}

// CURIE returns the compact identifier for the term, e.g.
// http://purl.obolibrary.org/obo/UO_0000008 → UO:0000008.
func (t *UOTerm) CURIE() string {
	tail := t.URI
	if i := strings.LastIndexByte(tail, '/'); i >= 0 {
		tail = tail[i+1:]
	}
	return strings.ReplaceAll(tail, "_", ":")
}

// LoadUOTerms parses the UO CSV export into a map from normalized name
// (label or synonym) to the terms carrying that name.
func LoadUOTerms(path string) (map[string][]*UOTerm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open UO export: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read UO header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	nameMap := make(map[string][]*UOTerm)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read UO export: %w", err)
		}

		uri := field(row, "Class ID")
		if uri == "" {
			continue
		}
		label := field(row, "Preferred Label")
		term := &UOTerm{
			URI:            uri,
			Label:          label,
			Definition:     field(row, "Definitions"),
			labelNorm:      NormalizeName(label),
			definitionNorm: NormalizeName(field(row, "Definitions")),
		}

		names := []string{label}
		for _, key := range []string{"Synonyms", "has_exact_synonym", "has_related_synonym"} {
			for _, syn := range strings.Split(field(row, key), "|") {
				if syn = strings.TrimSpace(syn); syn != "" {
					names = append(names, syn)
				}
			}
		}

		seen := make(map[string]bool, len(names))
		for _, name := range names {
			key := NormalizeName(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			nameMap[key] = append(nameMap[key], term)
		}
	}
	return nameMap, nil
}
