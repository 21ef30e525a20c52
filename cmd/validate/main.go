// Command validate performs end-to-end integrity checks across the generated
// dataset files: canonical structure, focused dataset shapes, re-derivation
// determinism, ontology annotation quality, and JSON mirror consistency.
//
// Usage:
//
//	go run ./cmd/validate -data jsonl
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/couchcryptid/uom-dataset-etl/internal/derive"
	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
	"github.com/couchcryptid/uom-dataset-etl/internal/validate"
)

const (
	canonicalDataset = "units_of_measurement"
	annotatedDataset = "units_with_ontologies"
)

// focusedDatasets are the files cmd/derive regenerates from the canonical one.
var focusedDatasets = []string{
	"si_base_units", "property_summary", "biomedical_units", "uo_units", "ucum_units",
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataDir := flag.String("data", "jsonl", "directory containing the generated dataset files")
	flag.Parse()

	if code := run(*dataDir); code != 0 {
		os.Exit(code)
	}
}

func run(dataDir string) int {
	fmt.Println("=== Units Dataset Integrity Validation ===")
	fmt.Println()

	table, err := domain.LoadQuantityTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load quantity table: %v\n", err)
		return 1
	}

	canonicalPath := filepath.Join(dataDir, canonicalDataset+".jsonl")
	records, err := jsonl.ReadFile[domain.UnitRecord](canonicalPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load canonical dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCanonicalStructure(dataDir, table),
		validateFocusedShapes(dataDir),
		validateRederivation(dataDir, records),
		validateAnnotationQuality(dataDir),
		validateMirrorConsistency(dataDir),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d canonical\n", len(records))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: canonical dataset structure ──

func validateCanonicalStructure(dataDir string, table *domain.QuantityTable) *phase {
	p := &phase{name: "Canonical dataset structure"}

	lines, trailing, err := jsonl.ReadLines(filepath.Join(dataDir, canonicalDataset+".jsonl"))
	if err != nil {
		p.errorf("read canonical dataset: %v", err)
		return p
	}
	for _, v := range validate.Dataset(lines, trailing, table).Violations() {
		p.errorf("%s", v)
	}
	return p
}

// ── Phase 2: focused dataset shapes ──

func validateFocusedShapes(dataDir string) *phase {
	p := &phase{name: "Focused dataset shapes"}

	names := append([]string{}, focusedDatasets...)
	// The annotated dataset only exists after the annotation pass has run.
	if _, err := os.Stat(filepath.Join(dataDir, annotatedDataset+".jsonl")); err == nil {
		names = append(names, annotatedDataset)
	}

	for _, name := range names {
		lines, trailing, err := jsonl.ReadLines(filepath.Join(dataDir, name+".jsonl"))
		if err != nil {
			p.errorf("read %s: %v", name, err)
			continue
		}
		for _, v := range validate.Shape(name, lines, trailing).Violations() {
			p.errorf("%s: %s", name, v)
		}
	}
	return p
}

// ── Phase 3: focused re-derivation ──

// validateRederivation rebuilds every focused dataset in a scratch directory
// and requires byte-identical output, catching hand-edited files and
// non-deterministic derivation alike.
func validateRederivation(dataDir string, records []domain.UnitRecord) *phase {
	p := &phase{name: "Focused dataset re-derivation"}

	scratch, err := os.MkdirTemp("", "uom-validate-*")
	if err != nil {
		p.errorf("create scratch dir: %v", err)
		return p
	}
	defer os.RemoveAll(scratch)

	if _, err := derive.WriteAll(records, scratch); err != nil {
		p.errorf("derive focused datasets: %v", err)
		return p
	}

	for _, name := range focusedDatasets {
		for _, ext := range []string{".jsonl", ".json"} {
			same, err := jsonl.EqualFiles(filepath.Join(dataDir, name+ext), filepath.Join(scratch, name+ext))
			if err != nil {
				p.errorf("compare %s%s: %v", name, ext, err)
				continue
			}
			if !same {
				p.errorf("%s%s differs from a fresh derivation of the canonical dataset", name, ext)
			}
		}
	}
	return p
}

// ── Phase 4: ontology annotation quality ──

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(text), " ")) {
		tokens[tok] = true
	}
	return tokens
}

// propertySynonyms widens the token match for properties whose ontology
// labels use different phrasing.
var propertySynonyms = map[string][]string{
	"radioactivity":        {"activity (of a radionuclide)", "activity"},
	"mass concentration":   {"gram per milliliter", "gram per litre", "gram per liter", "mass concentration"},
	"molar concentration":  {"molar concentration", "mole per litre", "mole per liter"},
	"heat flux density":    {"heat flux", "heat flow density"},
	"thermal conductivity": {"thermal conductivity", "heat flow density"},
	"illuminance":          {"illuminance", "light intensity"},
	"inductance":           {"inductance"},
	"ratio":                {"ratio", "parts per", "proportion"},
}

func validateAnnotationQuality(dataDir string) *phase {
	p := &phase{name: "Ontology annotation quality"}

	path := filepath.Join(dataDir, annotatedDataset+".jsonl")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p // annotation pass has not run; nothing to check
	}
	annotated, err := jsonl.ReadFile[domain.UnitRecord](path)
	if err != nil {
		p.errorf("read annotated dataset: %v", err)
		return p
	}

	for _, rec := range annotated {
		_, hasUO := rec.ExternalIDs["uo"]
		ucumCode, hasUCUM := rec.ExternalIDs["ucum"]
		omMeta, hasOM := rec.OntologyMetadata["om"]

		if hasUCUM && !hasOM {
			p.errorf("%s: UCUM code %q present without OM metadata", rec.Unit, ucumCode)
		}
		if hasOM && hasUCUM && omMeta.UCUMCode != "" && omMeta.UCUMCode != ucumCode {
			p.errorf("%s: OM metadata carries UCUM code %q but external_ids says %q",
				rec.Unit, omMeta.UCUMCode, ucumCode)
		}

		if !hasUO {
			continue
		}
		uoMeta := rec.OntologyMetadata["uo"]
		corpus := tokenize(uoMeta.Label)
		for tok := range tokenize(uoMeta.Definition) {
			corpus[tok] = true
		}
		prop := strings.ToLower(strings.TrimSpace(rec.Property))
		targets := tokenize(prop)
		for _, phrase := range propertySynonyms[prop] {
			for tok := range tokenize(phrase) {
				targets[tok] = true
			}
		}
		matched := false
		for tok := range targets {
			if corpus[tok] {
				matched = true
				break
			}
		}
		if !matched {
			p.errorf("%s: UO term %q never mentions property %q", rec.Unit, uoMeta.Label, rec.Property)
		}
	}
	return p
}

// ── Phase 5: JSON mirror consistency ──

func validateMirrorConsistency(dataDir string) *phase {
	p := &phase{name: "JSON mirror consistency"}

	names := append([]string{canonicalDataset}, focusedDatasets...)
	if _, err := os.Stat(filepath.Join(dataDir, annotatedDataset+".jsonl")); err == nil {
		names = append(names, annotatedDataset)
	}

	for _, name := range names {
		lines, _, err := jsonl.ReadLines(filepath.Join(dataDir, name+".jsonl"))
		if err != nil {
			p.errorf("read %s.jsonl: %v", name, err)
			continue
		}
		want, err := mirrorBytes(lines)
		if err != nil {
			p.errorf("build expected mirror for %s: %v", name, err)
			continue
		}
		got, err := os.ReadFile(filepath.Join(dataDir, name+".json"))
		if err != nil {
			p.errorf("read %s.json: %v", name, err)
			continue
		}
		if !bytes.Equal(want, got) {
			p.errorf("%s.json does not mirror %s.jsonl", name, name)
		}
	}
	return p
}

// mirrorBytes renders the JSON array mirror a JSONL file should have,
// matching the writer's formatting byte for byte.
func mirrorBytes(lines []jsonl.Line) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("[\n")
	for i, line := range lines {
		var indented bytes.Buffer
		if err := json.Indent(&indented, line.Raw, "  ", "  "); err != nil {
			return nil, fmt.Errorf("line %d: %w", line.Number, err)
		}
		b.WriteString("  ")
		b.Write(indented.Bytes())
		if i < len(lines)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("]\n")
	return b.Bytes(), nil
}
