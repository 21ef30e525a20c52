package validate

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
)

// canonicalRequired and canonicalOptional define the schema of the canonical
// dataset file and of the annotated variant produced by the ontology pass.
var (
	canonicalRequired = []string{
		"unit", "canonical_unit", "symbol", "property", "quantity",
		"dimension", "conversion_factor", "reference_unit", "system",
	}
	canonicalOptional = []string{
		"prefix", "plural", "conversion_offset", "alternate_unit",
		"external_ids", "ontology_metadata",
	}
)

// shapes declares the per-dataset field lists for the focused subsets. The
// keys match the dataset file names without extension.
var shapes = map[string]struct {
	required []string
	optional []string
}{
	"units_of_measurement":  {canonicalRequired, canonicalOptional},
	"units_with_ontologies": {canonicalRequired, canonicalOptional},
	"si_base_units":         {[]string{"unit", "property", "symbol", "system", "external_ids", "ontology_metadata"}, nil},
	"property_summary":      {[]string{"property", "count", "systems", "reference_units", "annotated_records"}, nil},
	"biomedical_units":      {[]string{"unit", "property", "symbol", "system", "external_ids", "ontology_metadata"}, nil},
	"uo_units":              {[]string{"unit", "property", "symbol", "system", "uo_id", "ontology_metadata"}, nil},
	"ucum_units":            {[]string{"unit", "property", "symbol", "system", "ucum_code", "om_metadata"}, nil},
}

// KnownDataset reports whether a dataset name has a declared shape.
func KnownDataset(name string) bool {
	_, ok := shapes[name]
	return ok
}

// Dataset runs the full structural validation of the canonical dataset file:
// strict JSON decoding (duplicate keys rejected), field presence and types,
// enum membership, key uniqueness, and the trailing-newline requirement.
func Dataset(lines []jsonl.Line, trailingNewline bool, table *domain.QuantityTable) *Report {
	report := &Report{}
	if len(lines) > 0 && !trailingNewline {
		report.Add(KindSchemaMismatch, 0, "file must end with a newline")
	}

	seen := make(map[domain.Key]int, len(lines))
	for _, line := range lines {
		obj, err := jsonl.DecodeObjectStrict(line.Raw)
		if err != nil {
			report.Add(KindSchemaMismatch, line.Number, "invalid record: %v", err)
			continue
		}
		checkCanonicalObject(report, line.Number, obj, table)

		unit, _ := obj["unit"].(string)
		property, _ := obj["property"].(string)
		key := domain.Key{Unit: unit, Property: property}
		if first, dup := seen[key]; dup && unit != "" {
			report.Add(KindDuplicateKey, line.Number,
				"(unit, property) pair (%q, %q) already seen at line %d", unit, property, first)
			continue
		}
		seen[key] = line.Number
	}
	return report
}

// Shape validates a focused dataset file against its declared field lists.
// Unknown dataset names are themselves a violation.
func Shape(name string, lines []jsonl.Line, trailingNewline bool) *Report {
	report := &Report{}
	shape, ok := shapes[name]
	if !ok {
		report.Add(KindSchemaMismatch, 0, "no declared shape for dataset %q", name)
		return report
	}
	if len(lines) > 0 && !trailingNewline {
		report.Add(KindSchemaMismatch, 0, "file must end with a newline")
	}

	allowed := make(map[string]bool, len(shape.required)+len(shape.optional))
	for _, f := range shape.required {
		allowed[f] = true
	}
	for _, f := range shape.optional {
		allowed[f] = true
	}

	for _, line := range lines {
		obj, err := jsonl.DecodeObjectStrict(line.Raw)
		if err != nil {
			report.Add(KindSchemaMismatch, line.Number, "invalid record: %v", err)
			continue
		}
		for _, f := range shape.required {
			if _, present := obj[f]; !present {
				report.Add(KindMissingField, line.Number, "missing required field %q", f)
			}
		}
		var unexpected []string
		for f := range obj {
			if !allowed[f] {
				unexpected = append(unexpected, f)
			}
		}
		if len(unexpected) > 0 {
			sort.Strings(unexpected)
			report.Add(KindSchemaMismatch, line.Number, "unexpected fields: %s", strings.Join(unexpected, ", "))
		}
	}
	return report
}

// checkCanonicalObject applies the field-level checks of the canonical schema
// to one strictly-decoded object.
func checkCanonicalObject(report *Report, line int, obj map[string]any, table *domain.QuantityTable) {
	for _, f := range canonicalRequired {
		if _, present := obj[f]; !present {
			report.Add(KindMissingField, line, "missing required field %q", f)
		}
	}

	allowed := make(map[string]bool, len(canonicalRequired)+len(canonicalOptional))
	for _, f := range canonicalRequired {
		allowed[f] = true
	}
	for _, f := range canonicalOptional {
		allowed[f] = true
	}
	var unexpected []string
	for f := range obj {
		if !allowed[f] {
			unexpected = append(unexpected, f)
		}
	}
	if len(unexpected) > 0 {
		sort.Strings(unexpected)
		report.Add(KindSchemaMismatch, line, "unexpected fields: %s", strings.Join(unexpected, ", "))
	}

	requireString(report, line, obj, "unit")
	requireString(report, line, obj, "canonical_unit")
	requireString(report, line, obj, "symbol")
	requireString(report, line, obj, "property")
	requireString(report, line, obj, "quantity")
	requireString(report, line, obj, "reference_unit")

	if q, p := obj["quantity"], obj["property"]; q != p {
		report.Add(KindConflictingValue, line, "quantity %v does not match property %v", q, p)
	}

	if cu, ok := obj["canonical_unit"].(string); ok && strings.ContainsAny(cu, " \t") {
		report.Add(KindSchemaMismatch, line, "canonical_unit %q contains whitespace", cu)
	}

	if system, ok := obj["system"].(string); ok && !domain.MeasurementSystems[system] {
		report.Add(KindInvalidEnum, line, "system %q is not one of the %d recognized systems",
			system, len(domain.MeasurementSystems))
	}

	checkNumber(report, line, obj, "conversion_factor", true)
	if _, present := obj["conversion_offset"]; present {
		checkNumber(report, line, obj, "conversion_offset", false)
		if table != nil {
			property, _ := obj["property"].(string)
			if dim, ok := table.Dimension(property); ok &&
				!dim.Equal(domain.Dimension{domain.DimTemperature: 1}) {
				report.Add(KindSchemaMismatch, line,
					"conversion_offset present but property %q is not a temperature quantity", property)
			}
		}
	}

	checkObjectDimension(report, line, obj)
	checkCrossReferences(report, line, obj)

	if alt, present := obj["alternate_unit"]; present {
		arr, ok := alt.([]any)
		if !ok {
			report.Add(KindSchemaMismatch, line, "alternate_unit must be an array of strings")
		} else {
			for _, v := range arr {
				if _, isString := v.(string); !isString {
					report.Add(KindSchemaMismatch, line, "alternate_unit entry %v is not a string", v)
				}
			}
		}
	}
}

func requireString(report *Report, line int, obj map[string]any, field string) {
	v, present := obj[field]
	if !present {
		return // absence reported by the required-field pass
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		report.Add(KindSchemaMismatch, line, "%s must be a non-empty string", field)
	}
}

func checkNumber(report *Report, line int, obj map[string]any, field string, nonZero bool) {
	v, present := obj[field]
	if !present {
		return
	}
	n, ok := v.(json.Number)
	if !ok {
		report.Add(KindSchemaMismatch, line, "%s must be numeric", field)
		return
	}
	if f, err := n.Float64(); err != nil {
		report.Add(KindSchemaMismatch, line, "%s is not a valid number: %v", field, err)
	} else if nonZero && f == 0 {
		report.Add(KindSchemaMismatch, line, "%s must be non-zero", field)
	}
}

func checkObjectDimension(report *Report, line int, obj map[string]any) {
	v, present := obj["dimension"]
	if !present {
		return
	}
	dim, ok := v.(map[string]any)
	if !ok {
		report.Add(KindSchemaMismatch, line, "dimension must be an object of base exponents")
		return
	}
	var bad []string
	for key, exp := range dim {
		if !domain.DimensionKeys[key] {
			bad = append(bad, key)
		}
		if _, isNumber := exp.(json.Number); !isNumber {
			report.Add(KindSchemaMismatch, line, "dimension exponent for %q must be numeric", key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		report.Add(KindSchemaMismatch, line, "dimension keys %v are not base-quantity symbols", bad)
	}
}

func checkCrossReferences(report *Report, line int, obj map[string]any) {
	if v, present := obj["external_ids"]; present {
		ids, ok := v.(map[string]any)
		if !ok {
			report.Add(KindSchemaMismatch, line, "external_ids must be an object")
		} else {
			for key, val := range ids {
				if !domain.ExternalIDKeys[key] {
					report.Add(KindSchemaMismatch, line, "external_ids has unexpected key %q", key)
				}
				if s, isString := val.(string); !isString || strings.TrimSpace(s) == "" {
					report.Add(KindSchemaMismatch, line, "external_ids.%s must be a non-empty string", key)
				}
			}
		}
	}

	if v, present := obj["ontology_metadata"]; present {
		meta, ok := v.(map[string]any)
		if !ok {
			report.Add(KindSchemaMismatch, line, "ontology_metadata must be an object")
		} else {
			for key, val := range meta {
				if !domain.OntologyMetadataKeys[key] {
					report.Add(KindSchemaMismatch, line, "ontology_metadata has unexpected key %q", key)
				}
				if _, isObject := val.(map[string]any); !isObject {
					report.Add(KindSchemaMismatch, line, "ontology_metadata.%s must be an object", key)
				}
			}
		}
	}
}
