// Package validate checks the structural invariants of dataset files and
// in-memory record sets. Every check collects all violations it finds, each
// with a line locator, rather than stopping at the first.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
)

// Kind classifies a violation.
type Kind string

const (
	KindMissingField     Kind = "MissingField"
	KindDuplicateKey     Kind = "DuplicateKey"
	KindConflictingValue Kind = "ConflictingValue"
	KindInvalidEnum      Kind = "InvalidEnum"
	KindSchemaMismatch   Kind = "SchemaMismatch"
)

// Violation is one detected invariant failure. Line is 1-based; zero means
// the violation is not tied to a single line (e.g. a file-level check).
type Violation struct {
	Kind    Kind
	Line    int
	Message string
}

func (v Violation) String() string {
	if v.Line == 0 {
		return fmt.Sprintf("[%s] %s", v.Kind, v.Message)
	}
	return fmt.Sprintf("line %d: [%s] %s", v.Line, v.Kind, v.Message)
}

// Report accumulates violations across a validation pass.
type Report struct {
	violations []Violation
}

// Add records one violation.
func (r *Report) Add(kind Kind, line int, format string, args ...any) {
	r.violations = append(r.violations, Violation{
		Kind:    kind,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Merge appends every violation from another report.
func (r *Report) Merge(other *Report) {
	r.violations = append(r.violations, other.violations...)
}

// Violations returns the collected violations in detection order.
func (r *Report) Violations() []Violation {
	return r.violations
}

// Empty reports whether no violations were collected.
func (r *Report) Empty() bool {
	return len(r.violations) == 0
}

// Err returns nil for a clean report, or an error listing every violation.
func (r *Report) Err() error {
	if r.Empty() {
		return nil
	}
	lines := make([]string, len(r.violations))
	for i, v := range r.violations {
		lines[i] = v.String()
	}
	return fmt.Errorf("%d violation(s):\n  %s", len(r.violations), strings.Join(lines, "\n  "))
}

// Records validates an in-memory record set against the full invariant list:
// required fields, (unit, property) uniqueness, system enum membership,
// quantity == property, dimension-key subset, and offset-only-for-temperature.
// The quantity table checks that each property is a known physical quantity
// and supplies the temperature test for offsets.
func Records(records []domain.UnitRecord, table *domain.QuantityTable) *Report {
	report := &Report{}
	seen := make(map[domain.Key]int, len(records))

	for i, rec := range records {
		line := i + 1
		checkRequired(report, line, rec)
		checkEnums(report, line, rec, table)
		checkDimension(report, line, rec)
		checkOffset(report, line, rec, table)

		key := rec.Key()
		if first, dup := seen[key]; dup {
			report.Add(KindDuplicateKey, line,
				"(unit, property) pair (%q, %q) already seen at line %d", rec.Unit, rec.Property, first)
			continue
		}
		seen[key] = line
	}
	return report
}

func checkRequired(report *Report, line int, rec domain.UnitRecord) {
	required := []struct {
		name  string
		value string
	}{
		{"unit", rec.Unit},
		{"canonical_unit", rec.CanonicalUnit},
		{"symbol", rec.Symbol},
		{"plural", rec.Plural},
		{"property", rec.Property},
		{"quantity", rec.Quantity},
		{"reference_unit", rec.ReferenceUnit},
		{"system", rec.System},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			report.Add(KindMissingField, line, "%s is empty", f.name)
		}
	}
	if rec.ConversionFactor == 0 {
		report.Add(KindMissingField, line, "conversion_factor is zero")
	}
	if rec.Dimension == nil {
		report.Add(KindMissingField, line, "dimension is absent (dimensionless units carry an empty mapping)")
	}
	if strings.ContainsAny(rec.CanonicalUnit, " \t") {
		report.Add(KindSchemaMismatch, line, "canonical_unit %q contains whitespace", rec.CanonicalUnit)
	}
}

func checkEnums(report *Report, line int, rec domain.UnitRecord, table *domain.QuantityTable) {
	if rec.System != "" && !domain.MeasurementSystems[rec.System] {
		report.Add(KindInvalidEnum, line, "system %q is not one of the %d recognized systems",
			rec.System, len(domain.MeasurementSystems))
	}
	if rec.Quantity != rec.Property {
		report.Add(KindConflictingValue, line, "quantity %q does not match property %q",
			rec.Quantity, rec.Property)
	}
	if table != nil && rec.Property != "" && !table.Known(rec.Property) {
		report.Add(KindInvalidEnum, line, "property %q is not a known physical quantity", rec.Property)
	}
}

func checkDimension(report *Report, line int, rec domain.UnitRecord) {
	var bad []string
	for key := range rec.Dimension {
		if !domain.DimensionKeys[key] {
			bad = append(bad, key)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		report.Add(KindSchemaMismatch, line, "dimension keys %v are not base-quantity symbols", bad)
	}
	for key, exp := range rec.Dimension {
		if exp == 0 {
			report.Add(KindSchemaMismatch, line, "dimension carries a zero exponent for %q", key)
		}
	}
}

// checkOffset enforces that conversion_offset appears only on affine
// temperature conversions: the property's dimension must be exactly Θ¹.
func checkOffset(report *Report, line int, rec domain.UnitRecord, table *domain.QuantityTable) {
	if rec.ConversionOffset == nil || table == nil {
		return
	}
	dim, ok := table.Dimension(rec.Property)
	if !ok {
		return // unknown property already reported by checkEnums
	}
	if !dim.Equal(domain.Dimension{domain.DimTemperature: 1}) {
		report.Add(KindSchemaMismatch, line,
			"conversion_offset present but property %q is not a temperature quantity", rec.Property)
	}
}
