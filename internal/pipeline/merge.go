// Package pipeline orchestrates the read-normalize-merge-write run that
// produces the canonical dataset and its build manifest.
package pipeline

import (
	"sort"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/validate"
)

// Merge unions the two normalized record sets keyed by (unit, property).
// Required fields must match exactly when both sources supply the same key;
// any disagreement is a ConflictingValue violation, never a silent
// last-write-wins. Optional fields are unioned. Output is sorted
// lexicographically by unit, then property.
func Merge(si, uom []domain.UnitRecord, report *validate.Report) []domain.UnitRecord {
	merged := make(map[domain.Key]*domain.UnitRecord, len(si)+len(uom))
	addSource(merged, si, "si", report)
	addSource(merged, uom, "uom", report)

	out := make([]domain.UnitRecord, 0, len(merged))
	for _, rec := range merged {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Unit != out[j].Unit {
			return out[i].Unit < out[j].Unit
		}
		return out[i].Property < out[j].Property
	})
	return out
}

func addSource(merged map[domain.Key]*domain.UnitRecord, records []domain.UnitRecord, name string, report *validate.Report) {
	seen := make(map[domain.Key]bool, len(records))
	for i := range records {
		rec := records[i]
		key := rec.Key()
		if seen[key] {
			report.Add(validate.KindDuplicateKey, 0,
				"%s listing repeats (unit, property) pair (%q, %q)", name, key.Unit, key.Property)
			continue
		}
		seen[key] = true

		existing, ok := merged[key]
		if !ok {
			clone := rec
			merged[key] = &clone
			continue
		}
		combine(existing, rec, report)
	}
}

// combine folds a second source's record into the already-merged one.
func combine(dst *domain.UnitRecord, src domain.UnitRecord, report *validate.Report) {
	conflict := func(field string, a, b any) {
		report.Add(validate.KindConflictingValue, 0,
			"sources disagree on %s for (%q, %q): %v vs %v", field, dst.Unit, dst.Property, a, b)
	}

	if dst.CanonicalUnit != src.CanonicalUnit {
		conflict("canonical_unit", dst.CanonicalUnit, src.CanonicalUnit)
	}
	if dst.Symbol != src.Symbol {
		conflict("symbol", dst.Symbol, src.Symbol)
	}
	if dst.Plural != src.Plural {
		conflict("plural", dst.Plural, src.Plural)
	}
	if !dst.Dimension.Equal(src.Dimension) {
		conflict("dimension", dst.Dimension, src.Dimension)
	}
	if dst.ConversionFactor != src.ConversionFactor {
		conflict("conversion_factor", dst.ConversionFactor, src.ConversionFactor)
	}
	if dst.ReferenceUnit != src.ReferenceUnit {
		conflict("reference_unit", dst.ReferenceUnit, src.ReferenceUnit)
	}
	if dst.System != src.System {
		conflict("system", dst.System, src.System)
	}

	// Optional fields: union of present values; both present and different is
	// a conflict.
	switch {
	case dst.Prefix == "":
		dst.Prefix = src.Prefix
	case src.Prefix != "" && src.Prefix != dst.Prefix:
		conflict("prefix", dst.Prefix, src.Prefix)
	}

	switch {
	case dst.ConversionOffset == nil:
		dst.ConversionOffset = src.ConversionOffset
	case src.ConversionOffset != nil && *src.ConversionOffset != *dst.ConversionOffset:
		conflict("conversion_offset", *dst.ConversionOffset, *src.ConversionOffset)
	}

	dst.AlternateUnit = unionStrings(dst.AlternateUnit, src.AlternateUnit)
}

// unionStrings appends missing entries of b to a, preserving first-seen order.
func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, s := range a {
		seen[s] = true
	}
	for _, s := range b {
		if !seen[s] {
			a = append(a, s)
			seen[s] = true
		}
	}
	return a
}
