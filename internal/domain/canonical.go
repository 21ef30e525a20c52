package domain

import (
	"sort"
	"strconv"
	"strings"
)

// Factor is one base-unit term of a unit's composition, e.g. {meter, -2}.
type Factor struct {
	Unit     string
	Exponent int
}

var superscriptDigits = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴',
	'5': '⁵', '6': '⁶', '7': '⁷', '8': '⁸', '9': '⁹',
}

// superscript renders a positive integer with Unicode superscript digits.
func superscript(n int) string {
	var b strings.Builder
	for _, r := range strconv.Itoa(n) {
		b.WriteRune(superscriptDigits[r])
	}
	return b.String()
}

// canonicalTerm renders one factor: spaces inside a unit name become `·`
// (e.g. "degree Celsius" → "degree·Celsius") and exponents other than 1 get
// superscript digits.
func canonicalTerm(unit string, exponent int) string {
	term := strings.Join(strings.Fields(unit), "·")
	if exponent > 1 {
		term += superscript(exponent)
	}
	return term
}

// CanonicalUnit builds the canonical symbolic name of a unit from its
// base-unit composition: numerator factors joined by `·`, a single `/` before
// the denominator factors, no spaces anywhere. Factors are ordered
// alphabetically by unit name within the numerator and denominator so the
// string is reproducible across runs. Compositions with no positive exponent
// are rendered with a leading `reciprocal·` term (e.g. "reciprocal·second").
func CanonicalUnit(factors []Factor) string {
	var num, den []Factor
	for _, f := range factors {
		switch {
		case f.Exponent > 0:
			num = append(num, f)
		case f.Exponent < 0:
			den = append(den, Factor{Unit: f.Unit, Exponent: -f.Exponent})
		}
	}
	sort.Slice(num, func(i, j int) bool { return num[i].Unit < num[j].Unit })
	sort.Slice(den, func(i, j int) bool { return den[i].Unit < den[j].Unit })

	join := func(fs []Factor) string {
		terms := make([]string, len(fs))
		for i, f := range fs {
			terms[i] = canonicalTerm(f.Unit, f.Exponent)
		}
		return strings.Join(terms, "·")
	}

	switch {
	case len(num) == 0 && len(den) == 0:
		return ""
	case len(num) == 0:
		return "reciprocal·" + join(den)
	case len(den) == 0:
		return join(num)
	default:
		return join(num) + "/" + join(den)
	}
}

// DimensionFromFactors derives a dimension vector by summing the dimensions
// of the factor units' quantities. factorQuantity maps each base-unit name to
// its physical quantity (e.g. "meter" → "length").
func DimensionFromFactors(table *QuantityTable, factors []Factor, factorQuantity map[string]string) (Dimension, bool) {
	dim := make(Dimension)
	for _, f := range factors {
		quantity, ok := factorQuantity[f.Unit]
		if !ok {
			return nil, false
		}
		sub, ok := table.Dimension(quantity)
		if !ok {
			return nil, false
		}
		for key, exp := range sub {
			dim[key] += exp * f.Exponent
		}
	}
	for key, exp := range dim {
		if exp == 0 {
			delete(dim, key)
		}
	}
	return dim, true
}
