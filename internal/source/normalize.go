package source

import (
	"strings"
	"unicode"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/validate"
)

// usSpellings rewrites the British spellings found in the raw listings to the
// dataset's US vocabulary. Substring replacement also covers prefixed and
// plural forms (kilometre, litres).
var usSpellings = [][2]string{
	{"metre", "meter"},
	{"litre", "liter"},
	{"gramme", "gram"},
}

// siPrefixes is the full SI prefix vocabulary plus the IEC binary prefixes,
// used to detect prefixed forms of base units.
var siPrefixes = []string{
	"quetta", "ronna", "yotta", "zetta", "exa", "peta", "tera", "giga",
	"mega", "kilo", "hecto", "deca", "deci", "centi", "milli", "micro",
	"nano", "pico", "femto", "atto", "zepto", "yocto", "ronto", "quecto",
	"kibi", "mebi", "gibi", "tebi", "pebi", "exbi", "zebi", "yobi",
}

// capitalizedSymbols are the conventional abbreviations that keep their
// capitals: SI derived units named after people, plus a few established
// non-SI symbols.
var capitalizedSymbols = map[string]bool{
	"A": true, "K": true, "N": true, "J": true, "W": true, "V": true,
	"F": true, "C": true, "S": true, "T": true, "H": true, "L": true,
	"B": true, "D": true, "R": true, "P": true, "G": true,
	"Pa": true, "Hz": true, "Wb": true, "Bq": true, "Gy": true, "Sv": true,
	"Ω": true, "Å": true, "Da": true, "Np": true, "Gal": true, "Jy": true,
	"Bi": true, "St": true, "Oe": true, "Mx": true, "Btu": true, "Hg": true,
}

// prefixAbbrevs are the symbol-level prefix abbreviations (SI and binary)
// that may precede a capitalized symbol, e.g. the M in MHz.
var prefixAbbrevs = map[string]bool{
	"Q": true, "R": true, "Y": true, "Z": true, "E": true, "P": true,
	"T": true, "G": true, "M": true, "k": true, "h": true, "da": true,
	"d": true, "c": true, "m": true, "µ": true, "μ": true, "n": true,
	"p": true, "f": true, "a": true, "z": true, "y": true, "q": true,
	"Ki": true, "Mi": true, "Gi": true, "Ti": true, "Pi": true,
	"Ei": true, "Zi": true, "Yi": true,
}

// Normalizer converts raw listing records into partially-populated
// UnitRecords using the shared vocabulary. It is a pure transform; every
// failure is reported through the caller's report, never silently skipped.
type Normalizer struct {
	table *domain.QuantityTable
}

// NewNormalizer creates a Normalizer backed by the quantity table.
func NewNormalizer(table *domain.QuantityTable) *Normalizer {
	return &Normalizer{table: table}
}

// NormalizeSIListing normalizes every record of the SI listing, collecting
// violations into the report. Records with violations are omitted from the
// result; the caller decides whether the report is fatal.
func (n *Normalizer) NormalizeSIListing(records []SIRawRecord, report *validate.Report) []domain.UnitRecord {
	out := make([]domain.UnitRecord, 0, len(records))
	for i, raw := range records {
		if rec, ok := n.NormalizeSI(raw, i+1, report); ok {
			out = append(out, rec)
		}
	}
	return out
}

// NormalizeUOMListing normalizes every record of the uom listing.
func (n *Normalizer) NormalizeUOMListing(records []UOMRawRecord, report *validate.Report) []domain.UnitRecord {
	out := make([]domain.UnitRecord, 0, len(records))
	for i, raw := range records {
		if rec, ok := n.NormalizeUOM(raw, i+1, report); ok {
			out = append(out, rec)
		}
	}
	return out
}

// NormalizeSI maps one SI raw record onto the merged schema.
func (n *Normalizer) NormalizeSI(raw SIRawRecord, line int, report *validate.Report) (domain.UnitRecord, bool) {
	return n.normalize(rawFields{
		unit:        raw.Name,
		symbol:      raw.Symbol,
		plural:      raw.Plural,
		property:    raw.Quantity,
		factor:      raw.Multiplier,
		offset:      raw.Offset,
		reference:   raw.BaseUnit,
		system:      raw.System,
		prefix:      raw.Prefix,
		composition: raw.Composition,
	}, line, report)
}

// NormalizeUOM maps one uom raw record onto the merged schema.
func (n *Normalizer) NormalizeUOM(raw UOMRawRecord, line int, report *validate.Report) (domain.UnitRecord, bool) {
	return n.normalize(rawFields{
		unit:        raw.Unit,
		symbol:      raw.Abbreviation,
		plural:      raw.Plural,
		property:    raw.Property,
		factor:      raw.ConversionFactor,
		offset:      raw.ConversionOffset,
		reference:   raw.ReferenceUnit,
		system:      raw.System,
		aliases:     raw.Aliases,
		composition: raw.Composition,
	}, line, report)
}

// rawFields is the source-independent view of a raw record.
type rawFields struct {
	unit        string
	symbol      string
	plural      string
	property    string
	factor      float64
	offset      *float64
	reference   string
	system      string
	prefix      string
	aliases     []string
	composition []RawFactor
}

func (n *Normalizer) normalize(raw rawFields, line int, report *validate.Report) (domain.UnitRecord, bool) {
	before := len(report.Violations())

	unit := Spell(strings.TrimSpace(raw.unit))
	property := Spell(strings.TrimSpace(raw.property))
	reference := Spell(strings.TrimSpace(raw.reference))

	if unit == "" {
		report.Add(validate.KindMissingField, line, "unit name is empty")
	}
	if strings.TrimSpace(raw.symbol) == "" {
		report.Add(validate.KindMissingField, line, "symbol is empty")
	}
	if property == "" {
		report.Add(validate.KindMissingField, line, "quantity label is empty")
	}
	if reference == "" {
		report.Add(validate.KindMissingField, line, "reference unit is empty")
	}
	if raw.factor == 0 {
		report.Add(validate.KindMissingField, line, "conversion factor is zero")
	}
	if !domain.MeasurementSystems[raw.system] {
		report.Add(validate.KindInvalidEnum, line, "system %q is not one of the %d recognized systems",
			raw.system, len(domain.MeasurementSystems))
	}

	var dim domain.Dimension
	if property != "" {
		var known bool
		dim, known = n.table.Dimension(property)
		if !known {
			report.Add(validate.KindInvalidEnum, line, "quantity %q is not a known physical quantity", property)
		}
	}

	if len(report.Violations()) > before {
		return domain.UnitRecord{}, false
	}

	plural := Spell(strings.TrimSpace(raw.plural))
	if plural == "" {
		plural = unit + "s"
	}

	prefix := raw.prefix
	if prefix == "" {
		prefix = DetectPrefix(unit)
	}

	composition := factors(raw.composition)
	for i := range composition {
		composition[i].Unit = Spell(composition[i].Unit)
	}
	canonical := domain.CanonicalUnit(composition)
	if canonical == "" {
		canonical = domain.CanonicalUnit([]domain.Factor{{Unit: unit, Exponent: 1}})
	}

	var aliases []string
	for _, alias := range raw.aliases {
		if a := strings.TrimSpace(alias); a != "" {
			aliases = append(aliases, a)
		}
	}

	return domain.UnitRecord{
		Unit:             unit,
		CanonicalUnit:    canonical,
		Prefix:           prefix,
		Symbol:           NormalizeSymbol(raw.symbol),
		Plural:           plural,
		Property:         property,
		Quantity:         property,
		Dimension:        dim,
		ConversionFactor: raw.factor,
		ConversionOffset: raw.offset,
		ReferenceUnit:    reference,
		AlternateUnit:    aliases,
		System:           raw.system,
	}, true
}

// Spell rewrites British spellings to the dataset's US vocabulary.
func Spell(text string) string {
	for _, pair := range usSpellings {
		text = strings.ReplaceAll(text, pair[0], pair[1])
	}
	return text
}

// DetectPrefix returns the SI (or binary) prefix name when a single-word unit
// name is a prefixed form, e.g. "kilometer" → "kilo". Short remainders are
// rejected so names like "micron" are not mistaken for prefixed forms.
func DetectPrefix(unit string) string {
	if strings.ContainsRune(unit, ' ') {
		return ""
	}
	for _, prefix := range siPrefixes {
		rest, found := strings.CutPrefix(unit, prefix)
		if found && len(rest) >= 3 {
			return prefix
		}
	}
	return ""
}

// NormalizeSymbol lowercases symbol tokens except the internationally
// capitalized ones (Pa, Hz, ...) and prefixed forms of them (MHz, kW).
// Tokens containing non-letter runes pass through untouched.
func NormalizeSymbol(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	var b strings.Builder
	b.Grow(len(symbol))

	var token []rune
	flush := func() {
		if len(token) > 0 {
			b.WriteString(normalizeToken(string(token)))
			token = token[:0]
		}
	}
	for _, r := range symbol {
		if unicode.IsLetter(r) {
			token = append(token, r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

func normalizeToken(tok string) string {
	lower := strings.ToLower(tok)
	if tok == lower {
		return tok
	}
	if capitalizedSymbols[tok] {
		return tok
	}
	// Prefixed capitalized symbol (MHz, kPa) or a lowercase stem before a
	// capitalized tail (statT).
	for i := 1; i < len(tok); i++ {
		head, tail := tok[:i], tok[i:]
		if !capitalizedSymbols[tail] {
			continue
		}
		if prefixAbbrevs[head] || head == strings.ToLower(head) {
			return tok
		}
	}
	return lower
}
