// Package annotate cross-references the canonical dataset against the UO,
// OM, and UCUM ontology exports, attaching external identifiers and
// descriptive metadata. The ontology files are pre-downloaded static
// artifacts; nothing here touches the network.
package annotate

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// nameReplacer flattens the punctuation variants seen in ontology labels
// before matching.
var nameReplacer = strings.NewReplacer(
	"+", " plus ",
	"·", " ",
	"⋅", " ",
	"×", " x ",
	"^", "",
	"²", "2",
	"³", "3",
	"⁻", "-",
	"–", "-",
)

// spellingReplacer maps the ontologies' British spellings onto the dataset's
// US vocabulary. Substring replacement also covers prefixed and plural forms.
var spellingReplacer = strings.NewReplacer(
	"metre", "meter",
	"litre", "liter",
	"gramme", "gram",
)

var ucumReplacer = strings.NewReplacer(
	"·", ".",
	"⋅", ".",
	"×", ".",
	" ", "",
	"″", "''",
	"′", "'",
	`\`, "/",
)

var (
	disallowedRunes = regexp.MustCompile(`[^a-z0-9\s/·.]`)
	runsOfSpace     = regexp.MustCompile(`\s+`)
)

// NormalizeName reduces a unit name or ontology label to the form used as a
// match key: NFKC-folded, lowercased, punctuation flattened, US spelling.
// Returns "" when nothing matchable remains.
func NormalizeName(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFKC.String(strings.ToLower(text))
	text = nameReplacer.Replace(text)
	text = strings.ReplaceAll(text, "-", " ")
	text = strings.ReplaceAll(text, "_", " ")
	text = disallowedRunes.ReplaceAllString(text, "")
	text = runsOfSpace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	return spellingReplacer.Replace(text)
}

// NormalizeUCUM reduces a symbol to the form UCUM notations are matched
// under. Unlike names, case is significant in UCUM codes.
func NormalizeUCUM(text string) string {
	if text == "" {
		return ""
	}
	return ucumReplacer.Replace(norm.NFKC.String(text))
}
