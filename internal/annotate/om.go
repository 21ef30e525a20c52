package annotate

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Namespace URIs used by the OM RDF/XML export.
const (
	OMBase = "http://www.ontology-of-units-of-measure.org/resource/om-2/"
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfsNS = "http://www.w3.org/2000/01/rdf-schema#"
	xmlNS  = "http://www.w3.org/XML/1998/namespace"
	xmlNS2 = "xml" // encoding/xml reports the xml: prefix unexpanded on some attrs
)

// OMTerm is one unit-like resource from the Ontology of units of Measure.
type OMTerm struct {
	URI        string
	Label      string
	Definition string
	Quantities []string

	labelNorm string
}

// omNode is a minimal parsed XML element. The OM export is a flat RDF/XML
// document, so a plain tree walk is all the structure we need.
type omNode struct {
	space    string
	local    string
	attrs    []xml.Attr
	children []*omNode
}

func (n *omNode) attr(space, local string) string {
	for _, a := range n.attrs {
		if a.Name.Local == local && (a.Name.Space == space || (space == xmlNS && a.Name.Space == xmlNS2)) {
			return a.Value
		}
	}
	return ""
}

func (n *omNode) find(space, local string) []*omNode {
	var out []*omNode
	for _, c := range n.children {
		if c.space == space && c.local == local {
			out = append(out, c)
		}
	}
	return out
}

// text-bearing children store their character data in a single synthetic
// attribute to keep the node struct flat.
const textAttr = "\x00text"

func (n *omNode) text() string {
	for _, a := range n.attrs {
		if a.Name.Local == textAttr {
			return a.Value
		}
	}
	return ""
}

func parseOMTree(r io.Reader) (*omNode, error) {
	dec := xml.NewDecoder(r)
	root := &omNode{}
	stack := []*omNode{root}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			node := &omNode{space: t.Name.Space, local: t.Name.Local, attrs: append([]xml.Attr(nil), t.Attr...)}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				node := stack[len(stack)-1]
				node.attrs = append(node.attrs, xml.Attr{Name: xml.Name{Local: textAttr}, Value: text})
			}
		}
	}
	return root, nil
}

// omUnitMarkers are the child properties whose presence marks a resource as
// unit-like rather than a quantity, dimension, or application area.
var omUnitMarkers = []string{
	"symbol", "hasDimension", "hasUnit", "hasPrefix",
	"hasNumerator", "hasDenominator", "hasFactor",
}

// LoadOMTerms parses the OM RDF/XML export. It returns a map from normalized
// name (label, alternative label, symbol, or URI tail) to candidate terms,
// plus a direct URI lookup used when a UCUM code pins the resource.
func LoadOMTerms(path string) (map[string][]*OMTerm, map[string]*OMTerm, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open OM export: %w", err)
	}
	defer f.Close()

	root, err := parseOMTree(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parse OM export: %w", err)
	}

	var all []*omNode
	var collect func(n *omNode)
	collect = func(n *omNode) {
		all = append(all, n)
		for _, c := range n.children {
			collect(c)
		}
	}
	collect(root)

	// First pass: URI to English label, needed to resolve hasQuantity
	// references on the second pass.
	labels := make(map[string]string)
	for _, node := range all {
		uri := node.attr(rdfNS, "about")
		if uri == "" {
			continue
		}
		if label := englishLabel(node); label != "" {
			labels[uri] = label
		}
	}

	nameMap := make(map[string][]*OMTerm)
	uriMap := make(map[string]*OMTerm)
	for _, node := range all {
		uri := node.attr(rdfNS, "about")
		if uri == "" || !strings.HasPrefix(uri, OMBase) {
			continue
		}
		if strings.HasSuffix(node.local, "Quantity") || strings.HasSuffix(node.local, "Dimension") {
			continue
		}
		unitLike := false
		for _, marker := range omUnitMarkers {
			if len(node.find(OMBase, marker)) > 0 {
				unitLike = true
				break
			}
		}
		if !unitLike {
			continue
		}

		var enLabels []string
		for _, lbl := range node.find(rdfsNS, "label") {
			if lang := lbl.attr(xmlNS, "lang"); lang != "" && !strings.EqualFold(lang, "en") {
				continue
			}
			if text := lbl.text(); text != "" {
				enLabels = append(enLabels, text)
			}
		}
		if len(enLabels) == 0 {
			continue
		}

		var definition string
		if comments := node.find(rdfsNS, "comment"); len(comments) > 0 {
			definition = comments[0].text()
		}

		var quantities []string
		for _, rel := range node.find(OMBase, "hasQuantity") {
			ref := rel.attr(rdfNS, "resource")
			if ref == "" {
				continue
			}
			if q := NormalizeName(labels[ref]); q != "" {
				quantities = append(quantities, q)
			}
		}

		term := &OMTerm{
			URI:        uri,
			Label:      enLabels[0],
			Definition: definition,
			Quantities: quantities,
			labelNorm:  NormalizeName(enLabels[0]),
		}
		uriMap[uri] = term

		names := append([]string(nil), enLabels...)
		for _, alt := range node.find(OMBase, "alternativeLabel") {
			if text := alt.text(); text != "" {
				names = append(names, text)
			}
		}
		for _, symTag := range []string{"symbol", "alternativeSymbol", "LaTeXSymbol"} {
			for _, sym := range node.find(OMBase, symTag) {
				if text := sym.text(); text != "" {
					names = append(names, text)
				}
			}
		}
		names = append(names, uri[strings.LastIndexByte(uri, '/')+1:])

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
	return nameMap, uriMap, nil
}

// englishLabel returns the first rdfs:label of a node that is English or
// carries no language tag.
func englishLabel(node *omNode) string {
	for _, lbl := range node.find(rdfsNS, "label") {
		if lang := lbl.attr(xmlNS, "lang"); lang != "" && !strings.EqualFold(lang, "en") {
			continue
		}
		if text := lbl.text(); text != "" {
			return text
		}
	}
	return ""
}
