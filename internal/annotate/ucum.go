package annotate

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// UCUMEntry maps one OM resource onto its UCUM notation.
type UCUMEntry struct {
	Code       string
	Normalized string
	URI        string
}

// LoadUCUMCodes scans the om-2-ucum Turtle export. The file is a flat list of
// om:<unit> subjects with skos:notation literals, so a line scan is enough; a
// bare "." terminates the current subject.
func LoadUCUMCodes(path string) (map[string][]*UCUMEntry, map[string][]*UCUMEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open UCUM export: %w", err)
	}
	defer f.Close()

	codeMap := make(map[string][]*UCUMEntry)
	uriMap := make(map[string][]*UCUMEntry)
	var current string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == ".":
			current = ""
		case strings.HasPrefix(line, "om:"):
			current = strings.TrimPrefix(strings.Fields(line)[0], "om:")
		case current != "" && strings.HasPrefix(line, "skos:notation"):
			start := strings.IndexByte(line, '"')
			if start < 0 {
				continue
			}
			end := strings.IndexByte(line[start+1:], '"')
			if end < 0 {
				continue
			}
			code := line[start+1 : start+1+end]
			normalized := NormalizeUCUM(code)
			if normalized == "" {
				continue
			}
			entry := &UCUMEntry{Code: code, Normalized: normalized, URI: OMBase + current}
			codeMap[normalized] = append(codeMap[normalized], entry)
			uriMap[entry.URI] = append(uriMap[entry.URI], entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read UCUM export: %w", err)
	}
	return codeMap, uriMap, nil
}
