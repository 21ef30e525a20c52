// Package unitdata loads generated units-of-measurement dataset files for
// downstream consumers. Records are returned as generic maps so callers can
// read any dataset revision without tracking schema changes.
package unitdata

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Version of the dataset schema this package reads.
const Version = "1.2.1"

// validDatasets are the loadable dataset file stems.
var validDatasets = map[string]bool{
	"units_of_measurement": true,
	"si_units":             true,
	"uom":                  true,
}

// Datasets returns the loadable dataset names, sorted.
func Datasets() []string {
	names := make([]string, 0, len(validDatasets))
	for name := range validDatasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads a dataset's JSONL file from dir and returns one map per unit.
// Numbers decode as json.Number so conversion factors survive round-trips
// without float drift.
func Load(dir, dataset string) ([]map[string]any, error) {
	if !validDatasets[dataset] {
		return nil, fmt.Errorf("unknown dataset %q. Choose from: %s",
			dataset, strings.Join(Datasets(), ", "))
	}

	path := filepath.Join(dir, dataset+".jsonl")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		var rec map[string]any
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}
