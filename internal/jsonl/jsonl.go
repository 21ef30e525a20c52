// Package jsonl reads and writes the dataset's JSON Lines files and their
// JSON array mirrors: UTF-8, LF line endings, trailing newline, non-ASCII
// characters escaped, one object per line.
package jsonl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf16"
	"unicode/utf8"
)

// Marshal serializes a value as compact JSON with every non-ASCII character
// escaped as \uXXXX, so the published files are diff-friendly in any tooling.
func Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return escapeNonASCII(data), nil
}

// escapeNonASCII rewrites multi-byte runes to \uXXXX escapes (surrogate pairs
// above the BMP). ASCII bytes pass through untouched, which is safe because
// multi-byte UTF-8 sequences never contain ASCII bytes.
func escapeNonASCII(data []byte) []byte {
	if isASCII(data) {
		return data
	}
	var b bytes.Buffer
	b.Grow(len(data))
	for i := 0; i < len(data); {
		if data[i] < utf8.RuneSelf {
			b.WriteByte(data[i])
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
		} else {
			fmt.Fprintf(&b, `\u%04x`, r)
		}
		i += size
	}
	return b.Bytes()
}

func isASCII(data []byte) bool {
	for _, c := range data {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// WriteFile writes records as JSONL: one escaped object per line, LF endings,
// trailing newline. Parent directories are created as needed.
func WriteFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var b bytes.Buffer
	for _, rec := range records {
		line, err := Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteJSONMirror writes the same records as a single indented JSON array,
// kept byte-consistent with the corresponding JSONL file.
func WriteJSONMirror[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var b bytes.Buffer
	b.WriteString("[\n")
	for i, rec := range records {
		line, err := Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		var indented bytes.Buffer
		if err := json.Indent(&indented, line, "  ", "  "); err != nil {
			return fmt.Errorf("indent record: %w", err)
		}
		b.WriteString("  ")
		b.Write(indented.Bytes())
		if i < len(records)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	b.WriteString("]\n")
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadFile parses a JSONL file into typed records. Blank lines are skipped;
// a malformed line fails with its line number.
func ReadFile[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []T
	for i, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var rec T
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Line is one raw JSONL line with its 1-based line number, for validators
// that need a locator.
type Line struct {
	Number int
	Raw    []byte
}

// ReadLines returns the non-blank raw lines of a JSONL file and whether the
// file ends with the required trailing newline.
func ReadLines(path string) (lines []Line, trailingNewline bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	trailingNewline = len(data) > 0 && data[len(data)-1] == '\n'
	for i, raw := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(raw)) == 0 {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Raw: raw})
	}
	return lines, trailingNewline, nil
}

// DecodeObjectStrict parses one JSON object, rejecting duplicate keys at any
// nesting depth (encoding/json silently keeps the last value otherwise).
func DecodeObjectStrict(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}
	obj, err := decodeObjectBody(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err == nil {
		return nil, fmt.Errorf("trailing data after object")
	}
	return obj, nil
}

func decodeObjectBody(dec *json.Decoder) (map[string]any, error) {
	obj := make(map[string]any)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		if _, dup := obj[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj[key] = value
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return decodeObjectBody(dec)
	case '[':
		var arr []any
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %v", delim)
	}
}

// EqualFiles reports whether two files hold byte-identical content, used by
// derivation-idempotence checks.
func EqualFiles(pathA, pathB string) (bool, error) {
	a, err := os.ReadFile(pathA)
	if err != nil {
		return false, err
	}
	b, err := os.ReadFile(pathB)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}
