package jsonl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Unit   string  `json:"unit"`
	Symbol string  `json:"symbol"`
	Factor float64 `json:"factor"`
}

func TestMarshal_EscapesNonASCII(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"plain ascii", row{Unit: "meter", Symbol: "m", Factor: 1}, `{"unit":"meter","symbol":"m","factor":1}`},
		{"superscript escaped", map[string]string{"c": "meter/second²"}, `{"c":"meter/second\u00b2"}`},
		{"theta key escaped", map[string]int{"Θ": 1}, `{"\u0398":1}`},
		{"degree sign escaped", map[string]string{"s": "°C"}, `{"s":"\u00b0C"}`},
		{"astral plane surrogate pair", map[string]string{"x": "𝛉"}, `{"x":"\ud835\udec9"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))
		})
	}
}

func TestWriteFile_TrailingNewlineAndLF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jsonl")
	records := []row{
		{Unit: "meter", Symbol: "m", Factor: 1},
		{Unit: "ångström", Symbol: "Å", Factor: 1e-10},
	}
	require.NoError(t, WriteFile(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.True(t, strings.HasSuffix(text, "\n"), "file must end with a newline")
	assert.NotContains(t, text, "\r")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `ångström`)
	assert.Contains(t, lines[1], `Å`)
}

func TestWriteFile_Deterministic(t *testing.T) {
	dir := t.TempDir()
	records := []row{{Unit: "second", Symbol: "s", Factor: 1}}

	pathA := filepath.Join(dir, "a.jsonl")
	pathB := filepath.Join(dir, "b.jsonl")
	require.NoError(t, WriteFile(pathA, records))
	require.NoError(t, WriteFile(pathB, records))

	same, err := EqualFiles(pathA, pathB)
	require.NoError(t, err)
	assert.True(t, same)
}

func TestReadFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.jsonl")
	want := []row{
		{Unit: "meter", Symbol: "m", Factor: 1},
		{Unit: "kilometer", Symbol: "km", Factor: 1000},
	}
	require.NoError(t, WriteFile(path, want))

	got, err := ReadFile[row](path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadFile_MalformedLineReportsLocator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"unit\":\"meter\"}\n{broken\n"), 0o644))

	_, err := ReadFile[row](path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadLines_TrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-newline.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"unit":"meter"}`), 0o644))

	lines, trailing, err := ReadLines(path)
	require.NoError(t, err)
	assert.False(t, trailing)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Number)
}

func TestDecodeObjectStrict(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		obj, err := DecodeObjectStrict([]byte(`{"unit":"meter","dimension":{"L":1}}`))
		require.NoError(t, err)
		assert.Equal(t, "meter", obj["unit"])
	})

	t.Run("duplicate top-level key", func(t *testing.T) {
		_, err := DecodeObjectStrict([]byte(`{"unit":"meter","unit":"second"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate key "unit"`)
	})

	t.Run("duplicate nested key", func(t *testing.T) {
		_, err := DecodeObjectStrict([]byte(`{"dimension":{"L":1,"L":2}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `duplicate key "L"`)
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := DecodeObjectStrict([]byte(`[1,2]`))
		require.Error(t, err)
	})
}

func TestWriteJSONMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.json")
	require.NoError(t, WriteJSONMirror(path, []row{
		{Unit: "meter", Symbol: "m", Factor: 1},
		{Unit: "second", Symbol: "s", Factor: 1},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "[\n"))
	assert.True(t, strings.HasSuffix(text, "]\n"))
	assert.Contains(t, text, `"unit": "meter"`)
}
