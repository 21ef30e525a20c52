package unitdata

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".jsonl"), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "units_of_measurement",
		`{"unit":"meter","property":"length","conversion_factor":1.0}`+"\n"+
			`{"unit":"yard","property":"length","conversion_factor":0.9144}`+"\n")

	records, err := Load(dir, "units_of_measurement")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "meter", records[0]["unit"])

	// Factors survive as json.Number, not drifting floats.
	factor, ok := records[1]["conversion_factor"].(json.Number)
	require.True(t, ok)
	assert.Equal(t, "0.9144", factor.String())
}

func TestLoad_SkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "si_units", `{"unit":"second"}`+"\n\n"+`{"unit":"mole"}`+"\n")

	records, err := Load(dir, "si_units")
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoad_UnknownDataset(t *testing.T) {
	_, err := Load(t.TempDir(), "mystery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dataset "mystery"`)
	assert.Contains(t, err.Error(), "si_units, units_of_measurement, uom")
}

func TestLoad_MalformedLine(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "uom", `{"unit":"meter"}`+"\n"+`{broken`+"\n")

	_, err := Load(dir, "uom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDatasets(t *testing.T) {
	assert.Equal(t, []string{"si_units", "units_of_measurement", "uom"}, Datasets())
}
