package pipeline

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
	"github.com/couchcryptid/uom-dataset-etl/internal/observability"
	"github.com/couchcryptid/uom-dataset-etl/internal/validate"
)

var buildTime = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	table, err := domain.LoadQuantityTable()
	require.NoError(t, err)
	logger := observability.NewLogger(io.Discard, "text", "error")
	return NewBuilder(table, logger, observability.NewMetricsForTesting())
}

func TestBuild_EndToEnd(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(buildTime))
	defer domain.SetClock(nil)

	b := newBuilder(t)
	outDir := t.TempDir()

	result, err := b.Build(
		filepath.Join("testdata", "si_listing.jsonl"),
		filepath.Join("testdata", "uom_listing.jsonl"),
		outDir,
	)
	require.NoError(t, err)
	assert.Equal(t, 5, result.SIRecords)
	assert.Equal(t, 3, result.UOMRecords)
	// "second" appears in both listings and collapses to one record.
	assert.Equal(t, 7, result.MergedRecords)

	records, err := jsonl.ReadFile[domain.UnitRecord](result.DatasetPath)
	require.NoError(t, err)
	require.Len(t, records, 7)

	// Output is sorted by unit, then property.
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		ordered := prev.Unit < cur.Unit || (prev.Unit == cur.Unit && prev.Property < cur.Property)
		assert.True(t, ordered, "records %d and %d out of order: %q, %q", i-1, i, prev.Unit, cur.Unit)
	}

	// The written dataset passes full validation.
	table, err := domain.LoadQuantityTable()
	require.NoError(t, err)
	assert.True(t, validate.Records(records, table).Empty())

	var manifest Manifest
	data, err := os.ReadFile(result.ManifestPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &manifest))
	assert.Equal(t, "2026-03-14T12:00:00Z", manifest.GeneratedAt)
	assert.Equal(t, 7, manifest.MergedRecords)
}

func TestBuild_Deterministic(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(buildTime))
	defer domain.SetClock(nil)

	b := newBuilder(t)
	dirA, dirB := t.TempDir(), t.TempDir()

	_, err := b.Build(filepath.Join("testdata", "si_listing.jsonl"), filepath.Join("testdata", "uom_listing.jsonl"), dirA)
	require.NoError(t, err)
	_, err = b.Build(filepath.Join("testdata", "si_listing.jsonl"), filepath.Join("testdata", "uom_listing.jsonl"), dirB)
	require.NoError(t, err)

	for _, name := range []string{CanonicalDataset + ".jsonl", CanonicalDataset + ".json", "build_manifest.json"} {
		same, err := jsonl.EqualFiles(filepath.Join(dirA, name), filepath.Join(dirB, name))
		require.NoError(t, err, name)
		assert.True(t, same, "%s differs between runs", name)
	}
}

func TestBuild_ConflictingSourcesFail(t *testing.T) {
	b := newBuilder(t)
	outDir := t.TempDir()

	_, err := b.Build(
		filepath.Join("testdata", "si_listing.jsonl"),
		filepath.Join("testdata", "uom_conflict.jsonl"),
		outDir,
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversion_factor")

	// Partial output is never written.
	_, statErr := os.Stat(filepath.Join(outDir, CanonicalDataset+".jsonl"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestBuild_MissingSourceFile(t *testing.T) {
	b := newBuilder(t)
	_, err := b.Build(filepath.Join("testdata", "absent.jsonl"), filepath.Join("testdata", "uom_listing.jsonl"), t.TempDir())
	assert.Error(t, err)
}
