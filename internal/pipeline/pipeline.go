package pipeline

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
	"github.com/couchcryptid/uom-dataset-etl/internal/observability"
	"github.com/couchcryptid/uom-dataset-etl/internal/source"
	"github.com/couchcryptid/uom-dataset-etl/internal/validate"
)

// CanonicalDataset is the file stem of the merged dataset.
const CanonicalDataset = "units_of_measurement"

// Manifest summarizes one build run. It is written next to the dataset so
// consumers can tell which regeneration produced the files.
type Manifest struct {
	GeneratedAt   string `json:"generated_at"`
	SIRecords     int    `json:"si_records"`
	UOMRecords    int    `json:"uom_records"`
	MergedRecords int    `json:"merged_records"`
}

// Result reports what a successful build produced.
type Result struct {
	SIRecords     int
	UOMRecords    int
	MergedRecords int
	DatasetPath   string
	ManifestPath  string
}

// Builder runs the full read-normalize-merge-validate-write sequence.
type Builder struct {
	table      *domain.QuantityTable
	normalizer *source.Normalizer
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewBuilder creates a Builder with the given quantity table and
// observability.
func NewBuilder(table *domain.QuantityTable, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		table:      table,
		normalizer: source.NewNormalizer(table),
		logger:     logger,
		metrics:    metrics,
	}
}

// Build regenerates the canonical dataset wholesale. On any violation the
// run fails without touching the output files; partial output is never
// written.
func (b *Builder) Build(siPath, uomPath, outDir string) (*Result, error) {
	start := time.Now()

	siRaw, err := source.ReadSIListing(siPath)
	if err != nil {
		return nil, err
	}
	uomRaw, err := source.ReadUOMListing(uomPath)
	if err != nil {
		return nil, err
	}
	b.metrics.RecordsRead.WithLabelValues("si").Add(float64(len(siRaw)))
	b.metrics.RecordsRead.WithLabelValues("uom").Add(float64(len(uomRaw)))
	b.logger.Info("source listings read", "si_records", len(siRaw), "uom_records", len(uomRaw))

	report := &validate.Report{}
	si := b.normalizer.NormalizeSIListing(siRaw, report)
	uom := b.normalizer.NormalizeUOMListing(uomRaw, report)
	merged := Merge(si, uom, report)
	report.Merge(validate.Records(merged, b.table))

	if !report.Empty() {
		b.countViolations(report)
		b.logger.Error("build failed validation", "violations", len(report.Violations()))
		return nil, report.Err()
	}

	datasetPath := filepath.Join(outDir, CanonicalDataset+".jsonl")
	if err := jsonl.WriteFile(datasetPath, merged); err != nil {
		return nil, err
	}
	if err := jsonl.WriteJSONMirror(filepath.Join(outDir, CanonicalDataset+".json"), merged); err != nil {
		return nil, err
	}
	b.metrics.RecordsWritten.WithLabelValues(CanonicalDataset).Add(float64(len(merged)))

	manifest := Manifest{
		GeneratedAt:   domain.Clock().Now().UTC().Format(time.RFC3339),
		SIRecords:     len(siRaw),
		UOMRecords:    len(uomRaw),
		MergedRecords: len(merged),
	}
	manifestPath := filepath.Join(outDir, "build_manifest.json")
	if err := writeManifest(manifestPath, manifest); err != nil {
		return nil, err
	}

	b.metrics.BuildDuration.Observe(time.Since(start).Seconds())
	b.logger.Info("dataset built",
		"records", len(merged),
		"dataset", datasetPath,
		"generated_at", manifest.GeneratedAt,
	)

	return &Result{
		SIRecords:     len(siRaw),
		UOMRecords:    len(uomRaw),
		MergedRecords: len(merged),
		DatasetPath:   datasetPath,
		ManifestPath:  manifestPath,
	}, nil
}

func (b *Builder) countViolations(report *validate.Report) {
	for _, v := range report.Violations() {
		b.metrics.Violations.WithLabelValues(string(v.Kind)).Inc()
	}
}

func writeManifest(path string, manifest Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
