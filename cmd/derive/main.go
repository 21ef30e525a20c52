// Command derive rebuilds the focused dataset files (SI base units, property
// summary, biomedical subset, UO and UCUM cross-reference lists) from the
// canonical dataset.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/uom-dataset-etl/internal/config"
	"github.com/couchcryptid/uom-dataset-etl/internal/derive"
	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
	"github.com/couchcryptid/uom-dataset-etl/internal/observability"
	"github.com/couchcryptid/uom-dataset-etl/internal/pipeline"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	defaultUnits := filepath.Join(cfg.DataDir, pipeline.CanonicalDataset+".jsonl")
	unitsPath := flag.String("units", defaultUnits, "path to the canonical dataset")
	outDir := flag.String("out", cfg.DataDir, "directory for the focused dataset files")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	metrics := observability.NewMetrics()

	records, err := jsonl.ReadFile[domain.UnitRecord](*unitsPath)
	if err != nil {
		logger.Error("failed to read canonical dataset", "error", err)
		os.Exit(1)
	}

	counts, err := derive.WriteAll(records, *outDir)
	if err != nil {
		logger.Error("derivation failed", "error", err)
		os.Exit(1)
	}

	for name, n := range map[string]int{
		"si_base_units":    counts.SIBaseUnits,
		"property_summary": counts.PropertySummary,
		"biomedical_units": counts.Biomedical,
		"uo_units":         counts.UOUnits,
		"ucum_units":       counts.UCUMUnits,
	} {
		metrics.RecordsWritten.WithLabelValues(name).Add(float64(n))
	}

	logger.Info("focused datasets derived",
		"source_records", len(records),
		"si_base_units", counts.SIBaseUnits,
		"property_summary", counts.PropertySummary,
		"biomedical_units", counts.Biomedical,
		"uo_units", counts.UOUnits,
		"ucum_units", counts.UCUMUnits,
	)
}
