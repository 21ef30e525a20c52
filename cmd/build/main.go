// Command build regenerates the canonical units dataset from the raw source
// listings. The run is all-or-nothing: any validation violation aborts the
// build before output files are touched.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/uom-dataset-etl/internal/config"
	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
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

	siPath := flag.String("si", cfg.SISourcePath, "path to the SI source listing")
	uomPath := flag.String("uom", cfg.UOMSourcePath, "path to the general source listing")
	outDir := flag.String("out", cfg.DataDir, "directory for the generated dataset")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	metrics := observability.NewMetrics()

	table, err := domain.LoadQuantityTable()
	if err != nil {
		logger.Error("failed to load quantity table", "error", err)
		os.Exit(1)
	}

	builder := pipeline.NewBuilder(table, logger, metrics)
	result, err := builder.Build(*siPath, *uomPath, *outDir)
	if err != nil {
		logger.Error("build failed", "error", err)
		os.Exit(1)
	}

	logger.Info("build complete",
		"si_records", result.SIRecords,
		"uom_records", result.UOMRecords,
		"merged_records", result.MergedRecords,
		"dataset", result.DatasetPath,
		"manifest", result.ManifestPath,
	)
}
