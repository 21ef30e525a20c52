// Command annotate cross-references the canonical dataset against the UO,
// OM, and UCUM ontology exports and writes the annotated variant. With -apply
// the resulting cross-references are also propagated back into the canonical
// dataset.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/couchcryptid/uom-dataset-etl/internal/annotate"
	"github.com/couchcryptid/uom-dataset-etl/internal/config"
	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
	"github.com/couchcryptid/uom-dataset-etl/internal/observability"
	"github.com/couchcryptid/uom-dataset-etl/internal/pipeline"
)

const annotatedDataset = "units_with_ontologies"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	defaultUnits := filepath.Join(cfg.DataDir, pipeline.CanonicalDataset+".jsonl")
	defaultOutput := filepath.Join(cfg.DataDir, annotatedDataset+".jsonl")
	unitsPath := flag.String("units", defaultUnits, "path to the canonical dataset")
	uoPath := flag.String("uo", cfg.UOPath, "path to the UO CSV export")
	omPath := flag.String("om", cfg.OMPath, "path to the OM RDF export")
	ucumPath := flag.String("ucum", cfg.UCUMPath, "path to the OM UCUM Turtle export")
	outputPath := flag.String("output", defaultOutput, "where to write the annotated dataset")
	apply := flag.Bool("apply", false, "propagate annotations back into the canonical dataset")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	metrics := observability.NewMetrics()

	records, err := jsonl.ReadFile[domain.UnitRecord](*unitsPath)
	if err != nil {
		logger.Error("failed to read canonical dataset", "error", err)
		os.Exit(1)
	}

	ont, err := annotate.LoadOntologies(*uoPath, *omPath, *ucumPath)
	if err != nil {
		logger.Error("failed to load ontology exports", "error", err)
		os.Exit(1)
	}

	annotated, stats := annotate.Annotate(records, ont)
	metrics.AnnotationMatches.WithLabelValues("uo").Add(float64(stats.UOMatches))
	metrics.AnnotationMatches.WithLabelValues("ucum").Add(float64(stats.UCUMMatches))
	metrics.AnnotationMatches.WithLabelValues("om").Add(float64(stats.OMMatches))

	if err := jsonl.WriteFile(*outputPath, annotated); err != nil {
		logger.Error("failed to write annotated dataset", "error", err)
		os.Exit(1)
	}
	mirror := strings.TrimSuffix(*outputPath, ".jsonl") + ".json"
	if err := jsonl.WriteJSONMirror(mirror, annotated); err != nil {
		logger.Error("failed to write annotated mirror", "error", err)
		os.Exit(1)
	}

	logger.Info("dataset annotated",
		"records", stats.Total,
		"uo_matches", stats.UOMatches,
		"ucum_matches", stats.UCUMMatches,
		"om_matches", stats.OMMatches,
		"output", *outputPath,
	)

	if !*apply {
		return
	}

	updated, changed := annotate.Apply(records, annotated)
	if err := jsonl.WriteFile(*unitsPath, updated); err != nil {
		logger.Error("failed to update canonical dataset", "error", err)
		os.Exit(1)
	}
	canonicalMirror := strings.TrimSuffix(*unitsPath, ".jsonl") + ".json"
	if err := jsonl.WriteJSONMirror(canonicalMirror, updated); err != nil {
		logger.Error("failed to update canonical mirror", "error", err)
		os.Exit(1)
	}
	logger.Info("annotations applied", "changed", changed, "dataset", *unitsPath)
}
