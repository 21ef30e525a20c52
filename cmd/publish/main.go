// Command publish pushes a dataset release to the configured Kafka topic.
// Publishing is feature-flagged via PUBLISH_ENABLED and never part of the
// build path.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	kafkaadapter "github.com/couchcryptid/uom-dataset-etl/internal/adapter/kafka"
	"github.com/couchcryptid/uom-dataset-etl/internal/config"
	"github.com/couchcryptid/uom-dataset-etl/internal/domain"
	"github.com/couchcryptid/uom-dataset-etl/internal/jsonl"
	"github.com/couchcryptid/uom-dataset-etl/internal/observability"
	"github.com/couchcryptid/uom-dataset-etl/internal/pipeline"
)

// publishableDatasets are the dataset files whose rows carry the full unit
// record schema. The focused subsets have their own row shapes and would
// decode to empty records, so they are refused rather than published as
// garbage.
var publishableDatasets = map[string]bool{
	"units_of_measurement":  true,
	"units_with_ontologies": true,
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dataset := flag.String("dataset", pipeline.CanonicalDataset, "dataset file stem to publish")
	dataDir := flag.String("data", cfg.DataDir, "directory containing the generated dataset files")
	flag.Parse()

	logger := observability.NewLogger(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	metrics := observability.NewMetrics()

	if !cfg.PublishEnabled {
		logger.Error("publishing is disabled; set PUBLISH_ENABLED=true")
		os.Exit(1)
	}
	if !publishableDatasets[*dataset] {
		logger.Error("dataset rows are not unit records; refusing to publish", "dataset", *dataset)
		os.Exit(1)
	}

	records, err := jsonl.ReadFile[domain.UnitRecord](filepath.Join(*dataDir, *dataset+".jsonl"))
	if err != nil {
		logger.Error("failed to read dataset", "error", err)
		os.Exit(1)
	}

	writer := kafkaadapter.NewWriter(cfg, logger)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := writer.PublishDataset(ctx, *dataset, records); err != nil {
		logger.Error("publish failed", "error", err)
		os.Exit(1)
	}
	metrics.RecordsPublished.Add(float64(len(records)))

	logger.Info("release published",
		"dataset", *dataset,
		"records", len(records),
		"topic", cfg.KafkaTopic,
	)
}
