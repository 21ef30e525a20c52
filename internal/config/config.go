// Package config reads pipeline settings from environment variables,
// applying defaults where unset.
package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds all pipeline settings.
type Config struct {
	// DataDir is the root directory for generated JSONL/JSON artifacts.
	DataDir string

	// Raw source listings.
	SISourcePath  string
	UOMSourcePath string

	// Pre-downloaded ontology exports.
	UOPath   string
	OMPath   string
	UCUMPath string

	LogLevel  string
	LogFormat string

	// Release publishing (off by default; never part of the build path).
	PublishEnabled bool
	KafkaBrokers   []string
	KafkaTopic     string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:       EnvOrDefault("DATA_DIR", "jsonl"),
		SISourcePath:  EnvOrDefault("SI_SOURCE_PATH", "sources/si_units.jsonl"),
		UOMSourcePath: EnvOrDefault("UOM_SOURCE_PATH", "sources/uom.jsonl"),
		UOPath:        EnvOrDefault("UO_CSV_PATH", "resource/UO.csv"),
		OMPath:        EnvOrDefault("OM_RDF_PATH", "resource/om-2.0.rdf"),
		UCUMPath:      EnvOrDefault("UCUM_TTL_PATH", "resource/om-2-ucum.ttl"),
		LogLevel:      EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:     EnvOrDefault("LOG_FORMAT", "json"),

		PublishEnabled: os.Getenv("PUBLISH_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:     EnvOrDefault("KAFKA_TOPIC", "uom-dataset-releases"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("PUBLISH_ENABLED is true but KAFKA_BROKERS is not set")
		}
		if cfg.KafkaTopic == "" {
			return nil, errors.New("PUBLISH_ENABLED is true but KAFKA_TOPIC is not set")
		}
	}

	return cfg, nil
}

// EnvOrDefault returns the environment variable's value, or def when unset
// or empty.
func EnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
