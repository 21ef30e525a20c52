package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "jsonl", cfg.DataDir)
	assert.Equal(t, "sources/si_units.jsonl", cfg.SISourcePath)
	assert.Equal(t, "sources/uom.jsonl", cfg.UOMSourcePath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.PublishEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATA_DIR", "/tmp/out")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_BROKERS", "b1:9092, b2:9092,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", cfg.DataDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_PublishRequiresBrokers(t *testing.T) {
	t.Setenv("PUBLISH_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", " , ")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("SOME_KEY", "value")
	assert.Equal(t, "value", EnvOrDefault("SOME_KEY", "fallback"))
	assert.Equal(t, "fallback", EnvOrDefault("UNSET_KEY_12345", "fallback"))
}
