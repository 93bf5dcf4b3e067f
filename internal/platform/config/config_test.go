package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("RIGCHECK_ADDR", "")

	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.TxTimeout)
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, 100, cfg.Outbox.BatchSize)
	assert.True(t, cfg.Sweeper.Enabled)
}

func TestFromEnvParsesValues(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("SWEEPER_INTERVAL", "90s")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 90*time.Second, cfg.Sweeper.Interval)
	assert.Equal(t, 100, cfg.Outbox.BatchSize, "invalid values fall back to the default")
}

func TestLoadAppliesYAMLOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rigcheck.yaml")
	doc := []byte("server:\n  addr: \":9090\"\nsweeper:\n  interval: 2m\nkafka:\n  brokers: [\"broker:9092\"]\n")
	require.NoError(t, os.WriteFile(path, doc, 0o600))
	t.Setenv("RIGCHECK_CONFIG_FILE", path)
	t.Setenv("JWT_ISSUER", "station-7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Sweeper.Interval)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, "station-7", cfg.Server.JWTIssuer, "fields absent from the file keep env values")
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o600))
	t.Setenv("RIGCHECK_CONFIG_FILE", path)

	_, err := Load()
	require.Error(t, err)
}
