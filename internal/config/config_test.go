package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("config.yml")
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "google", cfg.Routing.Provider)
	assert.Equal(t, 100*time.Millisecond, cfg.Routing.Delay)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	dir := chdirTemp(t)

	yml := `
port: "9090"
routing:
  provider: haversine
  timeout: 5s
database:
  driver: pgx
  url: postgres://localhost/routes
kafka:
  brokers: ["k1:9092"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644))
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
	t.Setenv("GOOGLE_MAPS_API_KEY", "env-key")
	t.Setenv("ROUTING_DELAY_SECONDS", "0.5")

	cfg, err := Load("config.yml")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "haversine", cfg.Routing.Provider)
	assert.Equal(t, 5*time.Second, cfg.Routing.Timeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Routing.Delay)
	assert.Equal(t, "env-key", cfg.Routing.APIKey)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("routing:\n  provider: carrier-pigeon\n"), 0o644))

	_, err := Load("config.yml")
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte("invalid: yaml: [[["), 0o644))

	_, err := Load("config.yml")
	require.Error(t, err)
}

func TestResolveAPIKey(t *testing.T) {
	SetDefaultAPIKey("")
	t.Cleanup(func() { SetDefaultAPIKey("") })

	_, ok := ResolveAPIKey("  ")
	assert.False(t, ok)

	SetDefaultAPIKey("process-key")
	key, ok := ResolveAPIKey("")
	require.True(t, ok)
	assert.Equal(t, "process-key", key)

	key, ok = ResolveAPIKey("explicit")
	require.True(t, ok)
	assert.Equal(t, "explicit", key)
}
