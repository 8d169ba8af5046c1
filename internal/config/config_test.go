package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "mongo", cfg.Database.Driver)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, 42, cfg.Generation.Seed)
	assert.Equal(t, 90*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Generation.RetryDelay)
	assert.Equal(t, 1, cfg.Generation.MaxRetries)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
database:
  driver: sqlite
  dsn: file:test.db
generation:
  seed: 7
  max_retries: 5
  timeout: 30s
jwt:
  expiration: 15m
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GENERATION_SEED", "11")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, 11, cfg.Generation.Seed)
	assert.Equal(t, 30*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 1, cfg.Generation.MaxRetries)
	assert.Equal(t, 15*time.Minute, cfg.JWT.Expiration)
}

func TestClampRetries(t *testing.T) {
	assert.Equal(t, 0, clampRetries(-3))
	assert.Equal(t, 0, clampRetries(0))
	assert.Equal(t, 1, clampRetries(1))
	assert.Equal(t, 1, clampRetries(9))
}
