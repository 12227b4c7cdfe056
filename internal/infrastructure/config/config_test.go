package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Currency.CacheTTL)
	assert.Equal(t, 5*time.Second, cfg.Currency.Timeout)
	assert.Equal(t, "https://openexchangerates.org/api", cfg.Currency.APIURL)
	assert.Empty(t, cfg.Currency.APIKey)
	assert.False(t, cfg.Redis.Enabled())
	assert.Same(t, cfg, Get())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
currency:
  cache_ttl: 6h
  timeout: 2s
  warmup_interval: 30m
redis:
  host: redis.internal
`)
	t.Setenv("TRIPDESK_CURRENCY_API_KEY", "from-env")
	t.Setenv("TRIPDESK_LOGGER_LEVEL", "debug")

	cfg, err := Load(path, "release")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, 6*time.Hour, cfg.Currency.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.Currency.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Currency.WarmupInterval)
	assert.Equal(t, "from-env", cfg.Currency.APIKey)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.GetAddr())
}

func TestLoadAlternateKeyEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENEXCHANGERATES_APP_ID", "oxr-key")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "oxr-key", cfg.Currency.APIKey)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero ttl", "currency:\n  cache_ttl: 0s\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"negative warmup", "currency:\n  warmup_interval: -1m\n"},
		{"rate limit without window", "ratelimit:\n  enabled: true\n  window: 0s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), "")
			assert.Error(t, err)
		})
	}
}
