package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }},
		{"zero timeout", func(c *Config) { c.Service.TimeoutSec = 0 }},
		{"zero workers", func(c *Config) { c.Batch.Workers = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoaderDefaults(t *testing.T) {
	cfg, err := NewIsolatedLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Batch.Workers, cfg.Batch.Workers)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoaderReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "critex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
output_dir: /tmp/critex-out
service:
  endpoint: https://docai.example.com/v1/processors/p1
  timeout_sec: 30
batch:
  workers: 8
server:
  port: 9090
`), 0o600))

	cfg, err := NewIsolatedLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/critex-out", cfg.OutputDir)
	assert.Equal(t, "https://docai.example.com/v1/processors/p1", cfg.Service.Endpoint)
	assert.Equal(t, 30, cfg.Service.TimeoutSec)
	assert.Equal(t, 8, cfg.Batch.Workers)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
}

func TestLoaderMissingFile(t *testing.T) {
	_, err := NewIsolatedLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoaderInvalidFileContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "critex.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: trace\n"), 0o600))

	_, err := NewIsolatedLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoaderEnvironmentOverride(t *testing.T) {
	t.Setenv("CRITEX_BATCH_WORKERS", "2")
	t.Setenv("CRITEX_SERVICE_ENDPOINT", "https://env.example.com")

	cfg, err := NewIsolatedLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, "https://env.example.com", cfg.Service.Endpoint)
}

func TestServiceTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "2m0s", cfg.Service.Timeout().String())
}
