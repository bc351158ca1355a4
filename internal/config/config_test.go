package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, "window", cfg.Strategy)
	assert.Equal(t, 100, cfg.WindowDelayMs)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
concurrency: 5
strategy: pool
window_delay_ms: 250
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, "pool", cfg.Strategy)
	assert.Equal(t, 250, cfg.WindowDelayMs)
	// Unset fields keep their defaults.
	assert.Equal(t, 75, cfg.JPEGQuality)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero concurrency", "concurrency: 0"},
		{"unknown strategy", "strategy: burst"},
		{"negative delay", "window_delay_ms: -5"},
		{"quality out of range", "jpeg_quality: 150"},
		{"non-positive timeout", "http_timeout_ms: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "concurrency: [not an int"))
	assert.Error(t, err)
}

func TestLoadOrDefaultWithoutFile(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, int64(100), cfg.WindowDelay().Milliseconds())
	assert.Equal(t, int64(30000), cfg.HTTPTimeout().Milliseconds())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
