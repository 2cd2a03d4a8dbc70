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

	assert.Equal(t, 3600.0, cfg.Pipeline.SegmentGapSeconds)
	assert.Equal(t, 700.0, cfg.Pipeline.MaxMatchDistanceM)
	assert.Equal(t, "fap", cfg.Pipeline.Model)
	assert.Equal(t, "file", cfg.Ingest.SourceType)
	assert.False(t, cfg.Server.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero segment gap", func(c *Config) { c.Pipeline.SegmentGapSeconds = 0 }},
		{"negative match distance", func(c *Config) { c.Pipeline.MaxMatchDistanceM = -1 }},
		{"inverted latitude bounds", func(c *Config) { c.Pipeline.MinLatDeg = 41; c.Pipeline.MaxLatDeg = 40 }},
		{"inverted longitude bounds", func(c *Config) { c.Pipeline.MinLonDeg = -3; c.Pipeline.MaxLonDeg = -4 }},
		{"inverted altitude bounds", func(c *Config) { c.Pipeline.MinAltitudeFt = 10000; c.Pipeline.MaxAltitudeFt = 0 }},
		{"unknown model", func(c *Config) { c.Pipeline.Model = "forwards" }},
		{"unknown source type", func(c *Config) { c.Ingest.SourceType = "carrier pigeon" }},
		{"bad server port", func(c *Config) { c.Server.Enabled = true; c.Server.Port = 0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[logging]
level = "debug"

[pipeline]
model = "backwards"
max_match_distance_m = 350.0

[server]
enabled = true
port = 9090
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "backwards", cfg.Pipeline.Model)
	assert.Equal(t, 350.0, cfg.Pipeline.MaxMatchDistanceM)
	assert.Equal(t, 9090, cfg.Server.Port)

	// Untouched sections keep their defaults.
	assert.Equal(t, 3600.0, cfg.Pipeline.SegmentGapSeconds)
	assert.Equal(t, "file", cfg.Ingest.SourceType)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[pipeline]
model = "forwards"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}
