package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging"`
	Ingest   IngestConfig   `toml:"ingest"`
	Pipeline PipelineConfig `toml:"pipeline"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // json, console
}

// IngestConfig configures the position-report source.
type IngestConfig struct {
	SourceType     string `toml:"source_type"` // file, http
	FilePath       string `toml:"file_path"`
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// PipelineConfig configures segmentation, matching and validation.
type PipelineConfig struct {
	// Time gap (seconds) between consecutive reports that starts a new
	// flight segment.
	SegmentGapSeconds float64 `toml:"segment_gap_seconds"`

	// Maximum accepted distance (meters) between a matched report and
	// the literal FAP/threshold position.
	MaxMatchDistanceM float64 `toml:"max_match_distance_m"`

	// Geographic bounding box applied before segmentation. Defaults to
	// the LEMD terminal area.
	MinLatDeg float64 `toml:"min_lat_deg"`
	MaxLatDeg float64 `toml:"max_lat_deg"`
	MinLonDeg float64 `toml:"min_lon_deg"`
	MaxLonDeg float64 `toml:"max_lon_deg"`

	// Altitude window (feet) applied before segmentation.
	MinAltitudeFt float64 `toml:"min_altitude_ft"`
	MaxAltitudeFt float64 `toml:"max_altitude_ft"`

	// Plausibility window (seconds) on the corrected FAP-to-threshold
	// time; landings outside it are excluded from statistics and the
	// training subset.
	MinDeltaTimeS float64 `toml:"min_delta_time_s"`
	MaxDeltaTimeS float64 `toml:"max_delta_time_s"`

	// Corrected times below this (seconds) are flagged as outliers.
	OutlierDeltaTimeS float64 `toml:"outlier_delta_time_s"`

	// Attribution model: "fap" (nearest-point) or "backwards"
	// (bearing-based FAP detection).
	Model string `toml:"model"`

	// Number of aircraft processed concurrently. Zero or negative means
	// one worker per CPU.
	Workers int `toml:"workers"`
}

// StorageConfig configures the SQLite result store and pipeline cache.
type StorageConfig struct {
	DatabasePath string `toml:"database_path"`
	CacheEnabled bool   `toml:"cache_enabled"`
}

// ServerConfig configures the optional HTTP API.
type ServerConfig struct {
	Enabled            bool     `toml:"enabled"`
	Host               string   `toml:"host"`
	Port               int      `toml:"port"`
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`
}

// DefaultConfig returns the configuration used when no file is provided.
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Ingest: IngestConfig{
			SourceType:     "file",
			TimeoutSeconds: 30,
		},
		Pipeline: PipelineConfig{
			SegmentGapSeconds: 3600,
			MaxMatchDistanceM: 700,
			MinLatDeg:         40.3,
			MaxLatDeg:         40.8,
			MinLonDeg:         -3.8,
			MaxLonDeg:         -3.3,
			MinAltitudeFt:     -1000,
			MaxAltitudeFt:     10000,
			MinDeltaTimeS:     100,
			MaxDeltaTimeS:     500,
			OutlierDeltaTimeS: 165,
			Model:             "fap",
		},
		Storage: StorageConfig{
			DatabasePath: "approachtime.db",
			CacheEnabled: true,
		},
		Server: ServerConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    8080,
		},
	}
}

// Load reads a TOML config file, layering it over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Pipeline.SegmentGapSeconds <= 0 {
		return fmt.Errorf("pipeline.segment_gap_seconds must be positive, got %v", c.Pipeline.SegmentGapSeconds)
	}
	if c.Pipeline.MaxMatchDistanceM <= 0 {
		return fmt.Errorf("pipeline.max_match_distance_m must be positive, got %v", c.Pipeline.MaxMatchDistanceM)
	}
	if c.Pipeline.MinLatDeg >= c.Pipeline.MaxLatDeg {
		return fmt.Errorf("pipeline latitude bounds are inverted: [%v, %v]", c.Pipeline.MinLatDeg, c.Pipeline.MaxLatDeg)
	}
	if c.Pipeline.MinLonDeg >= c.Pipeline.MaxLonDeg {
		return fmt.Errorf("pipeline longitude bounds are inverted: [%v, %v]", c.Pipeline.MinLonDeg, c.Pipeline.MaxLonDeg)
	}
	if c.Pipeline.MinAltitudeFt >= c.Pipeline.MaxAltitudeFt {
		return fmt.Errorf("pipeline altitude bounds are inverted: [%v, %v]", c.Pipeline.MinAltitudeFt, c.Pipeline.MaxAltitudeFt)
	}
	switch c.Pipeline.Model {
	case "fap", "backwards":
	default:
		return fmt.Errorf("pipeline.model must be \"fap\" or \"backwards\", got %q", c.Pipeline.Model)
	}
	switch c.Ingest.SourceType {
	case "file", "http":
	default:
		return fmt.Errorf("ingest.source_type must be \"file\" or \"http\", got %q", c.Ingest.SourceType)
	}
	if c.Server.Enabled && (c.Server.Port < 1 || c.Server.Port > 65535) {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}
