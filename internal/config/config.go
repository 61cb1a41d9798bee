// Package config handles configuration loading from YAML files and environment variables.
// Configuration precedence: environment variables > config file > defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "2s", "500ms", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds all monitor configuration.
type Config struct {
	Sampling  SamplingConfig  `yaml:"sampling"`
	Identity  IdentityConfig  `yaml:"identity"`
	Pressure  PressureConfig  `yaml:"pressure"`
	Publish   PublishConfig   `yaml:"publish"`
	Autostart AutostartConfig `yaml:"autostart"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SamplingConfig holds the refresh cadence settings.
type SamplingConfig struct {
	// Interval is the automatic refresh cadence.
	Interval Duration `yaml:"interval"`
	// SettleDelay separates a termination request from the refresh that
	// observes it.
	SettleDelay Duration `yaml:"settle_delay"`
}

// IdentityConfig holds process-to-application resolution settings.
type IdentityConfig struct {
	// MatchPolicy is "dotted-child" (default) or "any-prefix".
	MatchPolicy string `yaml:"match_policy"`
	// MaxAncestryDepth caps the parent-pid walk.
	MaxAncestryDepth int `yaml:"max_ancestry_depth"`
}

// PressureConfig maps the raw kernel pressure reading to the ordinal scale.
type PressureConfig struct {
	Warning  uint32 `yaml:"warning"`
	Critical uint32 `yaml:"critical"`
}

// PublishConfig holds optional NATS snapshot publishing settings.
type PublishConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// AutostartConfig holds launch-at-login settings.
type AutostartConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sampling: SamplingConfig{
			Interval:    Duration{2 * time.Second},
			SettleDelay: Duration{1 * time.Second},
		},
		Identity: IdentityConfig{
			MatchPolicy:      "dotted-child",
			MaxAncestryDepth: 64,
		},
		Pressure: PressureConfig{
			Warning:  2,
			Critical: 4,
		},
		Publish: PublishConfig{
			Enabled: false,
			URL:     "nats://127.0.0.1:4222",
			Subject: "memtray.snapshots",
		},
		Autostart: AutostartConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromBytes parses YAML configuration from a byte slice and merges with defaults.
// Environment variables take highest precedence and override values from the byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config data: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used.
func Load(path string) (*Config, error) {
	if path == "" {
		return LoadFromBytes(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// File doesn't exist — use defaults + env overrides
		return LoadFromBytes(nil)
	}

	return LoadFromBytes(data)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables have the highest precedence.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MEMTRAY_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Sampling.Interval = Duration{parsed}
		}
	}
	if v := os.Getenv("MEMTRAY_MATCH_POLICY"); v != "" {
		cfg.Identity.MatchPolicy = v
	}
	if v := os.Getenv("MEMTRAY_NATS_URL"); v != "" {
		cfg.Publish.URL = v
	}
	if v := os.Getenv("MEMTRAY_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Sampling.Interval.Duration <= 0 {
		return fmt.Errorf("sampling interval must be positive (got %v)", c.Sampling.Interval.Duration)
	}
	if c.Sampling.SettleDelay.Duration < 0 {
		return fmt.Errorf("settle delay must not be negative (got %v)", c.Sampling.SettleDelay.Duration)
	}
	if c.Identity.MaxAncestryDepth <= 0 {
		return fmt.Errorf("max ancestry depth must be positive (got %d)", c.Identity.MaxAncestryDepth)
	}
	switch c.Identity.MatchPolicy {
	case "dotted-child", "any-prefix":
	default:
		return fmt.Errorf("unknown match policy %q", c.Identity.MatchPolicy)
	}
	if c.Publish.Enabled {
		if c.Publish.URL == "" {
			return fmt.Errorf("publish URL is required when publishing is enabled")
		}
		if c.Publish.Subject == "" {
			return fmt.Errorf("publish subject is required when publishing is enabled")
		}
	}
	return nil
}
