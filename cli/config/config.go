// Package config handles YAML config file loading for the bowline CLI.
package config

import (
	"fmt"
	"time"
)

// Config represents a bowline.yaml configuration file.
// All values are optional and act as defaults for CLI flags; flags
// always override config values.
type Config struct {
	// BadgeDir is the default target directory for badge generation.
	BadgeDir string `yaml:"badge_dir"`
	// Storage holds the S3 publish target.
	Storage StorageConfig `yaml:"storage"`
	// Adapter holds the optional completion-notification settings.
	Adapter AdapterConfig `yaml:"adapter"`
}

// StorageConfig holds the S3 publish target from the config file.
type StorageConfig struct {
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// AdapterConfig holds notification adapter defaults.
type AdapterConfig struct {
	// Type selects the adapter: "redis", "webhook", or empty for none.
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch c.Adapter.Type {
	case "", "redis", "webhook":
	default:
		return fmt.Errorf("unknown adapter type %q", c.Adapter.Type)
	}
	if c.Adapter.Type != "" && c.Adapter.URL == "" {
		return fmt.Errorf("adapter type %q requires a url", c.Adapter.Type)
	}
	return nil
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
