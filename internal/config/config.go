package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds tool-wide defaults. Command-line flags override anything
// set here.
type Config struct {
	Concurrency   int    `yaml:"concurrency"`
	Strategy      string `yaml:"strategy"`
	WindowDelayMs int    `yaml:"window_delay_ms"`
	JPEGQuality   int    `yaml:"jpeg_quality"`
	HTTPTimeoutMs int    `yaml:"http_timeout_ms"`
}

func Default() *Config {
	return &Config{
		Concurrency:   3,
		Strategy:      "window",
		WindowDelayMs: 100,
		JPEGQuality:   75,
		HTTPTimeoutMs: 30000,
	}
}

// Load reads a YAML config file and fills unset fields from defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads the config at path, or the default location, or
// falls back to built-in defaults when no file exists.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}

	def := DefaultPath()
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

// DefaultPath returns the default configuration file location.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pixflow", "config.yaml")
}

func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.Strategy != "window" && c.Strategy != "pool" {
		return fmt.Errorf("strategy must be window or pool, got %q", c.Strategy)
	}
	if c.WindowDelayMs < 0 {
		return fmt.Errorf("window_delay_ms cannot be negative")
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be within 1..100, got %d", c.JPEGQuality)
	}
	if c.HTTPTimeoutMs <= 0 {
		return fmt.Errorf("http_timeout_ms must be positive")
	}
	return nil
}

// WindowDelay returns the inter-window pause as a duration.
func (c *Config) WindowDelay() time.Duration {
	return time.Duration(c.WindowDelayMs) * time.Millisecond
}

// HTTPTimeout returns the remote fetch timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMs) * time.Millisecond
}
