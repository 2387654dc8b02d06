// Package config provides configuration loading and management for dcatbr.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete dcatbr configuration.
type Config struct {
	Portal PortalConfig `yaml:"portal"`
	Shapes ShapesConfig `yaml:"shapes"`
	Output OutputConfig `yaml:"output"`
	NATS   NATSConfig   `yaml:"nats"`
}

// PortalConfig configures the open data portal client.
type PortalConfig struct {
	// BaseURL is the portal root (default: https://dados.gov.br)
	BaseURL string `yaml:"base_url"`
	// Timeout bounds each HTTP request
	Timeout time.Duration `yaml:"timeout"`
	// PageSize is the buscar page size
	PageSize int `yaml:"page_size"`
	// PageDelay is the pause between requests
	PageDelay time.Duration `yaml:"page_delay"`
}

// ShapesConfig configures SHACL shape loading.
type ShapesConfig struct {
	// Dir overrides the embedded shape set with *.ttl files from a directory
	Dir string `yaml:"dir"`
}

// OutputConfig configures report output.
type OutputConfig struct {
	// Dir receives validation reports (default: results)
	Dir string `yaml:"dir"`
}

// NATSConfig configures optional result publishing.
type NATSConfig struct {
	// URL of the NATS server (empty = publishing disabled)
	URL string `yaml:"url"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Portal: PortalConfig{
			BaseURL:   "https://dados.gov.br",
			Timeout:   30 * time.Second,
			PageSize:  100,
			PageDelay: 500 * time.Millisecond,
		},
		Shapes: ShapesConfig{
			Dir: "", // embedded shape set
		},
		Output: OutputConfig{
			Dir: "results",
		},
		NATS: NATSConfig{
			URL: "", // publishing disabled
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url is required")
	}
	if c.Portal.Timeout <= 0 {
		return fmt.Errorf("portal.timeout must be positive")
	}
	if c.Portal.PageSize <= 0 {
		return fmt.Errorf("portal.page_size must be positive")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file, layered over the
// defaults. Environment references in the file are expanded first.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal([]byte(ExpandEnvWithDefaults(string(data))), config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}

// ExpandEnvWithDefaults expands ${VAR} and ${VAR:-default} references.
func ExpandEnvWithDefaults(s string) string {
	return os.Expand(s, func(name string) string {
		if i := strings.Index(name, ":-"); i >= 0 {
			if v := os.Getenv(name[:i]); v != "" {
				return v
			}
			return name[i+2:]
		}
		return os.Getenv(name)
	})
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Portal.BaseURL != "" {
		c.Portal.BaseURL = other.Portal.BaseURL
	}
	if other.Portal.Timeout != 0 {
		c.Portal.Timeout = other.Portal.Timeout
	}
	if other.Portal.PageSize != 0 {
		c.Portal.PageSize = other.Portal.PageSize
	}
	if other.Portal.PageDelay != 0 {
		c.Portal.PageDelay = other.Portal.PageDelay
	}

	if other.Shapes.Dir != "" {
		c.Shapes.Dir = other.Shapes.Dir
	}
	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
}
