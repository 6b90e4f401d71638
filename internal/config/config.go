// Package config provides configuration loading and validation for the career-docs backend.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the application configuration. Values can be loaded from a
// JSON file and overridden by environment variables; missing values fall back
// to defaults.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// LLM
	APIKey string `json:"api_key,omitempty"` // Gemini API key

	// Generation behavior
	MaxRegenerations int  `json:"max_regenerations,omitempty"` // Retries after a critical FVS rejection
	UseBrowser       bool `json:"use_browser,omitempty"`       // Headless browser fallback for company research
	Verbose          bool `json:"verbose,omitempty"`           // Print detailed validation output
}

// Default values applied by ApplyDefaults.
const (
	DefaultPort             = 8080
	DefaultMaxRegenerations = 1
)

// Load reads configuration from a JSON file, then applies environment
// overrides (PORT, DATABASE_URL, GEMINI_API_KEY) and defaults. An empty path
// skips the file and uses environment plus defaults only.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides config values from environment variables.
func (c *Config) applyEnv() {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			c.Port = port
		}
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.DatabaseURL = dbURL
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.APIKey = key
	}
}

// ApplyDefaults fills zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.MaxRegenerations == 0 {
		c.MaxRegenerations = DefaultMaxRegenerations
	}
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.MaxRegenerations < 0 {
		return fmt.Errorf("config error: 'max_regenerations' must be non-negative")
	}
	return nil
}
