// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the application configuration that can be loaded from a
// JSON file. All fields are optional; missing values use defaults or come
// from environment variables and CLI flags.
type Config struct {
	// Credentials
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	GitHubToken string `json:"github_token,omitempty"` // Optional GitHub token for repo lookups

	// Model
	Model          string `json:"model,omitempty"`           // Gemini model identifier
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"` // Per-model-call timeout

	// Pipeline policies
	MaxLines  int `json:"max_lines,omitempty"`  // Estimated-line budget before condensing
	MinSkills int `json:"min_skills,omitempty"` // Final skill floor

	// Server
	Port int `json:"port,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv returns a Config populated from environment variables. It is used
// as the lowest-precedence default layer.
func FromEnv() Config {
	cfg := Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		GitHubToken: os.Getenv("GITHUB_TOKEN"),
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	return cfg
}

// Validate checks that the configuration has valid values.
// Required-field checks are left to the callers that need them (the server
// requires an API key; the CLI can take one per invocation).
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in [0, 65535]")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.MaxLines < 0 {
		return fmt.Errorf("config error: 'max_lines' must be non-negative")
	}
	if c.MinSkills < 0 {
		return fmt.Errorf("config error: 'min_skills' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Explicit values always win over defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GitHubToken == "" {
		result.GitHubToken = defaults.GitHubToken
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.MaxLines == 0 {
		result.MaxLines = defaults.MaxLines
	}
	if result.MinSkills == 0 {
		result.MinSkills = defaults.MinSkills
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if !result.Verbose {
		result.Verbose = defaults.Verbose
	}

	return result
}
