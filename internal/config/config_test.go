package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	content := `{
		"api_key": "test-key",
		"model": "gemini-2.5-pro",
		"timeout_seconds": 60,
		"max_lines": 40,
		"min_skills": 6,
		"port": 9090,
		"verbose": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.Equal(t, 40, cfg.MaxLines)
	assert.Equal(t, 6, cfg.MinSkills)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(`{ invalid json }`), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("PORT", "3000")

	cfg := FromEnv()
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-token", cfg.GitHubToken)
	assert.Equal(t, 3000, cfg.Port)
}

func TestFromEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := FromEnv()
	assert.Equal(t, 0, cfg.Port)
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := &Config{Port: 8080, TimeoutSeconds: 120, MaxLines: 45, MinSkills: 5}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ZeroConfig(t *testing.T) {
	cfg := &Config{}
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadPort(t *testing.T) {
	cfg := &Config{Port: 70000}
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestValidate_NegativeValues(t *testing.T) {
	for _, cfg := range []*Config{
		{TimeoutSeconds: -1},
		{MaxLines: -1},
		{MinSkills: -1},
	} {
		assert.Error(t, cfg.Validate())
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{APIKey: "explicit-key", MaxLines: 50}
	defaults := Config{
		APIKey:         "default-key",
		Model:          "gemini-2.5-flash",
		TimeoutSeconds: 120,
		MaxLines:       45,
		Port:           8080,
	}

	merged := cfg.MergeWithDefaults(defaults)

	assert.Equal(t, "explicit-key", merged.APIKey)
	assert.Equal(t, "gemini-2.5-flash", merged.Model)
	assert.Equal(t, 120, merged.TimeoutSeconds)
	assert.Equal(t, 50, merged.MaxLines)
	assert.Equal(t, 8080, merged.Port)
}
