package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "atlas-1", cfg.Engine.Model)
	assert.Equal(t, 4096, cfg.Engine.MaxContextTokens)
	assert.Equal(t, 4, cfg.Prompts.HistoryTurns)

	// Structured endpoints run cold, chat runs warm.
	assert.Equal(t, 0.1, cfg.Engine.Profiles.Parse.Temperature)
	assert.Equal(t, 1024, cfg.Engine.Profiles.Parse.MaxTokens)
	assert.Equal(t, 0.1, cfg.Engine.Profiles.Intent.Temperature)
	assert.Equal(t, 150, cfg.Engine.Profiles.Intent.MaxTokens)
	assert.Equal(t, 0.7, cfg.Engine.Profiles.Chat.Temperature)
	assert.Equal(t, 512, cfg.Engine.Profiles.Chat.MaxTokens)

	assert.NotEmpty(t, cfg.Prompts.Parser)
	assert.NotEmpty(t, cfg.Prompts.Intent)
	assert.Len(t, cfg.Routes, 4)
}

func TestLoadOverridesDefaults(t *testing.T) {
	yaml := `
server:
  port: 9090
engine:
  base_url: http://engine:8000/v1
  model: atlas-2
  adapter: atlas-2.1-adapter
  max_context_tokens: 8192
  profiles:
    parse:
      temperature: 0.2
      max_tokens: 2048
      top_p: 0.95
prompts:
  history_turns: 6
logging:
  level: debug
  format: text
`
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "atlas-2", cfg.Engine.Model)
	assert.Equal(t, "atlas-2.1-adapter", cfg.Engine.Adapter)
	assert.Equal(t, 8192, cfg.Engine.MaxContextTokens)
	assert.Equal(t, 0.2, cfg.Engine.Profiles.Parse.Temperature)
	assert.Equal(t, 2048, cfg.Engine.Profiles.Parse.MaxTokens)
	assert.Equal(t, 6, cfg.Prompts.HistoryTurns)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 0.7, cfg.Engine.Profiles.Chat.Temperature)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("ATLAS_ENGINE_KEY", "sk-test")

	yaml := `
engine:
  api_key: ${ATLAS_ENGINE_KEY}
  base_url: ${ATLAS_ENGINE_URL:-http://localhost:8000/v1}
`
	cfg, err := Load(strings.NewReader(yaml))
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.Engine.APIKey)
	assert.Equal(t, "http://localhost:8000/v1", cfg.Engine.BaseURL, "unset var falls back to default")
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "invalid port",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			errMsg: "invalid port",
		},
		{
			name:   "empty engine model",
			mutate: func(c *Config) { c.Engine.Model = "" },
			errMsg: "empty engine model",
		},
		{
			name:   "empty base URL",
			mutate: func(c *Config) { c.Engine.BaseURL = "" },
			errMsg: "empty engine base URL",
		},
		{
			name:   "temperature out of range",
			mutate: func(c *Config) { c.Engine.Profiles.Chat.Temperature = 2.5 },
			errMsg: "temperature",
		},
		{
			name:   "zero max tokens",
			mutate: func(c *Config) { c.Engine.Profiles.Parse.MaxTokens = 0 },
			errMsg: "max_tokens",
		},
		{
			name:   "top_p out of range",
			mutate: func(c *Config) { c.Engine.Profiles.Intent.TopP = 1.5 },
			errMsg: "top_p",
		},
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.Logging.Level = "verbose" },
			errMsg: "invalid log level",
		},
		{
			name:   "negative history turns",
			mutate: func(c *Config) { c.Prompts.HistoryTurns = -1 },
			errMsg: "history turns",
		},
		{
			name:   "route missing handler",
			mutate: func(c *Config) { c.Routes[0].Handler = "" },
			errMsg: "empty handler",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8888\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 8888, cfg.Server.Port)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
