// Package config provides configuration management for the Atlas gateway.
// It covers the HTTP server, the inference engine connection, sampling
// profiles, system prompts and runtime behavior.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete gateway configuration.
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Engine         EngineConfig         `yaml:"engine"`
	Prompts        PromptsConfig        `yaml:"prompts"`
	Logging        LoggingConfig        `yaml:"logging"`
	Routes         []RouteConfig        `yaml:"routes"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port specifies the HTTP server port (default: 8080)
	Port int `yaml:"port"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body (default: 30s)
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Completions are slow, so this defaults well above the
	// engine timeout (default: 150s)
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing request headers (default: 1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout specifies how long to wait for graceful shutdown
	// before forcing termination (default: 30s)
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig holds the inference engine connection and generation
// settings. The engine is external; only its address and the parameters
// sent with each completion live here.
type EngineConfig struct {
	// BaseURL of the vLLM-compatible completions API
	// (e.g. "http://localhost:8000/v1")
	BaseURL string `yaml:"base_url"`

	// APIKey for the deployment, sent as a bearer token when set.
	// Use environment references (e.g. ${ATLAS_ENGINE_KEY}) in YAML.
	APIKey string `yaml:"api_key"`

	// Model is the merged base model identifier (e.g. "atlas-1")
	Model string `yaml:"model"`

	// Adapter optionally names a fine-tuned adapter layered on the base
	// model. Passed through to the engine opaquely.
	Adapter string `yaml:"adapter"`

	// Timeout for a single completion round trip (default: 120s)
	Timeout time.Duration `yaml:"timeout"`

	// MaxContextTokens is the engine's context window. Requests whose
	// prompt plus generation budget exceed it are rejected up front.
	MaxContextTokens int `yaml:"max_context_tokens"`

	// Profiles are the per-endpoint sampling parameter sets.
	Profiles SamplingProfiles `yaml:"profiles"`
}

// SamplingProfile is one set of generation parameters.
type SamplingProfile struct {
	// Temperature in [0,2]
	Temperature float64 `yaml:"temperature"`

	// MaxTokens is the positive generation budget
	MaxTokens int `yaml:"max_tokens"`

	// TopP is the nucleus sampling threshold in (0,1]
	TopP float64 `yaml:"top_p"`
}

// SamplingProfiles holds the per-endpoint generation parameters. The
// structured endpoints run cold for consistent JSON; chat runs warmer.
type SamplingProfiles struct {
	Chat   SamplingProfile `yaml:"chat"`
	Parse  SamplingProfile `yaml:"parse"`
	Intent SamplingProfile `yaml:"intent"`
}

// PromptsConfig holds the system prompts for each endpoint. The defaults
// ship with the gateway and can be overridden per deployment.
type PromptsConfig struct {
	// Chat is the assistant system prompt
	Chat string `yaml:"chat"`

	// Parser is the job-extraction system prompt
	Parser string `yaml:"parser"`

	// Intent is the intent-classification system prompt
	Intent string `yaml:"intent"`

	// HistoryTurns is how many trailing history turns the intent endpoint
	// keeps for context (default: 4)
	HistoryTurns int `yaml:"history_turns"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	// Level sets logging verbosity: debug, info, warn, error
	Level string `yaml:"level"`

	// Format specifies log output format: json or text
	Format string `yaml:"format"`
}

// RouteConfig holds route-specific configuration.
type RouteConfig struct {
	// Path is the URL path to match
	Path string `yaml:"path"`

	// Handler specifies which handler to use for this route
	Handler string `yaml:"handler"`

	// Version specifies the API version (e.g., "v1")
	Version string `yaml:"version"`

	// Methods specifies the allowed HTTP methods for this route
	Methods []string `yaml:"methods"`

	// Headers specifies required headers for this route
	Headers map[string]string `yaml:"headers,omitempty"`

	// Middleware specifies route-specific middleware
	Middleware []string `yaml:"middleware,omitempty"`
}

// CircuitBreakerConfig controls the breaker wrapped around engine calls.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// circuit opens
	FailureThreshold int `yaml:"failure_threshold"`

	// ResetTimeout is how long the circuit stays open before testing the
	// engine again
	ResetTimeout time.Duration `yaml:"reset_timeout"`

	// HalfOpenRequests is how many probe requests the half-open state allows
	HalfOpenRequests int `yaml:"half_open_requests"`

	// TestMode skips Prometheus metric registration (for testing)
	TestMode bool `yaml:"test_mode"`
}

// DefaultConfig returns the stock configuration: a local vLLM deployment
// serving the atlas-1 model, the shipped system prompts, and the sampling
// profiles the endpoints were tuned with.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    150 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
		},

		Engine: EngineConfig{
			BaseURL:          "http://localhost:8000/v1",
			Model:            "atlas-1",
			Timeout:          120 * time.Second,
			MaxContextTokens: 4096,
			Profiles: SamplingProfiles{
				// Conversational replies want some variety.
				Chat: SamplingProfile{Temperature: 0.7, MaxTokens: 512, TopP: 0.9},
				// Low temperature for consistent JSON.
				Parse:  SamplingProfile{Temperature: 0.1, MaxTokens: 1024, TopP: 0.9},
				Intent: SamplingProfile{Temperature: 0.1, MaxTokens: 150, TopP: 0.9},
			},
		},

		Prompts: PromptsConfig{
			Chat:         DefaultChatPrompt,
			Parser:       DefaultParserPrompt,
			Intent:       DefaultIntentPrompt,
			HistoryTurns: 4,
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},

		Routes: []RouteConfig{
			{
				Path:    "/parse/message",
				Handler: "parse_message",
				Version: "v1",
				Methods: []string{"POST"},
			},
			{
				Path:    "/parse/batch",
				Handler: "parse_batch",
				Version: "v1",
				Methods: []string{"POST"},
			},
			{
				Path:       "/chat",
				Handler:    "chat",
				Version:    "v1",
				Methods:    []string{"POST"},
				Middleware: []string{"ratelimit"},
			},
			{
				Path:    "/intent",
				Handler: "intent",
				Version: "v1",
				Methods: []string{"POST"},
			},
		},

		CircuitBreaker: CircuitBreakerConfig{
			FailureThreshold: 3,
			ResetTimeout:     30 * time.Second,
			HalfOpenRequests: 1,
		},
	}
}

// LoadFile loads configuration from a YAML file
func LoadFile(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// expandEnvVars resolves environment variable references in configuration
// strings. It supports standard ${VAR} substitution, ${VAR:-default}
// default values, and nested references which are expanded until the
// result is stable.
func expandEnvVars(s string) string {
	result := os.Expand(s, func(key string) string {
		if i := strings.Index(key, ":-"); i >= 0 {
			envKey := key[:i]
			defaultValue := key[i+2:]

			if val := os.Getenv(envKey); val != "" {
				return val
			}
			return defaultValue
		}
		return os.Getenv(key)
	})

	prev := ""
	for prev != result {
		prev = result
		result = os.Expand(result, os.Getenv)
	}

	return result
}

// Load loads configuration from an io.Reader. Values start from
// DefaultConfig, YAML is decoded on top, and the result is validated.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := expandEnvVars(string(data))

	config := DefaultConfig()

	dec := yaml.NewDecoder(strings.NewReader(expanded))
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("negative read timeout: %v", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout < 0 {
		return fmt.Errorf("negative write timeout: %v", c.Server.WriteTimeout)
	}
	if c.Server.MaxHeaderBytes < 0 {
		return fmt.Errorf("negative max header bytes: %d", c.Server.MaxHeaderBytes)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("negative shutdown timeout: %v", c.Server.ShutdownTimeout)
	}

	// Engine validation
	if c.Engine.BaseURL == "" {
		return fmt.Errorf("empty engine base URL")
	}
	if c.Engine.Model == "" {
		return fmt.Errorf("empty engine model")
	}
	if c.Engine.Timeout < 0 {
		return fmt.Errorf("negative engine timeout: %v", c.Engine.Timeout)
	}
	if c.Engine.MaxContextTokens <= 0 {
		return fmt.Errorf("max context tokens must be positive: %d", c.Engine.MaxContextTokens)
	}
	for name, p := range map[string]SamplingProfile{
		"chat":   c.Engine.Profiles.Chat,
		"parse":  c.Engine.Profiles.Parse,
		"intent": c.Engine.Profiles.Intent,
	} {
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("profile %s: temperature must be in [0,2]: %v", name, p.Temperature)
		}
		if p.MaxTokens <= 0 {
			return fmt.Errorf("profile %s: max_tokens must be positive: %d", name, p.MaxTokens)
		}
		if p.TopP <= 0 || p.TopP > 1 {
			return fmt.Errorf("profile %s: top_p must be in (0,1]: %v", name, p.TopP)
		}
	}

	// Prompts validation
	if c.Prompts.HistoryTurns < 0 {
		return fmt.Errorf("negative history turns: %d", c.Prompts.HistoryTurns)
	}

	// Logging validation
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid levels
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
		// Valid formats
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// Route validation
	for i, route := range c.Routes {
		if route.Path == "" {
			return fmt.Errorf("empty path in route %d", i)
		}
		if route.Handler == "" {
			return fmt.Errorf("empty handler in route %d", i)
		}
		if route.Version == "" {
			return fmt.Errorf("empty version in route %d", i)
		}
	}

	// Circuit breaker validation
	if c.CircuitBreaker.FailureThreshold <= 0 {
		return fmt.Errorf("circuit breaker failure threshold must be positive: %d", c.CircuitBreaker.FailureThreshold)
	}
	if c.CircuitBreaker.ResetTimeout < 0 {
		return fmt.Errorf("negative circuit breaker reset timeout: %v", c.CircuitBreaker.ResetTimeout)
	}
	if c.CircuitBreaker.HalfOpenRequests <= 0 {
		return fmt.Errorf("circuit breaker half-open requests must be positive: %d", c.CircuitBreaker.HalfOpenRequests)
	}

	return nil
}
