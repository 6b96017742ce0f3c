// Package vllm implements the engine boundary against a vLLM-compatible
// HTTP completions API.
package vllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ankago/atlas/engine"
)

// Config holds connection settings for the completions endpoint.
type Config struct {
	// BaseURL of the serving deployment, e.g. "http://localhost:8000/v1".
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Model is the merged base model identifier.
	Model string

	// Adapter optionally names a fine-tuned adapter served on top of the
	// base model. When set it is passed through as the model identifier;
	// its meaning belongs to the engine.
	Adapter string

	// Timeout for a single completion round trip.
	Timeout time.Duration
}

// Client is an engine.Engine backed by a vLLM completions endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ engine.Engine = (*Client)(nil)

// New creates a client for the configured deployment.
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Model returns the identifier completions address: the adapter when one
// is configured, the merged base model otherwise.
func (c *Client) Model() string {
	if c.cfg.Adapter != "" {
		return c.cfg.Adapter
	}
	return c.cfg.Model
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopP        float64 `json:"top_p"`
}

type completionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the prompt to the completions endpoint and returns the
// first choice's text with surrounding whitespace trimmed.
func (c *Client) Complete(ctx context.Context, prompt string, params engine.SamplingParams) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model:       c.Model(),
		Prompt:      prompt,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
		TopP:        params.TopP,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("engine returned status %d: %s", resp.StatusCode, string(msg))
	}

	var cr completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("engine returned no choices")
	}

	return strings.TrimSpace(cr.Choices[0].Text), nil
}
