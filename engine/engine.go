// Package engine defines the boundary to the external inference engine.
//
// The engine owns the loaded model, GPU scheduling and request-level
// concurrency; this service only sends a formatted prompt with sampling
// parameters and receives exactly one completion back. Engine failures
// propagate to the caller unchanged: no retries happen at this boundary.
package engine

import "context"

// SamplingParams control token sampling for a single completion.
type SamplingParams struct {
	// Temperature in [0, 2]. Low values trade variety for consistency;
	// the structured-extraction endpoints run at 0.1.
	Temperature float64 `json:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens is the generation budget, always positive.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" validate:"gt=0"`

	// TopP is the nucleus sampling threshold in (0, 1].
	TopP float64 `json:"top_p" yaml:"top_p" validate:"gt=0,lte=1"`
}

// Engine produces completions for pre-formatted prompts.
type Engine interface {
	// Complete sends one prompt and returns one completion, trimmed of
	// surrounding whitespace. The context carries cancellation from the
	// HTTP request; any timeout belongs to the engine client, not the core.
	Complete(ctx context.Context, prompt string, params SamplingParams) (string, error)

	// Model reports the model (or adapter) identifier requests address.
	Model() string
}
