// Package validation guards what leaves for the inference engine:
// sampling parameters are checked against their documented ranges and
// prompts are token-counted against the engine's context window before
// a request is dispatched.
package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/pkoukk/tiktoken-go"

	"github.com/ankago/atlas/engine"
)

var validate = validator.New()

// Params checks sampling parameters against the ranges declared on
// engine.SamplingParams: temperature in [0,2], positive max_tokens,
// top_p in (0,1].
func Params(p engine.SamplingParams) error {
	if err := validate.Struct(p); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid sampling parameter %s: failed %s check", first.Field(), first.Tag())
		}
		return fmt.Errorf("invalid sampling parameters: %w", err)
	}
	return nil
}

// Tokenizer defines the interface for token counting
type Tokenizer interface {
	Encode(text string, allowedSpecial, disallowedSpecial []string) []int
	CountTokens(text string) int
}

// tiktokenWrapper wraps tiktoken to implement our Tokenizer interface
type tiktokenWrapper struct {
	*tiktoken.Tiktoken
}

func (t *tiktokenWrapper) CountTokens(text string) int {
	tokens := t.Encode(text, nil, nil)
	return len(tokens)
}

// TokenCounter handles token counting for prompts using tiktoken.
// The count is an approximation: the gateway's fine-tunes use their own
// tokenizer, but cl100k_base tracks it closely enough to enforce a
// context budget before the engine rejects the request itself.
type TokenCounter struct {
	encoding Tokenizer
}

// NewTokenCounter creates a token counter for the named tiktoken encoding.
func NewTokenCounter(encodingName string) (*TokenCounter, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding %s: %v", encodingName, err)
	}
	return &TokenCounter{encoding: &tiktokenWrapper{encoding}}, nil
}

// CountText counts the tokens in a rendered prompt.
func (tc *TokenCounter) CountText(text string) int {
	return tc.encoding.CountTokens(text)
}

// ValidateBudget checks that the prompt plus the generation budget fits
// the engine's context window.
func (tc *TokenCounter) ValidateBudget(prompt string, maxNewTokens, maxContextTokens int) error {
	if maxContextTokens <= 0 {
		return fmt.Errorf("invalid max context tokens: must be greater than 0")
	}

	total := tc.CountText(prompt) + maxNewTokens
	if total > maxContextTokens {
		return fmt.Errorf("total tokens (%d) exceeds max context length (%d)", total, maxContextTokens)
	}

	return nil
}
