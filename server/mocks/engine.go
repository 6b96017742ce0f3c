// Package mocks provides test doubles for the gateway's collaborators.
package mocks

import (
	"context"

	"github.com/ankago/atlas/engine"
)

// CompletionCall records one Complete invocation for assertions.
type CompletionCall struct {
	Prompt string
	Params engine.SamplingParams
}

// MockEngine implements engine.Engine for tests without a live model.
//
// Example usage:
//
//	eng := mocks.NewMockEngine(func(ctx context.Context, prompt string, params engine.SamplingParams) (string, error) {
//	    return `[{"origin":"Ankara"}]`, nil
//	})
type MockEngine struct {
	CompleteFunc func(context.Context, string, engine.SamplingParams) (string, error)
	ModelName    string

	// Calls records every Complete invocation in order.
	Calls []CompletionCall
}

// Verify at compile time that MockEngine implements engine.Engine
var _ engine.Engine = (*MockEngine)(nil)

// NewMockEngine creates a MockEngine with an optional completion function.
// If completeFunc is nil, Complete returns an empty string with no error.
func NewMockEngine(completeFunc func(context.Context, string, engine.SamplingParams) (string, error)) *MockEngine {
	return &MockEngine{
		CompleteFunc: completeFunc,
		ModelName:    "mock-model",
	}
}

// Complete records the call and delegates to CompleteFunc when set.
func (m *MockEngine) Complete(ctx context.Context, prompt string, params engine.SamplingParams) (string, error) {
	m.Calls = append(m.Calls, CompletionCall{Prompt: prompt, Params: params})
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt, params)
	}
	return "", nil
}

// Model returns the configured mock model name.
func (m *MockEngine) Model() string {
	return m.ModelName
}
