// Package processing implements the request pipeline between the HTTP
// handlers and the inference engine: prompt assembly, completion
// dispatch and structured extraction.
package processing

import "github.com/ankago/atlas/extract"

// Message represents a single message in a conversation, following the
// standard chat format used by LLM APIs.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ParseResult is the extraction outcome for one raw message.
type ParseResult struct {
	Message string        `json:"message"`
	Jobs    []extract.Job `json:"jobs"`
	Count   int           `json:"count"`
}

// BatchResult aggregates per-message results in input order.
type BatchResult struct {
	Results   []ParseResult `json:"results"`
	TotalJobs int           `json:"total_jobs"`
}

// IntentResult is the classification outcome for one user message.
// Success is false when no intent object could be recovered from the
// completion; RawResponse preserves the completion text for diagnostics
// either way.
type IntentResult struct {
	extract.Intent
	Success     bool   `json:"success"`
	RawResponse string `json:"raw_response"`
}
