package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ankago/atlas/extract"
	"github.com/ankago/atlas/server/processing"
)

// ParseMessageRequest is the input for single-message job extraction.
type ParseMessageRequest struct {
	Message string `json:"message"`
}

// ParseMessageResponse is the success shape for /v1/parse_message.
type ParseMessageResponse struct {
	Success bool          `json:"success"`
	Jobs    []extract.Job `json:"jobs"`
	Count   int           `json:"count"`
}

// ParseBatchRequest is the input for multi-message job extraction.
type ParseBatchRequest struct {
	Messages []string `json:"messages"`
}

// ParseBatchResponse is the success shape for /v1/parse_batch.
type ParseBatchResponse struct {
	Success   bool                     `json:"success"`
	Results   []processing.ParseResult `json:"results"`
	TotalJobs int                      `json:"total_jobs"`
}

// ParseMessageHandler extracts freight jobs from a single raw message.
type ParseMessageHandler struct {
	processor *processing.Processor
	logger    *zap.Logger
}

func NewParseMessageHandler(processor *processing.Processor, logger *zap.Logger) *ParseMessageHandler {
	return &ParseMessageHandler{processor: processor, logger: logger}
}

func (h *ParseMessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ParseMessageRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "No message provided",
			"jobs":  []extract.Job{},
		}, h.logger)
		return
	}

	result, err := h.processor.ParseMessage(r.Context(), req.Message)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ParseMessageResponse{
		Success: true,
		Jobs:    result.Jobs,
		Count:   result.Count,
	}, h.logger)
}

// ParseBatchHandler extracts freight jobs from a sequence of messages,
// one at a time, preserving input order.
type ParseBatchHandler struct {
	processor *processing.Processor
	logger    *zap.Logger
}

func NewParseBatchHandler(processor *processing.Processor, logger *zap.Logger) *ParseBatchHandler {
	return &ParseBatchHandler{processor: processor, logger: logger}
}

func (h *ParseBatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ParseBatchRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "No messages provided",
			"results": []processing.ParseResult{},
		}, h.logger)
		return
	}

	result, err := h.processor.ParseBatch(r.Context(), req.Messages)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ParseBatchResponse{
		Success:   true,
		Results:   result.Results,
		TotalJobs: result.TotalJobs,
	}, h.logger)
}
