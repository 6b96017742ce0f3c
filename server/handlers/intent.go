package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ankago/atlas/server/processing"
)

// IntentRequest is the input for intent classification. History is
// optional; only the trailing turns are retained for context.
type IntentRequest struct {
	Message string               `json:"message"`
	History []processing.Message `json:"history"`
}

// IntentHandler classifies a user message into a freight-domain intent
// and extracts routing slots from it.
type IntentHandler struct {
	processor *processing.Processor
	logger    *zap.Logger
}

func NewIntentHandler(processor *processing.Processor, logger *zap.Logger) *IntentHandler {
	return &IntentHandler{processor: processor, logger: logger}
}

func (h *IntentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req IntentRequest
	if !decode(w, r, &req) {
		return
	}

	if req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "No message provided",
		}, h.logger)
		return
	}

	result, err := h.processor.ParseIntent(r.Context(), req.Message, req.History)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}
