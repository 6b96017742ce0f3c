package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ankago/atlas/server/processing"
)

// ChatRequest is the input for the conversational endpoint.
type ChatRequest struct {
	Messages []processing.Message `json:"messages"`
}

// ChatResponse mirrors the OpenAI chat completion envelope so existing
// client SDKs can consume the endpoint unchanged.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
}

// ChatChoice holds one generated assistant turn.
type ChatChoice struct {
	Index        int                `json:"index"`
	Message      processing.Message `json:"message"`
	FinishReason string             `json:"finish_reason"`
}

// ChatHandler serves conversational completions against the
// fine-tuned chat model.
type ChatHandler struct {
	processor *processing.Processor
	model     string
	logger    *zap.Logger
}

func NewChatHandler(processor *processing.Processor, model string, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{processor: processor, model: model, logger: logger}
}

func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}

	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "No messages provided",
		}, h.logger)
		return
	}

	content, err := h.processor.Chat(r.Context(), req.Messages)
	if err != nil {
		writeEngineError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		ID:     "chatcmpl-" + uuid.NewString(),
		Object: "chat.completion",
		Model:  h.model,
		Choices: []ChatChoice{{
			Index:        0,
			Message:      processing.Message{Role: "assistant", Content: content},
			FinishReason: "stop",
		}},
	}, h.logger)
}
