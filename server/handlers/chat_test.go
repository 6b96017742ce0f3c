package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ankago/atlas/engine"
)

func TestChatHandler(t *testing.T) {
	p, eng := newTestProcessor(t, func(_ context.Context, _ string, _ engine.SamplingParams) (string, error) {
		return "İstanbul-Ankara arası 3 yük buldum.", nil
	})
	h := NewChatHandler(p, "atlas-1", zaptest.NewLogger(t))

	w := postJSON(t, h, `{"messages":[{"role":"user","content":"istanbul ankara yük var mı"}]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, len(resp.ID) > 0)
	assert.Equal(t, "chat.completion", resp.Object)
	assert.Equal(t, "atlas-1", resp.Model)
	require.Len(t, resp.Choices, 1)
	assert.Equal(t, 0, resp.Choices[0].Index)
	assert.Equal(t, "assistant", resp.Choices[0].Message.Role)
	assert.Equal(t, "İstanbul-Ankara arası 3 yük buldum.", resp.Choices[0].Message.Content)
	assert.Equal(t, "stop", resp.Choices[0].FinishReason)
	assert.Len(t, eng.Calls, 1)
}

func TestChatHandlerEmptyMessages(t *testing.T) {
	p, eng := newTestProcessor(t, nil)
	h := NewChatHandler(p, "atlas-1", zaptest.NewLogger(t))

	for _, body := range []string{`{"messages":[]}`, `{}`} {
		w := postJSON(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No messages provided"}`, w.Body.String())
	}
	assert.Empty(t, eng.Calls)
}

func TestChatHandlerEngineFailure(t *testing.T) {
	p, _ := newTestProcessor(t, func(_ context.Context, _ string, _ engine.SamplingParams) (string, error) {
		return "", context.Canceled
	})
	h := NewChatHandler(p, "atlas-1", zaptest.NewLogger(t))

	w := postJSON(t, h, `{"messages":[{"role":"user","content":"selam"}]}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
