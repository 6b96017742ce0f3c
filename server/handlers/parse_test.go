package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ankago/atlas/config"
	"github.com/ankago/atlas/engine"
	"github.com/ankago/atlas/server/metrics"
	"github.com/ankago/atlas/server/mocks"
	"github.com/ankago/atlas/server/processing"
)

func newTestProcessor(t *testing.T, completeFunc func(context.Context, string, engine.SamplingParams) (string, error)) (*processing.Processor, *mocks.MockEngine) {
	t.Helper()

	eng := mocks.NewMockEngine(completeFunc)
	cfg := config.DefaultConfig()
	cfg.CircuitBreaker.TestMode = true

	p, err := processing.NewProcessor(cfg, eng, metrics.NewMetrics(), zaptest.NewLogger(t))
	require.NoError(t, err)
	return p, eng
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestParseMessageHandler(t *testing.T) {
	p, eng := newTestProcessor(t, func(_ context.Context, _ string, _ engine.SamplingParams) (string, error) {
		return `[{"origin":"İstanbul","destination":"İzmir","vehicle_type":"kamyon"}]`, nil
	})
	h := NewParseMessageHandler(p, zaptest.NewLogger(t))

	w := postJSON(t, h, `{"message":"İstanbul--İzmir kamyon"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ParseMessageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Jobs, 1)
	assert.Equal(t, "İstanbul", resp.Jobs[0].Origin)
	assert.Len(t, eng.Calls, 1)
}

func TestParseMessageHandlerEmptyMessage(t *testing.T) {
	p, eng := newTestProcessor(t, nil)
	h := NewParseMessageHandler(p, zaptest.NewLogger(t))

	for _, body := range []string{`{"message":""}`, `{}`} {
		w := postJSON(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No message provided","jobs":[]}`, w.Body.String())
	}
	assert.Empty(t, eng.Calls, "pipeline is never invoked for empty input")
}

func TestParseMessageHandlerEngineFailure(t *testing.T) {
	p, _ := newTestProcessor(t, func(_ context.Context, _ string, _ engine.SamplingParams) (string, error) {
		return "", context.DeadlineExceeded
	})
	h := NewParseMessageHandler(p, zaptest.NewLogger(t))

	w := postJSON(t, h, `{"message":"İstanbul--İzmir"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestParseMessageHandlerInvalidBody(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	h := NewParseMessageHandler(p, zaptest.NewLogger(t))

	w := postJSON(t, h, `{"message": 42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body")
}

func TestParseBatchHandler(t *testing.T) {
	p, _ := newTestProcessor(t, func(_ context.Context, prompt string, _ engine.SamplingParams) (string, error) {
		if strings.Contains(prompt, "Bursa") {
			return `[{"origin":"Bursa","destination":"Konya"},{"origin":"Bursa","destination":"Adana"}]`, nil
		}
		return "not json", nil
	})
	h := NewParseBatchHandler(p, zaptest.NewLogger(t))

	w := postJSON(t, h, `{"messages":["Bursa çıkışlı yükler","anlamsız"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ParseBatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "Bursa çıkışlı yükler", resp.Results[0].Message)
	assert.Equal(t, 2, resp.Results[0].Count)
	assert.Equal(t, 0, resp.Results[1].Count)
	assert.Equal(t, 2, resp.TotalJobs)
}

func TestParseBatchHandlerEmptyMessages(t *testing.T) {
	p, eng := newTestProcessor(t, nil)
	h := NewParseBatchHandler(p, zaptest.NewLogger(t))

	for _, body := range []string{`{"messages":[]}`, `{}`} {
		w := postJSON(t, h, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No messages provided","results":[]}`, w.Body.String())
	}
	assert.Empty(t, eng.Calls)
}
