// Package handlers provides HTTP handlers for the Atlas gateway.
// Each handler follows the same pattern: decode and validate the
// request, invoke the processing pipeline, and encode the response.
//
// Input validation errors are reported as an `error` field in the
// response body with HTTP 400; the pipeline is never invoked for
// invalid input. Engine failures map to HTTP 502 using the errors
// package envelope.
package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ankago/atlas/errors"
	"github.com/ankago/atlas/server/middleware"
)

// requestID extracts the request ID injected by the middleware chain,
// returning an empty string when the handler is exercised without it.
func requestID(r *http.Request) string {
	if id, ok := r.Context().Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// decode parses the JSON request body into v. On failure it writes a
// validation error response and returns false.
func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		errors.WriteError(w, errors.NewValidationError(
			requestID(r),
			"Invalid request body",
			map[string]interface{}{"error": err.Error()},
		))
		return false
	}
	return true
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeEngineError reports a completion failure. The pipeline only
// returns errors for engine or budget failures; extraction failures
// degrade silently inside the pipeline and never reach this path.
func writeEngineError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	errors.LogError(logger, err, requestID(r))

	var atlasErr *errors.AtlasError
	if errors.As(err, &atlasErr) {
		errors.WriteError(w, atlasErr)
		return
	}
	errors.WriteError(w, errors.NewEngineError(requestID(r), "Completion request failed", err))
}
