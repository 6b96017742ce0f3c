// Package errors provides structured error handling for the Atlas gateway.
// It defines a typed error carrying an HTTP status code, request ID and
// optional details, JSON response formatting, and zap-integrated logging.
//
// Basic usage:
//
//	// Simple error response
//	errors.Error(w, "Something went wrong", http.StatusBadRequest)
//
//	// Type-specific error
//	errors.ErrorWithType(w, "No message provided", errors.ValidationError, http.StatusBadRequest)
//
// For richer context, use the constructors in types.go:
//
//	err := errors.NewValidationError(requestID, "No message provided", map[string]interface{}{
//	    "field": "message",
//	})
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// DefaultLogger is the zap logger used by the package when no explicit
// logger is passed. It starts as a production logger and can be replaced
// with SetLogger.
var DefaultLogger *zap.Logger

func init() {
	var err error
	DefaultLogger, err = zap.NewProduction()
	if err != nil {
		DefaultLogger = zap.NewNop()
	}
}

// SetLogger replaces the package logger. A nil logger is ignored so
// logging can never be accidentally disabled.
func SetLogger(logger *zap.Logger) {
	if logger != nil {
		DefaultLogger = logger
	}
}

// ErrorType categorizes errors for client handling.
type ErrorType string

const (
	// ValidationError represents input validation failures
	ValidationError ErrorType = "validation_error"

	// InternalError represents unexpected internal server errors
	InternalError ErrorType = "internal_error"

	// ConfigError represents configuration-related errors
	ConfigError ErrorType = "config_error"

	// EngineError represents failures from the inference engine
	EngineError ErrorType = "engine_error"

	// RateLimitError represents rate limiting errors
	RateLimitError ErrorType = "rate_limit_error"

	// NotFoundError represents resource not found errors
	NotFoundError ErrorType = "not_found"
)

// AtlasError is the service error type. It implements the error interface
// and serializes to the JSON error body returned to clients, while keeping
// the underlying error for logging.
type AtlasError struct {
	// Type categorizes the error for client handling
	Type ErrorType `json:"type"`

	// Message is a human-readable error description
	Message string `json:"message"`

	// Code is the HTTP status code (not exposed in JSON)
	Code int `json:"-"`

	// RequestID links the error to a specific request
	RequestID string `json:"request_id"`

	// Details contains additional error context
	Details map[string]interface{} `json:"details,omitempty"`

	// err is the underlying error (not exposed in JSON)
	err error
}

// Error implements the error interface.
func (e *AtlasError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chains.
func (e *AtlasError) Unwrap() error {
	return e.err
}

// Is matches errors by type, ignoring the other fields.
func (e *AtlasError) Is(target error) bool {
	t, ok := target.(*AtlasError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WriteError writes an AtlasError as a JSON response with its status code.
func WriteError(w http.ResponseWriter, err *AtlasError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}

// Error is a drop-in replacement for http.Error that writes an
// internal-error-typed AtlasError. The request ID is taken from the
// response headers when present.
func Error(w http.ResponseWriter, message string, code int) {
	requestID := w.Header().Get("X-Request-ID")
	err := &AtlasError{
		Type:      InternalError,
		Message:   message,
		Code:      code,
		RequestID: requestID,
	}
	WriteError(w, err)
}

// ErrorWithType is like Error but with an explicit error type.
func ErrorWithType(w http.ResponseWriter, message string, errType ErrorType, code int) {
	requestID := w.Header().Get("X-Request-ID")
	err := &AtlasError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
	}
	WriteError(w, err)
}
