package errors

import (
	"net/http"
)

// NewError creates an AtlasError with full control over its fields.
// Prefer the specialized constructors below for common cases.
func NewError(errType ErrorType, message string, code int, requestID string, details map[string]interface{}, err error) *AtlasError {
	return &AtlasError{
		Type:      errType,
		Message:   message,
		Code:      code,
		RequestID: requestID,
		Details:   details,
		err:       err,
	}
}

// NewValidationError creates a validation error for request input
// failures: missing required fields, out-of-range sampling parameters,
// malformed request bodies.
func NewValidationError(requestID, message string, validationDetails map[string]interface{}) *AtlasError {
	return &AtlasError{
		Type:      ValidationError,
		Message:   message,
		Code:      http.StatusBadRequest,
		RequestID: requestID,
		Details:   validationDetails,
	}
}

// NewEngineError creates an error for inference engine failures. These
// propagate unchanged: the core performs no retries at this boundary.
func NewEngineError(requestID string, message string, err error) *AtlasError {
	return &AtlasError{
		Type:      EngineError,
		Message:   message,
		Code:      http.StatusBadGateway,
		RequestID: requestID,
		err:       err,
	}
}

// NewRateLimitError creates a rate limit error with a retry hint.
func NewRateLimitError(requestID string, retryAfter int) *AtlasError {
	return &AtlasError{
		Type:      RateLimitError,
		Message:   "Rate limit exceeded",
		Code:      http.StatusTooManyRequests,
		RequestID: requestID,
		Details: map[string]interface{}{
			"retry_after": retryAfter,
		},
	}
}

// NewInternalError creates an internal server error for everything not
// covered by the other types: panics, encoding failures, unexpected
// system errors.
func NewInternalError(requestID string, err error) *AtlasError {
	return &AtlasError{
		Type:      InternalError,
		Message:   "An internal error occurred",
		Code:      http.StatusInternalServerError,
		RequestID: requestID,
		err:       err,
	}
}
