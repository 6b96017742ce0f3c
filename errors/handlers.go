package errors

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// ErrorHandler wraps an http.Handler with panic recovery that logs the
// stack and answers with a JSON internal error.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					stack := debug.Stack()
					logger.Error("panic recovered",
						zap.Any("error", err),
						zap.ByteString("stacktrace", stack),
						zap.String("request_id", r.Header.Get("X-Request-ID")),
					)

					atlasErr := NewInternalError(r.Header.Get("X-Request-ID"), nil)
					WriteError(w, atlasErr)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// LogError logs an error with its request context.
func LogError(logger *zap.Logger, err error, requestID string) {
	if atlasErr, ok := err.(*AtlasError); ok {
		logger.Error("request error",
			zap.String("error_type", string(atlasErr.Type)),
			zap.String("message", atlasErr.Message),
			zap.Int("code", atlasErr.Code),
			zap.String("request_id", requestID),
			zap.Any("details", atlasErr.Details),
		)
	} else {
		logger.Error("unexpected error",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
	}
}
