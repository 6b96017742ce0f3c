package circuitbreaker

import "errors"

// ErrCircuitOpen is returned when the breaker refuses a request because
// the engine is considered down.
var ErrCircuitOpen = errors.New("circuit breaker is open")
