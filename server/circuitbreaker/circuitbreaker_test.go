package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestBreaker(t *testing.T, threshold int, reset time.Duration) *CircuitBreaker {
	t.Helper()
	return NewCircuitBreaker("engine", Config{
		FailureThreshold: threshold,
		ResetTimeout:     reset,
		HalfOpenRequests: 1,
		TestMode:         true,
	}, zaptest.NewLogger(t), nil)
}

func TestBreakerTripsAfterThreshold(t *testing.T) {
	cb := newTestBreaker(t, 3, time.Minute)
	engineErr := errors.New("engine down")

	for i := 0; i < 3; i++ {
		err := cb.Execute(func() error { return engineErr })
		require.ErrorIs(t, err, engineErr)
	}
	assert.Equal(t, StateOpen, cb.GetState())

	// Open circuit fails fast without invoking the function.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := newTestBreaker(t, 1, 10*time.Millisecond)

	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))
	require.Equal(t, StateOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	// First probe after the reset window is allowed; success closes.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	cb := newTestBreaker(t, 3, time.Minute)

	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))
	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))
	require.NoError(t, cb.Execute(func() error { return nil }))

	// The earlier failures no longer count toward the threshold.
	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))
	require.Error(t, cb.Execute(func() error { return errors.New("fail") }))
	assert.Equal(t, StateClosed, cb.GetState())
}
