package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestDo(t *testing.T) {
	transientErr := errors.New("dial tcp: connection refused")
	permanentErr := errors.New("unauthorized")

	testCases := []struct {
		name        string
		failures    []error
		expCalls    int
		expErr      error
		expAnyError bool
	}{
		{
			name:     "success on first attempt",
			expCalls: 1,
		},
		{
			name:     "success after transient failures",
			failures: []error{transientErr, transientErr},
			expCalls: 3,
		},
		{
			name:     "permanent failure is not retried",
			failures: []error{permanentErr},
			expCalls: 1,
			expErr:   permanentErr,
		},
		{
			name:     "attempts exhausted",
			failures: []error{transientErr, transientErr, transientErr, transientErr},
			expCalls: 3,
			expErr:   transientErr,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), log.NewNopLogger(), fastConfig(3), func() error {
				calls++
				if calls <= len(tc.failures) {
					return tc.failures[calls-1]
				}
				return nil
			}, DefaultIsRetryable)

			assert.Equal(t, tc.expCalls, calls)
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestDoCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, log.NewNopLogger(), fastConfig(3), func() error {
		calls++
		return nil
	}, DefaultIsRetryable)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestCalculateDelay(t *testing.T) {
	config := Config{BaseDelay: time.Second, MaxDelay: 5 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, calculateDelay(config, 1))
	assert.Equal(t, 2*time.Second, calculateDelay(config, 2))
	assert.Equal(t, 4*time.Second, calculateDelay(config, 3))
	assert.Equal(t, 5*time.Second, calculateDelay(config, 4))
}

func TestDefaultIsRetryable(t *testing.T) {
	assert.False(t, DefaultIsRetryable(nil))
	assert.True(t, DefaultIsRetryable(context.DeadlineExceeded))
	assert.True(t, DefaultIsRetryable(errors.New("read: connection reset by peer")))
	assert.False(t, DefaultIsRetryable(errors.New("invalid number")))
}

func TestCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker(log.NewNopLogger(), 2, 20*time.Millisecond)
	failing := func() error { return errors.New("boom") }

	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateClosed, cb.GetState())
	require.Error(t, cb.Execute(failing))
	assert.Equal(t, StateOpen, cb.GetState())

	// Calls are refused while open
	require.ErrorIs(t, cb.Execute(func() error { return nil }), ErrCircuitOpen)

	time.Sleep(30 * time.Millisecond)

	// A successful trial call closes the breaker
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.GetState())
	assert.Equal(t, "closed", cb.GetState().String())
}
