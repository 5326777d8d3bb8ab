package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

func TestHealthChecker(t *testing.T) {
	hc := NewHealthChecker(log.NewNopLogger(), time.Hour)

	failing := true
	hc.AddCheck(NewFuncCheck("store", func(context.Context) error { return nil }))
	hc.AddCheck(NewFuncCheck("submission", func(context.Context) error {
		if failing {
			return errors.New("no recent submission")
		}
		return nil
	}))

	// Healthy until the first run
	assert.True(t, hc.IsHealthy())

	hc.RunChecks(context.Background())
	assert.False(t, hc.IsHealthy())

	status := hc.GetStatus()
	require.Len(t, status, 2)
	assert.True(t, status["store"].Healthy)
	assert.False(t, status["submission"].Healthy)
	assert.Equal(t, "no recent submission", status["submission"].LastError)

	failing = false
	hc.RunChecks(context.Background())
	assert.True(t, hc.IsHealthy())
	assert.Empty(t, hc.GetStatus()["submission"].LastError)
}

func TestHealthCheckerStart(t *testing.T) {
	hc := NewHealthChecker(log.NewNopLogger(), 10*time.Millisecond)

	runs := make(chan struct{}, 16)
	hc.AddCheck(NewFuncCheck("counter", func(context.Context) error {
		select {
		case runs <- struct{}{}:
		default:
		}
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hc.Start(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-runs:
		case <-time.After(time.Second):
			t.Fatal("health check did not run")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("checker did not stop")
	}
}
