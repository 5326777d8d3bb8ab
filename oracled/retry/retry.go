package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// ErrCircuitOpen is returned while the breaker refuses calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config holds the backoff settings of Do
type Config struct {
	MaxAttempts int           // total attempts including the first
	BaseDelay   time.Duration // delay after the first failure
	MaxDelay    time.Duration // upper bound of any delay
	Multiplier  float64       // growth factor between delays
}

// DefaultConfig is used for HTTP fetches
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// SubmitConfig is used for deliveries to the host
func SubmitConfig() Config {
	return Config{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
	}
}

// RetryableFunc is a unit of work passed to Do
type RetryableFunc func() error

// IsRetryable reports whether a failed attempt may be repeated
type IsRetryable func(error) bool

// transient lists the error texts of failures that usually go away
var transient = []string{
	"connection refused",
	"timeout",
	"temporary failure",
	"network is unreachable",
	"no such host",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"context deadline exceeded",
}

// DefaultIsRetryable treats network failures as retryable
func DefaultIsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := err.Error()
	for _, retryableErr := range transient {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}
	return false
}

// Do runs fn until it succeeds, returns a non retryable error, ctx is done or
// the attempts are exhausted.
func Do(ctx context.Context, logger log.Logger, config Config, fn RetryableFunc, isRetryable IsRetryable) error {
	var lastErr error

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			if attempt > 1 {
				logger.Debug("succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			break
		}

		delay := calculateDelay(config, attempt)
		logger.Info("attempt failed, retrying", "attempt", attempt, "max_attempts", config.MaxAttempts, "delay", delay, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("all %d attempts failed, last error: %w", config.MaxAttempts, lastErr)
}

// calculateDelay returns the exponential backoff delay after attempt
func calculateDelay(config Config, attempt int) time.Duration {
	delay := float64(config.BaseDelay) * math.Pow(config.Multiplier, float64(attempt-1))

	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}

	return time.Duration(delay)
}

// CircuitState is the state of a CircuitBreaker
type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker stops calling a failing endpoint for resetTimeout after
// maxFailures consecutive failures.
type CircuitBreaker struct {
	mtx sync.Mutex

	maxFailures  int
	resetTimeout time.Duration
	failures     int
	lastFailTime time.Time
	state        CircuitState

	logger log.Logger
}

// NewCircuitBreaker returns a closed breaker
func NewCircuitBreaker(logger log.Logger, maxFailures int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		maxFailures:  maxFailures,
		resetTimeout: resetTimeout,
		state:        StateClosed,
		logger:       logger,
	}
}

// Execute runs fn unless the breaker is open
func (cb *CircuitBreaker) Execute(fn RetryableFunc) error {
	cb.mtx.Lock()
	if cb.state == StateOpen {
		if time.Since(cb.lastFailTime) <= cb.resetTimeout {
			cb.mtx.Unlock()
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.logger.Debug("circuit breaker half-open")
	}
	cb.mtx.Unlock()

	err := fn()

	cb.mtx.Lock()
	defer cb.mtx.Unlock()

	if err != nil {
		cb.failures++
		cb.lastFailTime = time.Now()

		if cb.state == StateHalfOpen || cb.failures >= cb.maxFailures {
			if cb.state != StateOpen {
				cb.logger.Info("circuit breaker open", "failures", cb.failures)
			}
			cb.state = StateOpen
		}
		return err
	}

	if cb.state == StateHalfOpen {
		cb.logger.Info("circuit breaker closed")
	}
	cb.state = StateClosed
	cb.failures = 0
	return nil
}

// GetState returns the current state
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mtx.Lock()
	defer cb.mtx.Unlock()

	return cb.state
}
