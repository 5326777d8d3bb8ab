package health

import (
	"context"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// HealthCheck is a named probe
type HealthCheck interface {
	Check(ctx context.Context) error
	Name() string
}

// HealthStatus is the outcome of the latest run of a check
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	LastCheck time.Time `json:"last_check"`
	LastError string    `json:"last_error,omitempty"`
}

// HealthChecker runs its checks periodically and keeps their latest status
type HealthChecker struct {
	mtx      sync.RWMutex
	checks   map[string]HealthCheck
	status   map[string]HealthStatus
	interval time.Duration
	timeout  time.Duration
	logger   log.Logger
}

// NewHealthChecker returns a checker running every interval
func NewHealthChecker(logger log.Logger, interval time.Duration) *HealthChecker {
	return &HealthChecker{
		checks:   make(map[string]HealthCheck),
		status:   make(map[string]HealthStatus),
		interval: interval,
		timeout:  interval,
		logger:   logger.With("module", "health"),
	}
}

// AddCheck registers check; it is considered healthy until it first runs
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mtx.Lock()
	defer hc.mtx.Unlock()

	name := check.Name()
	hc.checks[name] = check
	hc.status[name] = HealthStatus{
		Healthy:   true,
		LastCheck: time.Now(),
	}

	hc.logger.Debug("added health check", "name", name)
}

// Start runs all checks immediately and then every interval until ctx is done
func (hc *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	hc.RunChecks(ctx)

	for {
		select {
		case <-ticker.C:
			hc.RunChecks(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunChecks runs every check concurrently and waits for all of them
func (hc *HealthChecker) RunChecks(ctx context.Context) {
	hc.mtx.RLock()
	checks := make([]HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mtx.RUnlock()

	var wg sync.WaitGroup
	for _, check := range checks {
		wg.Add(1)
		go func(check HealthCheck) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, hc.timeout)
			defer cancel()

			err := check.Check(checkCtx)

			status := HealthStatus{
				Healthy:   err == nil,
				LastCheck: time.Now(),
			}
			if err != nil {
				status.LastError = err.Error()
				hc.logger.Error("health check failed", "name", check.Name(), "err", err)
			}

			hc.mtx.Lock()
			hc.status[check.Name()] = status
			hc.mtx.Unlock()
		}(check)
	}
	wg.Wait()
}

// GetStatus returns a copy of the latest status of every check
func (hc *HealthChecker) GetStatus() map[string]HealthStatus {
	hc.mtx.RLock()
	defer hc.mtx.RUnlock()

	result := make(map[string]HealthStatus, len(hc.status))
	for name, status := range hc.status {
		result[name] = status
	}

	return result
}

// IsHealthy reports whether every check passed on its latest run
func (hc *HealthChecker) IsHealthy() bool {
	hc.mtx.RLock()
	defer hc.mtx.RUnlock()

	for _, status := range hc.status {
		if !status.Healthy {
			return false
		}
	}

	return true
}

// FuncCheck adapts a function to HealthCheck
type FuncCheck struct {
	name      string
	checkFunc func(ctx context.Context) error
}

// NewFuncCheck returns a check named name running checkFunc
func NewFuncCheck(name string, checkFunc func(ctx context.Context) error) *FuncCheck {
	return &FuncCheck{
		name:      name,
		checkFunc: checkFunc,
	}
}

// Check implements HealthCheck
func (fc *FuncCheck) Check(ctx context.Context) error {
	return fc.checkFunc(ctx)
}

// Name implements HealthCheck
func (fc *FuncCheck) Name() string {
	return fc.name
}
