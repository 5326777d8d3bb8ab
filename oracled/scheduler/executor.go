package scheduler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/gasoracle/oracled/retry"
	"github.com/GPTx-global/gasoracle/oracled/types"
)

const maxResponseSize = 10 * 1024 * 1024

// StatusError is returned for a non 200 response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

const (
	breakerMaxFailures  = 5
	breakerResetTimeout = time.Minute
)

// Executor fetches a price for a job
type Executor struct {
	client      *http.Client
	retryConfig retry.Config
	// one circuit breaker per source URL
	breakers cmap.ConcurrentMap[string, *retry.CircuitBreaker]
	logger   log.Logger
}

// NewExecutor returns an executor with a 30s HTTP timeout
func NewExecutor(logger log.Logger, retryConfig retry.Config) *Executor {
	return &Executor{
		client:      &http.Client{Timeout: 30 * time.Second},
		retryConfig: retryConfig,
		breakers:    cmap.New[*retry.CircuitBreaker](),
		logger:      logger,
	}
}

func (e *Executor) circuitBreaker(url string) *retry.CircuitBreaker {
	return e.breakers.Upsert(url, nil, func(exist bool, breaker, _ *retry.CircuitBreaker) *retry.CircuitBreaker {
		if exist {
			return breaker
		}
		return retry.NewCircuitBreaker(e.logger.With("url", url), breakerMaxFailures, breakerResetTimeout)
	})
}

// ExecuteJob fetches job.URL and extracts the value at job.Path
func (e *Executor) ExecuteJob(ctx context.Context, job types.Job) (types.JobResult, error) {
	var rawData []byte
	breaker := e.circuitBreaker(job.URL)
	err := retry.Do(ctx, e.logger.With("token", job.Token), e.retryConfig, func() error {
		return breaker.Execute(func() error {
			var err error
			rawData, err = e.fetchRawData(ctx, job.URL)
			return err
		})
	}, isRetryableFetch)
	if err != nil {
		return types.JobResult{}, fmt.Errorf("failed to fetch raw data for %s: %w", job.Token, err)
	}

	if err := e.validateResponse(rawData); err != nil {
		return types.JobResult{}, fmt.Errorf("invalid response for %s: %w", job.Token, err)
	}

	value, err := e.extractValue(rawData, job.Path)
	if err != nil {
		return types.JobResult{}, fmt.Errorf("failed to extract data for %s: %w", job.Token, err)
	}

	return types.JobResult{
		Token: job.Token,
		Value: value,
		Nonce: job.Nonce,
	}, nil
}

func (e *Executor) fetchRawData(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "gasoracle-feeder/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

func (e *Executor) validateResponse(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty response body")
	}
	if len(data) > maxResponseSize {
		return fmt.Errorf("response too large: more than %d bytes", maxResponseSize)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid JSON format")
	}

	return nil
}

// extractValue returns the decimal found at path
func (e *Executor) extractValue(data []byte, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	result := gjson.GetBytes(data, path)
	if !result.Exists() {
		return "", fmt.Errorf("path '%s' not found", path)
	}
	if result.Type != gjson.Number && result.Type != gjson.String {
		return "", fmt.Errorf("path '%s' is not a number: %s", path, result.Raw)
	}

	value, err := sdk.NewDecFromStr(result.String())
	if err != nil {
		return "", fmt.Errorf("path '%s': %w", path, err)
	}
	if value.IsNegative() {
		return "", fmt.Errorf("path '%s': negative price %s", path, value)
	}

	return value.String(), nil
}

// isRetryableFetch retries network failures and 5xx responses
func isRetryableFetch(err error) bool {
	if statusErr, ok := err.(*StatusError); ok {
		return statusErr.Code >= http.StatusInternalServerError
	}
	return retry.DefaultIsRetryable(err)
}
