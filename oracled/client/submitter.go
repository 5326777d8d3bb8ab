package client

import (
	"context"
	"sync"
	"time"

	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/oracled/retry"
	"github.com/GPTx-global/gasoracle/oracled/types"
	gaspricetypes "github.com/GPTx-global/gasoracle/x/gasprice/types"
)

// Deliverer executes a message against the registry
type Deliverer interface {
	Deliver(msg gaspricetypes.Msg) (*sdk.Result, error)
}

// Submitter turns fetched prices into gas price updates signed by the feeder
// account. A price equal to the last one submitted for the token is skipped.
type Submitter struct {
	deliverer   Deliverer
	sender      sdk.AccAddress
	retryConfig retry.Config
	logger      log.Logger

	mtx            sync.RWMutex
	lastValues     map[string]string
	lastSubmission time.Time
	// lastSeen also moves when an unchanged price is skipped
	lastSeen time.Time
}

// NewSubmitter returns a submitter delivering as sender
func NewSubmitter(logger log.Logger, deliverer Deliverer, sender sdk.AccAddress, retryConfig retry.Config) *Submitter {
	return &Submitter{
		deliverer:   deliverer,
		sender:      sender,
		retryConfig: retryConfig,
		logger:      logger.With("module", "submitter"),
		lastValues:  make(map[string]string),
	}
}

// Run submits results until ctx is done or results is closed
func (s *Submitter) Run(ctx context.Context, results <-chan types.JobResult) {
	for {
		select {
		case result, ok := <-results:
			if !ok {
				return
			}
			if _, err := s.Submit(ctx, result); err != nil {
				s.logger.Error("failed to submit gas price", "token", result.Token, "value", result.Value, "err", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Submit delivers result and reports whether a message was sent
func (s *Submitter) Submit(ctx context.Context, result types.JobResult) (bool, error) {
	s.mtx.RLock()
	last, seen := s.lastValues[result.Token]
	s.mtx.RUnlock()

	if seen && last == result.Value {
		s.mtx.Lock()
		s.lastSeen = time.Now()
		s.mtx.Unlock()

		s.logger.Debug("gas price unchanged", "token", result.Token, "value", result.Value)
		telemetry.IncrCounter(1, "feeder", "skipped")
		return false, nil
	}

	msg := gaspricetypes.NewMsgUpdateGasPrice(s.sender, result.Token, result.Value)
	err := retry.Do(ctx, s.logger, s.retryConfig, func() error {
		_, err := s.deliverer.Deliver(msg)
		return err
	}, isRetryableSubmit)
	if err != nil {
		telemetry.IncrCounter(1, "feeder", "failed")
		return false, err
	}

	s.mtx.Lock()
	s.lastValues[result.Token] = result.Value
	s.lastSubmission = time.Now()
	s.lastSeen = s.lastSubmission
	s.mtx.Unlock()

	telemetry.IncrCounter(1, "feeder", "submitted")
	s.logger.Info("submitted gas price", "token", result.Token, "value", result.Value, "nonce", result.Nonce)
	return true, nil
}

// LastSubmission returns when a price was last delivered, zero if never
func (s *Submitter) LastSubmission() time.Time {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.lastSubmission
}

// LastSeen returns when the registry was last confirmed to hold a fetched
// price, either by a delivery or by skipping an unchanged value. Zero if never.
func (s *Submitter) LastSeen() time.Time {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	return s.lastSeen
}

// isRetryableSubmit never retries a coded error: the registry rejected the
// message and would reject it again.
func isRetryableSubmit(err error) bool {
	if codespace, _, _ := errorsmod.ABCIInfo(err, false); codespace != errorsmod.UndefinedCodespace {
		return false
	}
	return retry.DefaultIsRetryable(err)
}
