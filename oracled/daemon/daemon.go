package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/oracled/client"
	"github.com/GPTx-global/gasoracle/oracled/health"
	"github.com/GPTx-global/gasoracle/oracled/retry"
	"github.com/GPTx-global/gasoracle/oracled/scheduler"
	"github.com/GPTx-global/gasoracle/oracled/types"
)

// Config holds the daemon settings
type Config struct {
	Workers        int
	ChannelSize    int
	HealthInterval time.Duration
	// MaxSilence is how long the feeder may go without a submission before it is
	// reported unhealthy; zero disables the check.
	MaxSilence time.Duration
	Jobs       []types.Job
}

// Daemon feeds fetched prices into the registry
type Daemon struct {
	scheduler *scheduler.Scheduler
	submitter *client.Submitter
	health    *health.HealthChecker
	jobs      []types.Job
	logger    log.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// New creates a daemon delivering as sender
func New(logger log.Logger, config Config, deliverer client.Deliverer, sender sdk.AccAddress) *Daemon {
	logger = logger.With("module", "feeder")

	executor := scheduler.NewExecutor(logger, retry.DefaultConfig())

	d := &Daemon{
		scheduler: scheduler.New(logger, executor, config.Workers, config.ChannelSize),
		submitter: client.NewSubmitter(logger, deliverer, sender, retry.SubmitConfig()),
		health:    health.NewHealthChecker(logger, config.HealthInterval),
		jobs:      config.Jobs,
		logger:    logger,
	}

	if config.MaxSilence > 0 && len(config.Jobs) > 0 {
		started := time.Now()
		d.health.AddCheck(health.NewFuncCheck("submission", func(context.Context) error {
			last := d.submitter.LastSeen()
			if last.IsZero() {
				last = started
			}
			if silence := time.Since(last); silence > config.MaxSilence {
				return fmt.Errorf("no gas price confirmed for %s", silence.Round(time.Millisecond))
			}
			return nil
		}))
	}

	return d
}

// Health returns the checker so callers can add checks and serve the status
func (d *Daemon) Health() *health.HealthChecker {
	return d.health
}

// Start runs the scheduler, the submitter and the health checker until Stop
// is called or ctx is done.
func (d *Daemon) Start(ctx context.Context) error {
	ctx, d.cancel = context.WithCancel(ctx)

	d.scheduler.Start(ctx)

	d.wg.Add(2)
	go func() {
		defer d.wg.Done()
		d.submitter.Run(ctx, d.scheduler.Result())
	}()
	go func() {
		defer d.wg.Done()
		d.health.Start(ctx)
	}()

	for _, job := range d.jobs {
		if err := d.scheduler.AddJob(job); err != nil {
			d.Stop()
			return fmt.Errorf("failed to add job: %w", err)
		}
		d.logger.Info("scheduled gas price feed", "token", job.Token, "url", job.URL, "interval", job.Interval)
	}

	return nil
}

// Stop shuts every component down and waits for them
func (d *Daemon) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	d.scheduler.Stop()
	d.wg.Wait()
}
