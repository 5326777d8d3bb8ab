package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/GPTx-global/gasoracle/oracled/types"
)

// JobExecutor runs a single fetch
type JobExecutor interface {
	ExecuteJob(ctx context.Context, job types.Job) (types.JobResult, error)
}

// Scheduler runs every registered job on a pool of workers and re-queues it
// after its interval.
type Scheduler struct {
	wg          sync.WaitGroup
	quit        chan struct{}
	stopOnce    sync.Once
	jobStore    cmap.ConcurrentMap[string, types.Job]
	jobQueue    chan types.Job
	resultQueue chan types.JobResult

	executor JobExecutor
	workers  int
	logger   log.Logger
}

// New returns a scheduler with the given number of workers
func New(logger log.Logger, executor JobExecutor, workers, channelSize int) *Scheduler {
	if workers < 1 {
		workers = 1
	}

	return &Scheduler{
		quit:        make(chan struct{}),
		jobStore:    cmap.New[types.Job](),
		jobQueue:    make(chan types.Job, channelSize),
		resultQueue: make(chan types.JobResult, channelSize),
		executor:    executor,
		workers:     workers,
		logger:      logger.With("module", "scheduler"),
	}
}

// Start launches the workers
func (s *Scheduler) Start(ctx context.Context) {
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Stop signals the workers and waits for them to exit
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.quit) })
	s.wg.Wait()
}

// AddJob registers job and queues its first run. A job already registered for
// the token is replaced and keeps its schedule.
func (s *Scheduler) AddJob(job types.Job) error {
	if job.Token == "" || job.URL == "" {
		return fmt.Errorf("job needs a token and a url")
	}
	if job.Interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", job.Token)
	}

	if existing, ok := s.jobStore.Get(job.Token); ok {
		job.Nonce = existing.Nonce
		s.jobStore.Set(job.Token, job)
		return nil
	}
	s.jobStore.Set(job.Token, job)

	s.enqueue(job)
	return nil
}

// RemoveJob stops scheduling the job of token
func (s *Scheduler) RemoveJob(token string) {
	s.jobStore.Remove(token)
}

// Jobs returns the registered jobs
func (s *Scheduler) Jobs() []types.Job {
	jobs := make([]types.Job, 0, s.jobStore.Count())
	for item := range s.jobStore.IterBuffered() {
		jobs = append(jobs, item.Val)
	}
	return jobs
}

// Result returns the channel fetched prices are delivered on
func (s *Scheduler) Result() <-chan types.JobResult {
	return s.resultQueue
}

func (s *Scheduler) enqueue(job types.Job) {
	select {
	case s.jobQueue <- job:
	case <-s.quit:
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case job := <-s.jobQueue:
			s.process(ctx, job)
		case <-s.quit:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) process(ctx context.Context, queued types.Job) {
	// The stored job wins: it may have been replaced or removed since queuing
	job, ok := s.jobStore.Get(queued.Token)
	if !ok {
		return
	}

	job.Nonce++
	s.jobStore.Set(job.Token, job)

	result, err := s.executor.ExecuteJob(ctx, job)
	if err != nil {
		s.logger.Error("failed to execute job", "token", job.Token, "nonce", job.Nonce, "err", err)
	} else {
		select {
		case s.resultQueue <- result:
		case <-s.quit:
			return
		case <-ctx.Done():
			return
		}
	}

	s.reschedule(ctx, job)
}

func (s *Scheduler) reschedule(ctx context.Context, job types.Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(job.Interval)
		defer timer.Stop()

		select {
		case <-timer.C:
			if _, ok := s.jobStore.Get(job.Token); ok {
				s.enqueue(job)
			}
		case <-s.quit:
		case <-ctx.Done():
		}
	}()
}
