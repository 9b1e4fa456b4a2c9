package sync

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	domainErrors "github.com/ventasync/ventasync/internal/domain/errors"
	"github.com/ventasync/ventasync/internal/infrastructure/logging"
)

// Scheduler periodically drives full sync cycles. Transport failures
// are retried with exponential backoff inside each tick; readiness
// failures are permanent and stop the retry loop immediately because
// the engine cannot recover without a process restart.
type Scheduler struct {
	engine     *Engine
	logger     *logging.Logger
	maxRetries uint

	mu       sync.Mutex
	interval time.Duration
	reload   chan struct{}

	stopOnce sync.Once
	stop     chan struct{}
}

// NewScheduler creates a scheduler driving the given engine.
func NewScheduler(engine *Engine, interval time.Duration, maxRetries uint, logger *logging.Logger) *Scheduler {
	if maxRetries == 0 {
		maxRetries = 1
	}
	return &Scheduler{
		engine:     engine,
		logger:     logger,
		maxRetries: maxRetries,
		interval:   interval,
		reload:     make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
}

// Interval returns the current tick interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// UpdateInterval changes the tick interval. The running loop picks up
// the new value without restarting.
func (s *Scheduler) UpdateInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	changed := interval != s.interval
	s.interval = interval
	s.mu.Unlock()

	if !changed {
		return
	}

	select {
	case s.reload <- struct{}{}:
	default:
	}

	s.logger.Info("sync interval updated", "interval", interval.String())
}

// Run executes sync cycles until the context is canceled or Stop is
// called. The first cycle runs immediately. A fatal storage failure
// ends the loop with that error.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			if domainErrors.IsNotInitialized(err) {
				return err
			}
			// Transport and contention failures are expected for an
			// offline-first client; the next tick tries again.
			s.logger.Warn("sync attempt failed, will retry next tick", "error", err.Error())
		}

		timer := time.NewTimer(s.Interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-s.stop:
			timer.Stop()
			return nil
		case <-s.reload:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// Stop ends a running loop. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// RunOnce drives a single full sync pass, retrying transport failures
// with exponential backoff up to the configured attempt budget.
func (s *Scheduler) RunOnce(ctx context.Context) ([]CycleReport, error) {
	operation := func() ([]CycleReport, error) {
		reports, err := s.engine.SyncAll(ctx)
		if err == nil {
			return reports, nil
		}
		if domainErrors.IsTransport(err) {
			return reports, err
		}
		// Anything else (readiness failure, cycle contention, missing
		// endpoint) does not improve by retrying within this pass.
		return reports, backoff.Permanent(err)
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.maxRetries),
	)
}
