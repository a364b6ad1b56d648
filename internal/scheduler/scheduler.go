// Package scheduler runs periodic jobs and the one-shot background
// invocations requested by the orchestrator.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job is a unit of periodic work.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Scheduler runs a Job immediately and then every interval, each run bounded
// by timeout.
type Scheduler struct {
	name     string
	job      Job
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

func NewScheduler(name string, job Job, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		name:     name,
		job:      job,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("job", name),
	}
}

// Start blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.run(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.run(ctx)
		}
	}
}

func (s *Scheduler) run(ctx context.Context) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.job.Run(runCtx); err != nil {
		s.logger.Error("job failed", "error", err)
	}
}
