// internal/app/system/tasks/tasks.go
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a periodic background task.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // per run; defaults to 30s
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on their intervals until stopped.
type Scheduler struct {
	log  *zap.Logger
	jobs []Job

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler for jobs.
func NewScheduler(logger *zap.Logger, jobs ...Job) *Scheduler {
	return &Scheduler{log: logger, jobs: jobs}
}

// Start launches one goroutine per job.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	s.log.Info("background tasks started", zap.Int("jobs", len(s.jobs)))
}

// Stop signals every job to stop and waits for them to finish.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.log.Info("background tasks stopped")
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, j)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, j Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := j.Run(ctx); err != nil && ctx.Err() == nil {
		s.log.Error("background task failed", zap.String("job", j.Name), zap.Error(err))
	}
}
