// Package jobs runs background maintenance tasks on cron schedules.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"spice/internal/logger"
)

// Schedules accept an optional leading seconds field and descriptors such
// as @hourly or @every 10m.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Scheduler wraps a cron runner. Panicking jobs are recovered and a run is
// skipped while the previous run of the same job is still going.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler creates a stopped Scheduler.
func NewScheduler() *Scheduler {
	l := cronLogger{log: logger.Get()}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(cronParser),
			cron.WithLogger(l),
			cron.WithChain(cron.SkipIfStillRunning(l), cron.Recover(l)),
		),
	}
}

// Add registers fn under name. Errors returned by fn are logged.
func (s *Scheduler) Add(name, schedule string, fn func() error) error {
	_, err := s.cron.AddFunc(schedule, func() {
		start := time.Now()
		if err := fn(); err != nil {
			logger.Get().Errorw("job failed", "job", name, "error", err)
			return
		}
		logger.Get().Debugw("job finished", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, schedule, err)
	}
	return nil
}

// Len returns the number of registered jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
