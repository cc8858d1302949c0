// Package scheduler wraps cron for the recurring jobs: the UI's periodic
// store refresh and the API's daily blob backup.
package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs named jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New creates a stopped scheduler.
func New(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{cron: cron.New(), log: log}
}

// Add registers a job. Job panics are contained so one bad run cannot take
// the process down.
func (s *Scheduler) Add(spec, name string, job func() error) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("job panicked", zap.String("job", name), zap.Any("panic", r))
			}
		}()
		if err := job(); err != nil {
			s.log.Warn("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		s.log.Debug("job completed", zap.String("job", name))
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
