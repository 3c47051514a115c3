// Package scheduler repeats pipeline runs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

// Scheduler manages all cron tasks. A run still in progress when the next
// tick fires, or when RunNow is called, is skipped rather than overlapped.
type Scheduler struct {
	Cron  *cron.Cron
	Ctx   context.Context
	Log   *zap.Logger
	chain cron.Chain
	jobs  map[string]cron.Job
}

// NewScheduler creates a new Scheduler. Specs take a leading seconds field.
func NewScheduler(ctx context.Context, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cron.PrintfLogger(zap.NewStdLog(log.Named("cron")))
	return &Scheduler{
		Cron:  cron.New(cron.WithSeconds(), cron.WithLogger(cl)),
		Ctx:   ctx,
		Log:   log,
		chain: cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		jobs:  make(map[string]cron.Job),
	}
}

// Register schedules job under spec. The job's error is logged, never fatal.
func (s *Scheduler) Register(spec, name string, job Job) error {
	wrapped := s.chain.Then(cron.FuncJob(func() {
		if s.Ctx.Err() != nil {
			return
		}
		s.Log.Info("running task", zap.String("task", name))
		if err := job(s.Ctx); err != nil {
			s.Log.Error("task failed", zap.String("task", name), zap.Error(err))
		}
	}))
	if _, err := s.Cron.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("register %s task: %w", name, err)
	}
	s.jobs[name] = wrapped
	return nil
}

// RunNow runs a registered task immediately and waits for it. It shares the
// task's overlap guard, so it returns at once if the task is already running.
func (s *Scheduler) RunNow(name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown task %q", name)
	}
	job.Run()
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Int("tasks", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running task to return.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}
