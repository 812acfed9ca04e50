// Package scheduler runs the channel's periodic playlist reloads on a cron
// schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrAlreadyStarted is returned by Start on a running scheduler.
var ErrAlreadyStarted = errors.New("scheduler already started")

// Job is the work run on every tick.
type Job func(ctx context.Context) error

// parser accepts standard 5-field expressions and descriptors such as
// "@hourly" or "@every 30m".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron parses a cron expression.
func ParseCron(expr string) (cron.Schedule, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return schedule, nil
}

// ValidateCron validates a cron expression.
func ValidateCron(expr string) error {
	_, err := ParseCron(expr)
	return err
}

// RunStats summarises the scheduler's runs.
type RunStats struct {
	Runs      int       `json:"runs"`
	Failures  int       `json:"failures"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
	NextRun   time.Time `json:"next_run,omitempty"`
}

// Scheduler runs a Job whenever its schedule fires. The next fire time is
// computed after each run returns, so scheduled runs never overlap.
type Scheduler struct {
	mu sync.RWMutex

	schedule cron.Schedule
	job      Job
	logger   *slog.Logger

	// jobTimeout bounds a single run; zero means no limit.
	jobTimeout time.Duration

	stats RunStats

	// Running state
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler running job on the given cron expression.
func New(expr string, job Job) (*Scheduler, error) {
	schedule, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}
	return NewWithSchedule(schedule, job), nil
}

// NewWithSchedule creates a scheduler from a parsed schedule.
func NewWithSchedule(schedule cron.Schedule, job Job) *Scheduler {
	return &Scheduler{
		schedule: schedule,
		job:      job,
		logger:   slog.Default(),
	}
}

// WithLogger sets a custom logger.
func (s *Scheduler) WithLogger(logger *slog.Logger) *Scheduler {
	s.logger = logger
	return s
}

// WithJobTimeout bounds each run.
func (s *Scheduler) WithJobTimeout(d time.Duration) *Scheduler {
	s.jobTimeout = d
	return s
}

// Start begins the background loop. It stops when ctx is cancelled or Stop
// is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return ErrAlreadyStarted
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.loop(s.ctx)

	s.logger.Info("reload scheduler started",
		slog.Time("next_run", s.schedule.Next(time.Now())))
	return nil
}

// Stop stops the scheduler and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.ctx = nil
	s.cancel = nil
	s.mu.Unlock()

	s.logger.Info("reload scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	for {
		next := s.schedule.Next(time.Now())
		s.mu.Lock()
		s.stats.NextRun = next
		s.mu.Unlock()

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			_ = s.RunNow(ctx)
		}
	}
}

// RunNow runs the job immediately on the caller's goroutine.
func (s *Scheduler) RunNow(ctx context.Context) error {
	if s.jobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	err := s.job(ctx)

	s.mu.Lock()
	s.stats.Runs++
	s.stats.LastRun = start
	s.stats.LastError = ""
	if err != nil {
		s.stats.Failures++
		s.stats.LastError = err.Error()
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled reload failed",
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()))
		return err
	}
	s.logger.InfoContext(ctx, "scheduled reload completed",
		slog.Duration("duration", time.Since(start)))
	return nil
}

// Stats returns a snapshot of the run counters.
func (s *Scheduler) Stats() RunStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Running reports whether the background loop is active.
func (s *Scheduler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx != nil
}
