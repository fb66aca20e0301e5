package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/omiri/backend/internal/domain"
	"github.com/omiri/backend/internal/infrastructure/logger"
	log "github.com/sirupsen/logrus"
)

const (
	TriggerStartup  = "startup"
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
)

// Runner is a unit of periodic work that classifies its own outcome
type Runner interface {
	Run(ctx context.Context) domain.TaskOutcome
}

// Config holds scheduling configuration
type Config struct {
	Interval   time.Duration
	RetryBase  time.Duration
	MaxRetries int
	RunOnStart bool
}

// RunSnapshot describes the most recent run
type RunSnapshot struct {
	RunID      string             `json:"runId"`
	Trigger    string             `json:"trigger"`
	StartedAt  time.Time          `json:"startedAt"`
	DurationMs int64              `json:"durationMs"`
	Attempts   int                `json:"attempts"`
	Outcome    domain.TaskOutcome `json:"outcome"`
}

// Scheduler invokes a Runner periodically. Only one run is active at a time;
// Retry outcomes are re-run with exponential backoff, Failure outcomes are
// reported and left for the next tick.
type Scheduler struct {
	runner Runner
	hub    *sentry.Hub
	config Config

	runMu sync.Mutex

	mu   sync.RWMutex
	last *RunSnapshot

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	newID func() string
}

// New creates a scheduler for runner. hub may be nil.
func New(runner Runner, hub *sentry.Hub, config Config) *Scheduler {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	if config.RetryBase <= 0 {
		config.RetryBase = 30 * time.Second
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	return &Scheduler{
		runner: runner,
		hub:    hub,
		config: config,
		now:    time.Now,
		sleep:  sleepContext,
		newID:  uuid.NewString,
	}
}

// Start runs the schedule until ctx is cancelled
func (s *Scheduler) Start(ctx context.Context) {
	entry := log.WithFields(log.Fields{
		"component": "scheduler",
		"interval":  s.config.Interval.String(),
	})
	entry.Info("Scheduler started")

	if s.config.RunOnStart {
		s.scheduledRun(ctx, TriggerStartup)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			entry.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.scheduledRun(ctx, TriggerSchedule)
		}
	}
}

// TriggerNow runs once immediately without retries.
// It returns domain.ErrRunInProgress when another run is active.
func (s *Scheduler) TriggerNow(ctx context.Context) (domain.TaskOutcome, error) {
	if !s.runMu.TryLock() {
		return domain.TaskOutcome{}, domain.ErrRunInProgress
	}
	defer s.runMu.Unlock()

	snapshot := s.execute(ctx, TriggerManual, 0)
	return snapshot.Outcome, nil
}

// LastRun returns the most recent run, if any
func (s *Scheduler) LastRun() (RunSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return RunSnapshot{}, false
	}
	return *s.last, true
}

// scheduledRun skips the tick when a run is already active
func (s *Scheduler) scheduledRun(ctx context.Context, trigger string) {
	if !s.runMu.TryLock() {
		log.WithField("component", "scheduler").Info("Run already in progress, skipping tick")
		return
	}
	defer s.runMu.Unlock()

	s.execute(ctx, trigger, s.config.MaxRetries)
}

// execute runs the task, retrying Retry outcomes up to maxRetries times
func (s *Scheduler) execute(ctx context.Context, trigger string, maxRetries int) RunSnapshot {
	snapshot := RunSnapshot{
		RunID:     s.newID(),
		Trigger:   trigger,
		StartedAt: s.now(),
	}
	entry := log.WithFields(log.Fields{
		"component": "scheduler",
		"run_id":    snapshot.RunID,
		"trigger":   trigger,
	})

	for {
		snapshot.Attempts++
		snapshot.Outcome = s.runner.Run(ctx)

		if !snapshot.Outcome.IsRetry() || snapshot.Attempts > maxRetries || ctx.Err() != nil {
			break
		}

		delay := s.backoff(snapshot.Attempts)
		entry.WithFields(log.Fields{
			"attempt": snapshot.Attempts,
			"delay":   delay.String(),
		}).Warnf("Run needs retry: %s", snapshot.Outcome.Reason)

		if err := s.sleep(ctx, delay); err != nil {
			break
		}
	}

	snapshot.DurationMs = s.now().Sub(snapshot.StartedAt).Milliseconds()
	s.report(entry, snapshot)

	s.mu.Lock()
	s.last = &snapshot
	s.mu.Unlock()

	return snapshot
}

// report logs the final outcome and captures failures
func (s *Scheduler) report(entry *log.Entry, snapshot RunSnapshot) {
	outcome := snapshot.Outcome
	entry = entry.WithFields(log.Fields{
		"attempts":    snapshot.Attempts,
		"duration_ms": snapshot.DurationMs,
		"status":      outcome.Status,
	})

	switch outcome.Status {
	case domain.OutcomeSuccess:
		entry.WithField("total_deals", outcome.TotalDeals).Infof("Run finished: %s", outcome.Reason)
	case domain.OutcomeRetry:
		entry.Warnf("Run gave up until next tick: %s", outcome.Reason)
	case domain.OutcomeFailure:
		err := outcome.Err
		if err == nil {
			err = errors.New(outcome.Reason)
		}
		logger.LogAndCapture(s.hub, err, "reconciliation", map[string]interface{}{
			"run_id":   snapshot.RunID,
			"trigger":  snapshot.Trigger,
			"attempts": snapshot.Attempts,
		})
	}
}

// backoff returns the delay before retry number attempt (1-based),
// capped at the schedule interval
func (s *Scheduler) backoff(attempt int) time.Duration {
	limit := s.config.Interval
	delay := s.config.RetryBase
	for i := 1; i < attempt; i++ {
		if delay > limit/2 {
			return limit
		}
		delay *= 2
	}
	if delay > limit {
		return limit
	}
	return delay
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
