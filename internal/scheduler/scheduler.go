// Package scheduler runs the retention job that keeps the posting history
// bounded.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

// Purger deletes postings older than a cutoff. storage.Store satisfies it.
type Purger interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// PurgeFunc is notified after every purge run.
type PurgeFunc func(ctx context.Context, deleted int64, err error)

// Scheduler wraps robfig/cron and owns the retention purge.
type Scheduler struct {
	cron    *cron.Cron
	purger  Purger
	spec    string // cron spec, e.g. "@every 24h"
	maxAge  time.Duration
	timeout time.Duration
	logger  *errors.Logger
	now     func() time.Time
	onPurge PurgeFunc

	mu      sync.Mutex
	running bool
}

// New creates a Scheduler from the retention config.
func New(purger Purger, cfg config.RetentionConfig, logger *errors.Logger) *Scheduler {
	if logger == nil {
		logger = errors.NewDiscardLogger()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{logger})),
		purger:  purger,
		spec:    cfg.Schedule,
		maxAge:  cfg.MaxAge(),
		timeout: 5 * time.Minute,
		logger:  logger,
		now:     time.Now,
	}
}

// OnPurge registers fn to observe purge results.
func (s *Scheduler) OnPurge(fn PurgeFunc) *Scheduler {
	s.onPurge = fn
	return s
}

// Start registers the job and starts the scheduler. When runNow is set one
// purge also runs immediately so stale rows do not wait for the first tick.
func (s *Scheduler) Start(ctx context.Context, runNow bool) error {
	if s.maxAge <= 0 {
		return fmt.Errorf("retention max age must be positive")
	}
	_, err := s.cron.AddFunc(s.spec, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.LogError(err, "Retention purge failed")
		}
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Retention scheduler started", "spec", s.spec, "max_age", s.maxAge.String())

	if runNow {
		go func() {
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.LogError(err, "Startup retention purge failed")
			}
		}()
	}
	return nil
}

// Stop waits for a running purge to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Retention scheduler stopped")
}

// RunOnce deletes postings older than the retention window. Overlapping
// runs are skipped.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Debug("Retention purge already running, skipping")
		return 0, nil
	}
	s.running = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cutoff := s.now().Add(-s.maxAge)
	start := time.Now()
	deleted, err := s.purger.PurgeBefore(ctx, cutoff)
	if s.onPurge != nil {
		s.onPurge(ctx, deleted, err)
	}
	if err != nil {
		return 0, errors.NewStorageError(errors.ErrCodeStorageFailed, "Retention purge failed", err).
			WithContext("cutoff", cutoff.Format(time.RFC3339))
	}

	s.logger.Info("Retention purge complete",
		"deleted", deleted,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds())
	return deleted, nil
}

// cronLogger routes cron's own logging through the application logger.
type cronLogger struct {
	logger *errors.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.LogError(err, "cron: "+msg, keysAndValues...)
}
