package scheduler

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/errors"
)

type fakePurger struct {
	mu      sync.Mutex
	cutoffs []time.Time
	deleted int64
	err     error
	called  chan struct{}
}

func (f *fakePurger) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	f.cutoffs = append(f.cutoffs, cutoff)
	f.mu.Unlock()
	if f.called != nil {
		f.called <- struct{}{}
	}
	return f.deleted, f.err
}

func retention(days int) config.RetentionConfig {
	return config.RetentionConfig{Enabled: true, Schedule: "@every 24h", MaxAgeDays: days}
}

func TestRunOnceUsesRetentionWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	p := &fakePurger{deleted: 7}

	var observed int64
	s := New(p, retention(90), errors.NewDiscardLogger()).OnPurge(func(_ context.Context, n int64, err error) {
		observed = n
	})
	s.now = func() time.Time { return now }

	n, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != 7 || observed != 7 {
		t.Errorf("Expected 7 deleted and observed, got %d/%d", n, observed)
	}
	if want := now.Add(-90 * 24 * time.Hour); !p.cutoffs[0].Equal(want) {
		t.Errorf("Expected cutoff %v, got %v", want, p.cutoffs[0])
	}
}

func TestRunOnceWrapsStoreErrors(t *testing.T) {
	p := &fakePurger{err: stderrors.New("connection refused")}

	var observedErr error
	s := New(p, retention(30), errors.NewDiscardLogger()).OnPurge(func(_ context.Context, _ int64, err error) {
		observedErr = err
	})

	_, err := s.RunOnce(context.Background())
	if !errors.HasCode(err, errors.ErrCodeStorageFailed) {
		t.Errorf("Expected STORAGE_FAILED, got %v", err)
	}
	if observedErr == nil {
		t.Error("Expected the hook to see the failure")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := retention(30)
	cfg.Schedule = "not a schedule"
	s := New(&fakePurger{}, cfg, nil)
	if err := s.Start(context.Background(), false); err == nil {
		t.Error("Expected invalid cron spec to fail")
	}
}

func TestStartRejectsZeroMaxAge(t *testing.T) {
	s := New(&fakePurger{}, retention(0), nil)
	if err := s.Start(context.Background(), false); err == nil {
		t.Error("Expected zero max age to fail")
	}
}

func TestStartRunsImmediately(t *testing.T) {
	p := &fakePurger{called: make(chan struct{}, 1)}
	s := New(p, retention(30), errors.NewDiscardLogger())

	if err := s.Start(context.Background(), true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer s.Stop()

	select {
	case <-p.called:
	case <-time.After(2 * time.Second):
		t.Fatal("Expected a purge at startup")
	}
}
