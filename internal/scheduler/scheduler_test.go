package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
)

// fakeIngester counts runs and can simulate slow or failing cycles.
type fakeIngester struct {
	runs  atomic.Int32
	err   error
	delay time.Duration
}

func (f *fakeIngester) IngestLatest(ctx context.Context) (*domain.IngestResult, error) {
	f.runs.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.IngestResult{Date: "2025-01-15", Count: 10}, nil
}

func TestScheduler_RunOnce(t *testing.T) {
	ingester := &fakeIngester{}
	s := New(Config{Interval: time.Hour}, ingester, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.ctx = ctx

	s.runOnce()

	if got := ingester.runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
}

func TestScheduler_RunOnceErrorTolerated(t *testing.T) {
	ingester := &fakeIngester{err: errors.New("feed unavailable")}
	s := New(Config{Interval: time.Hour}, ingester, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.ctx = ctx

	// A failing run must not panic or abort anything; it is retried at
	// the next tick.
	s.runOnce()
	s.runOnce()

	if got := ingester.runs.Load(); got != 2 {
		t.Errorf("runs = %d, want 2", got)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	ingester := &fakeIngester{}
	s := New(Config{Interval: 20 * time.Millisecond}, ingester, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(90 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	// One immediate run plus at least two ticks.
	got := ingester.runs.Load()
	if got < 3 {
		t.Errorf("runs = %d, want >= 3", got)
	}

	// No further runs after Stop.
	time.Sleep(50 * time.Millisecond)
	if after := ingester.runs.Load(); after != got {
		t.Errorf("runs after stop = %d, want %d", after, got)
	}
}

func TestScheduler_StopTimesOutOnSlowRun(t *testing.T) {
	ingester := &fakeIngester{delay: 300 * time.Millisecond}
	s := New(Config{Interval: time.Hour}, ingester, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Let the immediate run get in flight.
	time.Sleep(20 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := s.Stop(stopCtx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Stop err = %v, want context.DeadlineExceeded", err)
	}
}

func TestScheduler_Defaults(t *testing.T) {
	s := New(Config{}, &fakeIngester{}, nil)

	if s.cfg.Interval != time.Hour {
		t.Errorf("Interval = %v, want %v", s.cfg.Interval, time.Hour)
	}
	if s.cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want %v", s.cfg.Timeout, 2*time.Minute)
	}
	if s.logger == nil {
		t.Error("logger should default, not stay nil")
	}
}
