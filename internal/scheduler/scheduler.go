package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
)

// Ingester runs one ingestion cycle against the upstream feed.
type Ingester interface {
	IngestLatest(ctx context.Context) (*domain.IngestResult, error)
}

// Config holds scheduler configuration.
type Config struct {
	Interval time.Duration // Time between ingestion runs (default: 1h)
	Timeout  time.Duration // Per-run timeout covering fetch and persist (default: 2m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
		Timeout:  2 * time.Minute,
	}
}

// Scheduler triggers ingestion runs on a fixed interval. Runs execute
// sequentially on a single goroutine, so a slow run delays the next tick
// instead of overlapping it.
type Scheduler struct {
	cfg      Config
	ingester Ingester
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(cfg Config, ingester Ingester, logger *slog.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cfg:      cfg,
		ingester: ingester,
		logger:   logger,
	}
}

// Start begins the ingestion loop with an immediate first run.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("ingestion scheduler started", "interval", s.cfg.Interval)

	return nil
}

// Stop gracefully shuts down the scheduler, waiting for an in-flight run
// until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("ingestion scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main scheduling loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	// Ingest immediately on start.
	s.runOnce()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

// runOnce executes a single ingestion cycle. Failures are logged and left
// for the next tick; the schedule itself is the retry mechanism.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()

	result, err := s.ingester.IngestLatest(ctx)
	if err != nil {
		s.logger.Error("ingestion run failed",
			"err", err,
			"duration", time.Since(start),
		)
		return
	}

	if result.Skipped {
		s.logger.Info("ingestion run skipped, feed had nothing to ingest",
			"duration", time.Since(start),
		)
		return
	}

	s.logger.Info("ingestion run complete",
		"date", result.Date,
		"rates", result.Count,
		"duration", time.Since(start),
	)
}
