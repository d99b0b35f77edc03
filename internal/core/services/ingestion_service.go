package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	portssvc "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/services"
	"github.com/stefanache/bnr-fx-pipeline/internal/feed"
)

// FeedSource supplies one raw rates document per call. It is satisfied by
// feed.Client; tests substitute their own source.
type FeedSource interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// ingestionService implements the RateIngestionSvc interface
type ingestionService struct {
	BaseService
	source   FeedSource
	rateRepo portsrepo.RateWriter
}

// NewIngestionService creates a new feed ingestion service
func NewIngestionService(source FeedSource, rateRepo portsrepo.RateWriter) portssvc.RateIngestionSvc {
	return &ingestionService{
		source:   source,
		rateRepo: rateRepo,
	}
}

// IngestLatest runs one fetch-parse-persist cycle. Documents that parse to
// nothing usable are skipped without error; fetch and store failures are
// returned so the caller can decide whether to retry.
func (s *ingestionService) IngestLatest(ctx context.Context) (*domain.IngestResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("run_id", uuid.NewString()))

	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates feed: %w", err)
	}

	snapshot := feed.Parse(raw)
	if snapshot.Date == "" || len(snapshot.Entries) == 0 {
		if len(raw) > 0 {
			// A non-empty document that yields nothing usually means the
			// upstream schema moved.
			logger.Warn("Feed document yielded no ingestible rates",
				slog.String("date", snapshot.Date),
				slog.Int("body_bytes", len(raw)),
				slog.Int("entries", len(snapshot.Entries)))
		} else {
			logger.Info("Feed returned an empty document, nothing to ingest")
		}
		return &domain.IngestResult{Date: snapshot.Date, Skipped: true}, nil
	}

	if err := s.rateRepo.UpsertRates(ctx, snapshot.Date, snapshot.Entries); err != nil {
		return nil, fmt.Errorf("failed to persist rates for %s: %w", snapshot.Date, err)
	}

	logger.Info("Ingested rates snapshot",
		slog.String("date", snapshot.Date),
		slog.Int("count", len(snapshot.Entries)))

	return &domain.IngestResult{
		Date:  snapshot.Date,
		Count: len(snapshot.Entries),
	}, nil
}
