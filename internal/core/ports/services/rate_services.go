package services

import (
	"context"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	"github.com/stefanache/bnr-fx-pipeline/internal/dto"
)

// RateQuerySvc defines read operations over stored exchange rates
type RateQuerySvc interface {
	// Rates resolves a rate query into the response payload. It returns
	// apperrors.ErrNotFound when the lookup matches zero rows; any other
	// error is a store failure.
	Rates(ctx context.Context, q domain.RateQuery) (*dto.RatesResponse, error)
}

// RateIngestionSvc defines the fetch-parse-store ingestion cycle
type RateIngestionSvc interface {
	// IngestLatest runs one ingestion cycle against the upstream feed.
	// A snapshot with no usable data is skipped, not an error.
	IngestLatest(ctx context.Context) (*domain.IngestResult, error)
}
