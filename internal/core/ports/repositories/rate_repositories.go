package repositories

import (
	"context"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
)

// RateReader defines read operations for stored exchange rates
type RateReader interface {
	// FindRatesByDate retrieves every rate stored for a date, ordered by currency.
	FindRatesByDate(ctx context.Context, date string) ([]domain.Rate, error)

	// FindRatesByCurrency retrieves the history of one currency, newest first.
	// An empty from bounds the result to the 30 most recent rows; otherwise
	// rows from the given date onward are returned unbounded.
	FindRatesByCurrency(ctx context.Context, currency string, from string) ([]domain.Rate, error)

	// FindLatestRates retrieves every rate stored for the most recent date,
	// ordered by currency.
	FindLatestRates(ctx context.Context) ([]domain.Rate, error)
}

// RateWriter defines write operations for stored exchange rates
type RateWriter interface {
	// UpsertRates persists one day of rates, inserting new (date, currency)
	// pairs and overwriting existing ones.
	UpsertRates(ctx context.Context, date string, entries []domain.RateEntry) error
}

// RateRepositoryFacade combines all rate-related repository interfaces
// This is a facade for clients that need access to all operations
type RateRepositoryFacade interface {
	RateReader
	RateWriter
}
