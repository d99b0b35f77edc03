package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	"github.com/stefanache/bnr-fx-pipeline/internal/models"
	"github.com/stefanache/bnr-fx-pipeline/internal/utils/mapping"
)

// historyDefaultLimit bounds a currency history lookup when no from date
// is given.
const historyDefaultLimit = 30

// PgxRateRepository implements the ports RateRepositoryFacade using pgxpool.
type PgxRateRepository struct {
	BaseRepository
}

// newPgxRateRepository creates a new repository for rate data.
func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateRepositoryFacade {
	return &PgxRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.RateRepositoryFacade = (*PgxRateRepository)(nil)

// UpsertRates inserts one day of rates, overwriting rows that already
// exist for a (date, currency) pair. Each entry is written independently;
// a failure mid-batch leaves earlier rows committed, which is safe because
// every write is idempotent.
func (r *PgxRateRepository) UpsertRates(ctx context.Context, date string, entries []domain.RateEntry) error {
	query := `
		INSERT INTO fx_rates (date, currency, value, multiplier, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date, currency) DO UPDATE SET
			value = EXCLUDED.value,
			multiplier = EXCLUDED.multiplier,
			updated_at = EXCLUDED.updated_at;
	`

	now := time.Now().UTC()
	for _, entry := range entries {
		currency := strings.ToUpper(entry.Currency)
		_, err := r.Pool.Exec(ctx, query, date, currency, entry.Value, entry.Multiplier, now)
		if err != nil {
			return fmt.Errorf("failed to upsert rate %s/%s: %w", date, currency, err)
		}
	}
	return nil
}

// FindRatesByDate retrieves all rates for a date, ordered by currency.
func (r *PgxRateRepository) FindRatesByDate(ctx context.Context, date string) ([]domain.Rate, error) {
	query := `
		SELECT date, currency, value, multiplier, updated_at
		FROM fx_rates
		WHERE date = $1
		ORDER BY currency;
	`
	rows, err := r.Pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates by date %s: %w", date, err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// FindRatesByCurrency retrieves the history of one currency, newest first.
// Lookups are case-insensitive; an empty from limits the result to the
// most recent rows.
func (r *PgxRateRepository) FindRatesByCurrency(ctx context.Context, currency string, from string) ([]domain.Rate, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if from != "" {
		query := `
			SELECT date, currency, value, multiplier, updated_at
			FROM fx_rates
			WHERE currency = $1 AND date >= $2
			ORDER BY date DESC;
		`
		rows, err = r.Pool.Query(ctx, query, strings.ToUpper(currency), from)
	} else {
		query := `
			SELECT date, currency, value, multiplier, updated_at
			FROM fx_rates
			WHERE currency = $1
			ORDER BY date DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, strings.ToUpper(currency), historyDefaultLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rates by currency %s: %w", currency, err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// FindLatestRates retrieves all rates for the most recent stored date,
// ordered by currency. An empty store yields an empty slice.
func (r *PgxRateRepository) FindLatestRates(ctx context.Context) ([]domain.Rate, error) {
	query := `
		SELECT date, currency, value, multiplier, updated_at
		FROM fx_rates
		WHERE date = (SELECT MAX(date) FROM fx_rates)
		ORDER BY currency;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// collectRates scans the standard rate column set into domain Rates.
func collectRates(rows pgx.Rows) ([]domain.Rate, error) {
	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Rate, error) {
		var rate models.Rate
		err := row.Scan(
			&rate.Date,
			&rate.Currency,
			&rate.Value,
			&rate.Multiplier,
			&rate.UpdatedAt,
		)
		return rate, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rates: %w", err)
	}

	return mapping.ToDomainRates(modelRates), nil
}
