package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	"github.com/stefanache/bnr-fx-pipeline/internal/models"
	"github.com/stefanache/bnr-fx-pipeline/internal/utils/mapping"
)

// historyDefaultLimit bounds a currency history lookup when no from date
// is given.
const historyDefaultLimit = 30

// schema mirrors the Postgres migration. value is TEXT so decimals keep
// their exact textual form instead of collapsing to REAL.
const schema = `
	CREATE TABLE IF NOT EXISTS fx_rates (
		date TEXT NOT NULL,
		currency TEXT NOT NULL,
		value TEXT NOT NULL,
		multiplier INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (date, currency)
	);
	CREATE INDEX IF NOT EXISTS idx_fx_rates_currency_date ON fx_rates (currency, date DESC);
`

// SQLiteRateRepository implements the ports RateRepositoryFacade on a
// local SQLite file, the store used outside of Postgres deployments.
type SQLiteRateRepository struct {
	db *sql.DB
}

// newSQLiteRateRepository creates a new repository for rate data.
func newSQLiteRateRepository(db *sql.DB) *SQLiteRateRepository {
	return &SQLiteRateRepository{db: db}
}

// Ensure implementation matches interface
var _ portsrepo.RateRepositoryFacade = (*SQLiteRateRepository)(nil)

// NewRepositoryProvider bootstraps the schema and wires the SQLite-backed
// repositories.
func NewRepositoryProvider(db *sql.DB) (portsrepo.RepositoryProvider, error) {
	if _, err := db.Exec(schema); err != nil {
		return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to create fx_rates table: %w", err)
	}

	return portsrepo.RepositoryProvider{
		RateRepo: newSQLiteRateRepository(db),
	}, nil
}

// UpsertRates inserts one day of rates, overwriting rows that already
// exist for a (date, currency) pair. Each entry is written independently;
// a failure mid-batch leaves earlier rows committed, which is safe because
// every write is idempotent.
func (r *SQLiteRateRepository) UpsertRates(ctx context.Context, date string, entries []domain.RateEntry) error {
	query := `
		INSERT INTO fx_rates (date, currency, value, multiplier, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (date, currency) DO UPDATE SET
			value = excluded.value,
			multiplier = excluded.multiplier,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC()
	for _, entry := range entries {
		currency := strings.ToUpper(entry.Currency)
		_, err := r.db.ExecContext(ctx, query, date, currency, entry.Value, entry.Multiplier, now)
		if err != nil {
			return fmt.Errorf("failed to upsert rate %s/%s: %w", date, currency, err)
		}
	}
	return nil
}

// FindRatesByDate retrieves all rates for a date, ordered by currency.
func (r *SQLiteRateRepository) FindRatesByDate(ctx context.Context, date string) ([]domain.Rate, error) {
	query := `
		SELECT date, currency, value, multiplier, updated_at
		FROM fx_rates
		WHERE date = ?
		ORDER BY currency
	`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates by date %s: %w", date, err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// FindRatesByCurrency retrieves the history of one currency, newest first.
// Lookups are case-insensitive; an empty from limits the result to the
// most recent rows.
func (r *SQLiteRateRepository) FindRatesByCurrency(ctx context.Context, currency string, from string) ([]domain.Rate, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if from != "" {
		query := `
			SELECT date, currency, value, multiplier, updated_at
			FROM fx_rates
			WHERE currency = ? AND date >= ?
			ORDER BY date DESC
		`
		rows, err = r.db.QueryContext(ctx, query, strings.ToUpper(currency), from)
	} else {
		query := `
			SELECT date, currency, value, multiplier, updated_at
			FROM fx_rates
			WHERE currency = ?
			ORDER BY date DESC
			LIMIT ?
		`
		rows, err = r.db.QueryContext(ctx, query, strings.ToUpper(currency), historyDefaultLimit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query rates by currency %s: %w", currency, err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// FindLatestRates retrieves all rates for the most recent stored date,
// ordered by currency. An empty store yields an empty slice.
func (r *SQLiteRateRepository) FindLatestRates(ctx context.Context) ([]domain.Rate, error) {
	query := `
		SELECT date, currency, value, multiplier, updated_at
		FROM fx_rates
		WHERE date = (SELECT MAX(date) FROM fx_rates)
		ORDER BY currency
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest rates: %w", err)
	}
	defer rows.Close()

	return collectRates(rows)
}

// collectRates scans the standard rate column set into domain Rates.
func collectRates(rows *sql.Rows) ([]domain.Rate, error) {
	var modelRates []models.Rate
	for rows.Next() {
		var rate models.Rate
		if err := rows.Scan(
			&rate.Date,
			&rate.Currency,
			&rate.Value,
			&rate.Multiplier,
			&rate.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		modelRates = append(modelRates, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rates: %w", err)
	}

	return mapping.ToDomainRates(modelRates), nil
}
