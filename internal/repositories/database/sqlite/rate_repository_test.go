package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	"github.com/stefanache/bnr-fx-pipeline/internal/repositories/database/sqlite"
	"github.com/stefanache/bnr-fx-pipeline/pkg/database"
)

func newTestRepo(t *testing.T) portsrepo.RateRepositoryFacade {
	t.Helper()

	db, err := database.NewSQLiteDB(filepath.Join(t.TempDir(), "rates.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.CloseSQLiteDB(db) })

	repos, err := sqlite.NewRepositoryProvider(db)
	require.NoError(t, err)

	return repos.RateRepo
}

func entry(currency, value string, multiplier int) domain.RateEntry {
	return domain.RateEntry{
		Currency:   currency,
		Value:      decimal.RequireFromString(value),
		Multiplier: multiplier,
	}
}

func TestUpsertAndFindRatesByDate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.UpsertRates(ctx, "2025-01-15", []domain.RateEntry{
		entry("JPY", "2.9456", 100),
		entry("EUR", "4.9770", 1),
	})
	require.NoError(t, err)

	rates, err := repo.FindRatesByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, rates, 2)

	// Ordered by currency regardless of insertion order.
	assert.Equal(t, "EUR", rates[0].Currency)
	assert.True(t, rates[0].Value.Equal(decimal.RequireFromString("4.9770")))
	assert.Equal(t, 1, rates[0].Multiplier)
	assert.Equal(t, "2025-01-15", rates[0].Date)
	assert.False(t, rates[0].UpdatedAt.IsZero())

	assert.Equal(t, "JPY", rates[1].Currency)
	assert.Equal(t, 100, rates[1].Multiplier)
}

func TestUpsertIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := []domain.RateEntry{
		entry("EUR", "4.9770", 1),
		entry("USD", "4.5623", 1),
	}

	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", entries))
	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", entries))

	rates, err := repo.FindRatesByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Len(t, rates, 2)
}

func TestUpsertOverwritesExistingRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", []domain.RateEntry{entry("EUR", "4.9770", 1)}))

	before, err := repo.FindRatesByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, before, 1)

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", []domain.RateEntry{entry("EUR", "4.9810", 1)}))

	after, err := repo.FindRatesByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, after, 1, "overwriting must not add a row")

	assert.True(t, after[0].Value.Equal(decimal.RequireFromString("4.9810")))
	assert.True(t, after[0].UpdatedAt.After(before[0].UpdatedAt), "updated_at must be refreshed on overwrite")
}

func TestUpsertUppercasesCurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", []domain.RateEntry{entry("eur", "4.9770", 1)}))

	rates, err := repo.FindRatesByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	require.Len(t, rates, 1)
	assert.Equal(t, "EUR", rates[0].Currency)
}

func TestFindRatesByCurrency(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 35; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		require.NoError(t, repo.UpsertRates(ctx, date, []domain.RateEntry{entry("EUR", "4.9770", 1)}))
	}

	t.Run("default window is the 30 newest rows", func(t *testing.T) {
		rates, err := repo.FindRatesByCurrency(ctx, "EUR", "")
		require.NoError(t, err)
		require.Len(t, rates, 30)
		assert.Equal(t, "2025-04-04", rates[0].Date, "newest first")
		assert.Equal(t, "2025-03-06", rates[29].Date)
	})

	t.Run("from bound is inclusive and uncapped", func(t *testing.T) {
		rates, err := repo.FindRatesByCurrency(ctx, "EUR", "2025-03-03")
		require.NoError(t, err)
		require.Len(t, rates, 33)
		assert.Equal(t, "2025-04-04", rates[0].Date)
		assert.Equal(t, "2025-03-03", rates[32].Date)
	})

	t.Run("lookup is case insensitive", func(t *testing.T) {
		rates, err := repo.FindRatesByCurrency(ctx, "eur", "2025-04-01")
		require.NoError(t, err)
		assert.Len(t, rates, 4)
	})

	t.Run("unknown currency yields empty result", func(t *testing.T) {
		rates, err := repo.FindRatesByCurrency(ctx, "XXX", "")
		require.NoError(t, err)
		assert.Empty(t, rates)
	})
}

func TestFindLatestRates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertRates(ctx, "2025-01-14", []domain.RateEntry{
		entry("EUR", "4.9751", 1),
		entry("USD", "4.5590", 1),
	}))
	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", []domain.RateEntry{
		entry("USD", "4.5623", 1),
		entry("EUR", "4.9770", 1),
	}))

	rates, err := repo.FindLatestRates(ctx)
	require.NoError(t, err)
	require.Len(t, rates, 2)

	assert.Equal(t, "2025-01-15", rates[0].Date)
	assert.Equal(t, "EUR", rates[0].Currency)
	assert.Equal(t, "2025-01-15", rates[1].Date)
	assert.Equal(t, "USD", rates[1].Currency)
}

func TestEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	byDate, err := repo.FindRatesByDate(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Empty(t, byDate)

	byCurrency, err := repo.FindRatesByCurrency(ctx, "EUR", "")
	require.NoError(t, err)
	assert.Empty(t, byCurrency)

	latest, err := repo.FindLatestRates(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestMalformedDateQueryDegradesToEmpty(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertRates(ctx, "2025-01-15", []domain.RateEntry{entry("EUR", "4.9770", 1)}))

	rates, err := repo.FindRatesByDate(ctx, "15 January 2025")
	require.NoError(t, err)
	assert.Empty(t, rates)
}
