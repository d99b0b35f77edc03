package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	rateRepo := newPgxRateRepository(dbPool)

	return portsrepo.RepositoryProvider{
		RateRepo: rateRepo,
	}
}
