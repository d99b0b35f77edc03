package services

import (
	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	portssvc "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/services"
	"github.com/stefanache/bnr-fx-pipeline/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, source FeedSource) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.RateQuery = NewRateQueryService(repos.RateRepo, cfg.BaseCurrency)
	container.Ingestion = NewIngestionService(source, repos.RateRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RateQuerySvc     = (*rateQueryService)(nil)
	_ portssvc.RateIngestionSvc = (*ingestionService)(nil)
)
