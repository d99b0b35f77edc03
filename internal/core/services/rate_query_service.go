package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stefanache/bnr-fx-pipeline/internal/apperrors"
	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portsrepo "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/repositories"
	portssvc "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/services"
	"github.com/stefanache/bnr-fx-pipeline/internal/dto"
)

// rateQueryService implements the RateQuerySvc interface
type rateQueryService struct {
	BaseService
	rateRepo     portsrepo.RateReader
	baseCurrency string
}

// NewRateQueryService creates a new rate query service
func NewRateQueryService(rateRepo portsrepo.RateReader, baseCurrency string) portssvc.RateQuerySvc {
	return &rateQueryService{
		rateRepo:     rateRepo,
		baseCurrency: baseCurrency,
	}
}

// Rates resolves one rates lookup against the store. Lookups that match
// nothing return apperrors.ErrNotFound so handlers can tell an empty
// result from a store failure.
func (s *rateQueryService) Rates(ctx context.Context, q domain.RateQuery) (*dto.RatesResponse, error) {
	s.LogDebug(ctx, "Resolving rates query", slog.String("mode", string(q.Mode)))

	switch q.Mode {
	case domain.QueryByDate:
		return s.ratesByDate(ctx, q.Date)
	case domain.QueryByCurrency:
		return s.ratesByCurrency(ctx, q.Currency, q.From)
	default:
		return s.latestRates(ctx)
	}
}

func (s *rateQueryService) ratesByDate(ctx context.Context, date string) (*dto.RatesResponse, error) {
	rates, err := s.rateRepo.FindRatesByDate(ctx, date)
	if err != nil {
		s.LogError(ctx, err, "Failed to find rates by date", slog.String("date", date))
		return nil, fmt.Errorf("failed to find rates for date %s: %w", date, err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates stored for date %s: %w", date, apperrors.ErrNotFound)
	}

	resp := dto.ToRatesResponse(date, s.baseCurrency, rates)
	return &resp, nil
}

func (s *rateQueryService) ratesByCurrency(ctx context.Context, currency, from string) (*dto.RatesResponse, error) {
	rates, err := s.rateRepo.FindRatesByCurrency(ctx, currency, from)
	if err != nil {
		s.LogError(ctx, err, "Failed to find rates by currency", slog.String("currency", currency))
		return nil, fmt.Errorf("failed to find rates for currency %s: %w", currency, err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates stored for currency %s: %w", currency, apperrors.ErrNotFound)
	}

	resp := dto.ToRateHistoryResponse(currency, s.baseCurrency, rates)
	return &resp, nil
}

func (s *rateQueryService) latestRates(ctx context.Context) (*dto.RatesResponse, error) {
	rates, err := s.rateRepo.FindLatestRates(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to find latest rates")
		return nil, fmt.Errorf("failed to find latest rates: %w", err)
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates stored yet: %w", apperrors.ErrNotFound)
	}

	// Every row of a latest lookup shares the most recent stored date.
	resp := dto.ToRatesResponse(rates[0].Date, s.baseCurrency, rates)
	return &resp, nil
}
