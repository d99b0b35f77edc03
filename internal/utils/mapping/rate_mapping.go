package mapping

import (
	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	"github.com/stefanache/bnr-fx-pipeline/internal/models"
)

// ToModelRate converts a domain Rate to a model Rate
func ToModelRate(d domain.Rate) models.Rate {
	return models.Rate{
		Date:       d.Date,
		Currency:   d.Currency,
		Value:      d.Value,
		Multiplier: d.Multiplier,
		UpdatedAt:  d.UpdatedAt,
	}
}

// ToDomainRate converts a model Rate to a domain Rate
func ToDomainRate(m models.Rate) domain.Rate {
	return domain.Rate{
		Date:       m.Date,
		Currency:   m.Currency,
		Value:      m.Value,
		Multiplier: m.Multiplier,
		UpdatedAt:  m.UpdatedAt,
	}
}

// ToDomainRates converts a slice of model Rates to domain Rates
func ToDomainRates(ms []models.Rate) []domain.Rate {
	rates := make([]domain.Rate, 0, len(ms))
	for _, m := range ms {
		rates = append(rates, ToDomainRate(m))
	}
	return rates
}
