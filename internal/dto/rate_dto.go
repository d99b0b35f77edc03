package dto

import (
	"github.com/shopspring/decimal"

	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
)

// RatesQueryRequest defines the accepted query parameters for the rates endpoint.
// None are required; unknown or malformed values fall through to an empty result
// rather than a binding error.
type RatesQueryRequest struct {
	Date     string `form:"date"`     // ISO YYYY-MM-DD; wins over currency when both are set
	Currency string `form:"currency"` // ISO 4217 code, any case
	From     string `form:"from"`     // ISO YYYY-MM-DD; only meaningful with currency
}

// RateItem is one exchange rate row as returned by the API.
type RateItem struct {
	Currency   string          `json:"currency"`
	Value      decimal.Decimal `json:"value"`
	Multiplier int             `json:"multiplier"`
	Date       string          `json:"date"`
}

// RatesResponse is the rates endpoint payload. Exactly one of Rates or
// History is populated: date-keyed lookups fill Rates, currency lookups
// fill History.
type RatesResponse struct {
	Date     string     `json:"date,omitempty"`     // Echoed for date and latest lookups
	Currency string     `json:"currency,omitempty"` // Echoed uppercase for currency lookups
	Base     string     `json:"base"`               // Quote base, e.g. "RON"
	Rates    []RateItem `json:"rates,omitempty"`
	History  []RateItem `json:"history,omitempty"`
}

// HealthResponse defines the data returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ToRateItem converts a domain.Rate to a RateItem DTO
func ToRateItem(rate *domain.Rate) RateItem {
	return RateItem{
		Currency:   rate.Currency,
		Value:      rate.Value,
		Multiplier: rate.Multiplier,
		Date:       rate.Date,
	}
}

// ToRateItems converts a slice of domain.Rate to a slice of RateItem DTOs
func ToRateItems(rates []domain.Rate) []RateItem {
	items := make([]RateItem, len(rates))
	for i, rate := range rates {
		items[i] = ToRateItem(&rate)
	}
	return items
}

// ToRatesResponse builds the payload for date-keyed lookups.
func ToRatesResponse(date, base string, rates []domain.Rate) RatesResponse {
	return RatesResponse{
		Date:  date,
		Base:  base,
		Rates: ToRateItems(rates),
	}
}

// ToRateHistoryResponse builds the payload for currency lookups.
func ToRateHistoryResponse(currency, base string, rates []domain.Rate) RatesResponse {
	return RatesResponse{
		Currency: currency,
		Base:     base,
		History:  ToRateItems(rates),
	}
}
