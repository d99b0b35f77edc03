package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateEntry is a single exchange rate as published by the feed: one unit
// of Multiplier foreign currency costs Value units of the base currency.
type RateEntry struct {
	Currency   string          `json:"currency"`   // ISO 4217 code (e.g., "EUR")
	Value      decimal.Decimal `json:"value"`      // Positive; precise decimal type
	Multiplier int             `json:"multiplier"` // Units quoted (e.g., 100 for JPY)
}

// RateSnapshot is one publication day of the feed: the quote date plus
// every rate entry published for it. A zero Date means the feed carried
// no usable data.
type RateSnapshot struct {
	Date    string `json:"date"` // ISO format YYYY-MM-DD
	Entries []RateEntry
}

// Rate is a stored exchange rate row, keyed by (Date, Currency).
// UpdatedAt is operational metadata; it is kept on the row but never
// surfaces through the public API.
type Rate struct {
	Date       string          `json:"date"`     // ISO format YYYY-MM-DD
	Currency   string          `json:"currency"` // ISO 4217 code, uppercase
	Value      decimal.Decimal `json:"value"`
	Multiplier int             `json:"multiplier"`
	UpdatedAt  time.Time       `json:"updatedAt"` // Last write for this (Date, Currency)
}

// IngestResult summarizes one ingestion cycle.
type IngestResult struct {
	Date    string `json:"date"`    // Quote date of the processed snapshot
	Count   int    `json:"count"`   // Entries written to the store
	Skipped bool   `json:"skipped"` // True when the feed yielded nothing to write
}
