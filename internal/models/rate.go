package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is the persistence shape of one exchange rate row.
// Dates travel as ISO YYYY-MM-DD strings so that malformed query input
// degrades to an empty result instead of a type error at the store.
type Rate struct {
	Date       string          `json:"date"`       // Part of composite PK
	Currency   string          `json:"currency"`   // Part of composite PK, uppercase
	Value      decimal.Decimal `json:"value"`      // Precise decimal type
	Multiplier int             `json:"multiplier"` // Defaults to 1
	UpdatedAt  time.Time       `json:"updatedAt"`  // Refreshed on every upsert
}
