package domain

import "strings"

// QueryMode selects which lookup a RateQuery performs.
type QueryMode string

const (
	QueryLatest     QueryMode = "LATEST"
	QueryByDate     QueryMode = "BY_DATE"
	QueryByCurrency QueryMode = "BY_CURRENCY"
)

// RateQuery is a resolved rates lookup. Exactly one mode is set; the
// fields the mode does not use are empty.
type RateQuery struct {
	Mode     QueryMode
	Date     string // BY_DATE only
	Currency string // BY_CURRENCY only, uppercase
	From     string // BY_CURRENCY only; empty caps the history at its default window
}

// ResolveRateQuery maps raw query parameters onto a RateQuery. When both
// date and currency are supplied, date wins; when neither is, the query
// targets the most recent available date. Currency codes are folded to
// uppercase here so lookups are case-insensitive; values are otherwise
// passed through untouched, and lookups that match nothing return no rows.
func ResolveRateQuery(date, currency, from string) RateQuery {
	switch {
	case date != "":
		return RateQuery{Mode: QueryByDate, Date: date}
	case currency != "":
		return RateQuery{Mode: QueryByCurrency, Currency: strings.ToUpper(currency), From: from}
	default:
		return RateQuery{Mode: QueryLatest}
	}
}
