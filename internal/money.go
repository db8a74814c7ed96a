package internal

import "github.com/shopspring/decimal"

func init() {
	// Amounts are rendered as JSON numbers (12.5), matching the public API.
	decimal.MarshalJSONWithoutQuotes = true
}
