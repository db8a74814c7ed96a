package summary

import "github.com/shopspring/decimal"

// UnknownCategory labels totals whose category vanished between grouping and
// name lookup.
const UnknownCategory = "Unknown"

type CategoryTotal struct {
	CategoryID   int64           `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Total        decimal.Decimal `json:"total"`
}

type MonthlySummary struct {
	TotalGlobal decimal.Decimal `json:"totalGlobal"`
	ByCategory  []CategoryTotal `json:"byCategory"`
}

// AmountRow is one expense reduced to what aggregation needs.
type AmountRow struct {
	CategoryID int64           `db:"category_id"`
	Amount     decimal.Decimal `db:"amount"`
}
