package summary

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
)

type Repository interface {
	// FindAmounts returns the user's expenses with from <= date <= to.
	FindAmounts(ctx context.Context, userID int64, from, to time.Time) ([]AmountRow, error)
	// CategoryNames omits ids that no longer exist.
	CategoryNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// Engine computes totals from raw rows. Windows are whole calendar days in
// its location.
type Engine struct {
	repo     Repository
	location *time.Location
}

func NewEngine(repo Repository, location *time.Location) *Engine {
	if location == nil {
		location = time.Local
	}
	return &Engine{repo: repo, location: location}
}

// MonthWindow spans day 1 00:00:00.000 through the last day 23:59:59.999.
func (e *Engine) MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, e.location)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return start, end
}

// RangeWindow spans from 00:00:00.000 through to 23:59:59.999.
func (e *Engine) RangeWindow(from, to time.Time) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, e.location)
	end := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, int(999*time.Millisecond), e.location)
	return start, end
}

func (e *Engine) MonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error) {
	start, end := e.MonthWindow(year, month)

	totals, err := e.aggregate(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	global := decimal.Zero
	for _, t := range totals {
		global = global.Add(t.Total)
	}

	return &MonthlySummary{TotalGlobal: global, ByCategory: totals}, nil
}

// CategorySummary rejects unparseable dates before touching the store. An
// inverted range matches nothing and yields an empty list.
func (e *Engine) CategorySummary(ctx context.Context, userID int64, from, to string) ([]CategoryTotal, error) {
	fromDay, err := cache.ParseDate(from)
	if err != nil {
		return nil, internal.NewValidationFieldError("from", "from must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
	}
	toDay, err := cache.ParseDate(to)
	if err != nil {
		return nil, internal.NewValidationFieldError("to", "to must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
	}

	start, end := e.RangeWindow(fromDay, toDay)
	return e.aggregate(ctx, userID, start, end)
}

// aggregate groups by category with exact decimal sums. Result is never nil.
func (e *Engine) aggregate(ctx context.Context, userID int64, start, end time.Time) ([]CategoryTotal, error) {
	rows, err := e.repo.FindAmounts(ctx, userID, start, end)
	if err != nil {
		return nil, internal.NewInternalError("failed to load expenses for summary", err)
	}

	sums := make(map[int64]decimal.Decimal)
	ids := make([]int64, 0)
	for _, row := range rows {
		sum, seen := sums[row.CategoryID]
		if !seen {
			ids = append(ids, row.CategoryID)
			sum = decimal.Zero
		}
		sums[row.CategoryID] = sum.Add(row.Amount)
	}

	totals := make([]CategoryTotal, 0, len(ids))
	if len(ids) == 0 {
		return totals, nil
	}

	names, err := e.repo.CategoryNames(ctx, ids)
	if err != nil {
		return nil, internal.NewInternalError("failed to resolve category names", err)
	}

	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = UnknownCategory
		}
		totals = append(totals, CategoryTotal{
			CategoryID:   id,
			CategoryName: name,
			Total:        sums[id],
		})
	}

	sort.Slice(totals, func(i, j int) bool {
		if totals[i].CategoryName != totals[j].CategoryName {
			return totals[i].CategoryName < totals[j].CategoryName
		}
		return totals[i].CategoryID < totals[j].CategoryID
	})
	return totals, nil
}
