package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/expense-tracker/internal/summary"
)

// SummaryRepository reads aggregation input with plain SQL. Amounts are summed
// by the engine, so no database-specific numeric arithmetic is involved.
type SummaryRepository struct {
	db *sqlx.DB
}

func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

func (r *SummaryRepository) FindAmounts(ctx context.Context, userID int64, from, to time.Time) ([]summary.AmountRow, error) {
	query := r.db.Rebind(`
		SELECT category_id, amount
		FROM expenses
		WHERE user_id = ? AND date >= ? AND date <= ?`)

	rows := make([]summary.AmountRow, 0)
	if err := r.db.SelectContext(ctx, &rows, query, userID, from.UTC(), to.UTC()); err != nil {
		return nil, err
	}
	return rows, nil
}

type categoryName struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func (r *SummaryRepository) CategoryNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	query, args, err := sqlx.In(`SELECT id, name FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var rows []categoryName
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}
