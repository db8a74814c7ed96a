package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(ctx context.Context, exp *expenseDatamodel.Expense) error {
	exp.Date = exp.Date.UTC()
	return r.db.WithContext(ctx).Omit("Category").Create(exp).Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.WithContext(ctx).Preload("Category").Where("id = ?", id).First(&exp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exp, nil
}

// FindAll is always scoped to the user. Bounds are compared in UTC, which is
// how dates are written.
func (r *ExpenseRepository) FindAll(ctx context.Context, userID int64, filter expense.Filter) ([]*expenseDatamodel.Expense, error) {
	q := r.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)

	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.From != nil {
		q = q.Where("date >= ?", filter.From.UTC())
	}
	if filter.To != nil {
		q = q.Where("date <= ?", filter.To.UTC())
	}

	var expenses []*expenseDatamodel.Expense
	err := q.Order("date DESC").Order("id DESC").Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) Update(ctx context.Context, exp *expenseDatamodel.Expense) error {
	exp.Date = exp.Date.UTC()
	return r.db.WithContext(ctx).Omit("Category").Save(exp).Error
}

func (r *ExpenseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&expenseDatamodel.Expense{}, id).Error
}
