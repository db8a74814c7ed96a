package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

type Expense struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	Description *string            `json:"description,omitempty"`
	Amount      decimal.Decimal    `json:"amount"`
	Date        time.Time          `json:"date"`
	UserID      int64              `json:"userId"`
	CategoryID  int64              `json:"categoryId"`
	Category    *category.Category `json:"category,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (e *Expense) OwnedBy(userID int64) bool {
	return e.UserID == userID
}

// Apply copies the fields present in the update onto the expense. The date
// and category have already been resolved by the caller.
func (e *Expense) Apply(dto UpdateExpenseDTO, date *time.Time, cat *category.Category) {
	if dto.Title != nil {
		e.Title = *dto.Title
	}
	if dto.Description != nil {
		e.Description = dto.Description
	}
	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if date != nil {
		e.Date = *date
	}
	if cat != nil {
		e.CategoryID = cat.ID
		e.Category = cat
	}
	e.UpdatedAt = time.Now()
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date.UTC(),
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	out := &Expense{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Amount:      e.Amount,
		Date:        e.Date,
		UserID:      e.UserID,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Category != nil {
		out.Category = category.FromDataModel(e.Category)
	}
	return out
}
