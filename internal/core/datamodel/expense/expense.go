package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
)

type Expense struct {
	ID          int64              `gorm:"primaryKey"`
	Title       string             `gorm:"column:title;not null"`
	Description *string            `gorm:"column:description"`
	Amount      decimal.Decimal    `gorm:"column:amount;type:numeric(12,2);not null"`
	Date        time.Time          `gorm:"column:date;not null;index:idx_expenses_user_date,priority:2"`
	UserID      int64              `gorm:"column:user_id;not null;index:idx_expenses_user_date,priority:1"`
	CategoryID  int64              `gorm:"column:category_id;not null;index"`
	Category    *category.Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
