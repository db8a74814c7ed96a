package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseUpdated = "expense.updated"
	EventTypeExpenseDeleted = "expense.deleted"

	EventTypeCategoryCreated = "category.created"
	EventTypeCategoryUpdated = "category.updated"
	EventTypeCategoryDeleted = "category.deleted"
)

var ExpenseEventTypes = []string{EventTypeExpenseCreated, EventTypeExpenseUpdated, EventTypeExpenseDeleted}

// UserScoped is implemented by events whose effects are limited to one user.
type UserScoped interface {
	Event
	OwnerID() int64
}

type ExpenseChangedEvent struct {
	BaseEvent
	ExpenseID  int64 `json:"expense_id"`
	UserID     int64 `json:"user_id"`
	CategoryID int64 `json:"category_id"`
}

func (e *ExpenseChangedEvent) OwnerID() int64 {
	return e.UserID
}

func NewExpenseChangedEvent(eventType string, expenseID, userID, categoryID int64) *ExpenseChangedEvent {
	return &ExpenseChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id":  expenseID,
				"user_id":     userID,
				"category_id": categoryID,
			},
		},
		ExpenseID:  expenseID,
		UserID:     userID,
		CategoryID: categoryID,
	}
}

type CategoryChangedEvent struct {
	BaseEvent
	CategoryID int64 `json:"category_id"`
	UserID     int64 `json:"user_id"`
}

func (e *CategoryChangedEvent) OwnerID() int64 {
	return e.UserID
}

func NewCategoryChangedEvent(eventType string, categoryID, userID int64) *CategoryChangedEvent {
	return &CategoryChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"category_id": categoryID,
				"user_id":     userID,
			},
		},
		CategoryID: categoryID,
		UserID:     userID,
	}
}
