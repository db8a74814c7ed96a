package expense

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// Repository lookups return (nil, nil) when nothing matches.
type Repository interface {
	Create(ctx context.Context, expense *expenseDatamodel.Expense) error
	GetByID(ctx context.Context, id int64) (*expenseDatamodel.Expense, error)
	FindAll(ctx context.Context, userID int64, filter Filter) ([]*expenseDatamodel.Expense, error)
	Update(ctx context.Context, expense *expenseDatamodel.Expense) error
	Delete(ctx context.Context, id int64) error
}

// CategoryResolver is the part of the category service expenses rely on.
type CategoryResolver interface {
	EnsureVisible(ctx context.Context, userID, id int64) (*category.Category, error)
	FindOrCreateByName(ctx context.Context, userID int64, name string) (*category.Category, error)
}

type Service struct {
	repo       Repository
	categories CategoryResolver
	publisher  events.Publisher
	location   *time.Location
	logger     *slog.Logger
}

func NewService(repo Repository, categories CategoryResolver, publisher events.Publisher, location *time.Location, lg *slog.Logger) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		repo:       repo,
		categories: categories,
		publisher:  publisher,
		location:   location,
		logger:     lg,
	}
}

func (s *Service) Location() *time.Location {
	return s.location
}

// FindAll lists the user's expenses newest first, each with its category.
func (s *Service) FindAll(ctx context.Context, userID int64, filter Filter) ([]*Expense, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}

	rows, err := s.repo.FindAll(ctx, userID, filter)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to list expenses", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}

	expenses := make([]*Expense, 0, len(rows))
	for _, row := range rows {
		expenses = append(expenses, FromDataModel(row))
	}
	return expenses, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id int64) (*Expense, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	return s.getOwned(ctx, userID, id)
}

func (s *Service) Create(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	if err := dto.Validate(); err != nil {
		logger.From(ctx, s.logger).Debug("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	date, err := ParseExpenseDate(dto.Date, s.location)
	if err != nil {
		return nil, err
	}

	cat, err := s.resolveCategory(ctx, userID, dto.CategoryID, dto.Category)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := &Expense{
		Title:       dto.Title,
		Description: dto.Description,
		Amount:      *dto.Amount,
		Date:        date,
		UserID:      userID,
		CategoryID:  cat.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	row := ToDataModel(expense)
	if err := s.repo.Create(ctx, row); err != nil {
		logger.From(ctx, s.logger).Error("failed to create expense", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	created := FromDataModel(row)
	created.Category = cat
	s.publish(ctx, events.EventTypeExpenseCreated, created)

	logger.From(ctx, s.logger).Info("expense created",
		"expense_id", created.ID,
		"user_id", userID,
		"category_id", cat.ID)
	return created, nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, dto UpdateExpenseDTO) (*Expense, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	expense, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var date *time.Time
	if dto.Date != nil {
		parsed, err := ParseExpenseDate(*dto.Date, s.location)
		if err != nil {
			return nil, err
		}
		date = &parsed
	}

	var cat *category.Category
	if dto.CategoryID != nil || dto.Category != nil {
		cat, err = s.resolveCategory(ctx, userID, dto.CategoryID, dto.Category)
		if err != nil {
			return nil, err
		}
	}

	expense.Apply(dto, date, cat)

	row := ToDataModel(expense)
	if err := s.repo.Update(ctx, row); err != nil {
		logger.From(ctx, s.logger).Error("failed to update expense", "error", err, "expense_id", id, "user_id", userID)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	s.publish(ctx, events.EventTypeExpenseUpdated, expense)
	return expense, nil
}

func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if userID <= 0 {
		return internal.ErrMissingUser
	}

	expense, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.From(ctx, s.logger).Error("failed to delete expense", "error", err, "expense_id", id, "user_id", userID)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.publish(ctx, events.EventTypeExpenseDeleted, expense)

	logger.From(ctx, s.logger).Info("expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

func (s *Service) getOwned(ctx context.Context, userID, id int64) (*Expense, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to get expense", "error", err, "expense_id", id)
		return nil, internal.NewInternalError("failed to get expense", err)
	}
	if row == nil {
		return nil, internal.ErrExpenseNotFound
	}
	expense := FromDataModel(row)
	if !expense.OwnedBy(userID) {
		return nil, internal.ErrExpenseNotFound
	}
	return expense, nil
}

// resolveCategory prefers an explicit id over a name.
func (s *Service) resolveCategory(ctx context.Context, userID int64, id *int64, name *string) (*category.Category, error) {
	if id != nil {
		return s.categories.EnsureVisible(ctx, userID, *id)
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		return s.categories.FindOrCreateByName(ctx, userID, *name)
	}
	return nil, internal.NewValidationFieldError("categoryId", "categoryId or category is required", internal.ErrCodeInvalidCategory)
}

// publish runs the summary invalidation subscribers. The store write has
// already committed, so handler failures are logged only.
func (s *Service) publish(ctx context.Context, eventType string, expense *Expense) {
	if s.publisher == nil {
		return
	}
	event := events.NewExpenseChangedEvent(eventType, expense.ID, expense.UserID, expense.CategoryID)
	if err := s.publisher.PublishSync(ctx, event); err != nil {
		logger.From(ctx, s.logger).Warn("expense event handlers failed",
			"event_type", eventType,
			"expense_id", expense.ID,
			"error", err)
	}
}
