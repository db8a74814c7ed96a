package category

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// RepositoryAPI lookups return (nil, nil) when nothing matches.
type RepositoryAPI interface {
	FindVisible(ctx context.Context, userID int64) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	FindVisibleByName(ctx context.Context, userID int64, name string) (*categoryDatamodel.Category, error)
	ExistsForUser(ctx context.Context, userID int64, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
	CountExpenses(ctx context.Context, id int64) (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	cache     *cache.Coordinator
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, coordinator *cache.Coordinator, publisher events.Publisher, lg *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		cache:     coordinator,
		publisher: publisher,
		logger:    lg,
	}
}

// FindAll returns the user's own categories plus the defaults, ordered by name.
func (s *Service) FindAll(ctx context.Context, userID int64) ([]*Category, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}

	return cache.Remember(ctx, s.cache, cache.CategoriesKey(userID), func(ctx context.Context) ([]*Category, error) {
		rows, err := s.repo.FindVisible(ctx, userID)
		if err != nil {
			logger.From(ctx, s.logger).Error("failed to get categories from repository", "error", err, "user_id", userID)
			return nil, internal.NewInternalError("failed to get categories", err)
		}

		categories := make([]*Category, 0, len(rows))
		for _, row := range rows {
			categories = append(categories, FromDataModel(row))
		}
		logger.From(ctx, s.logger).Debug("loaded categories from store", "user_id", userID, "count", len(categories))
		return categories, nil
	})
}

func (s *Service) Create(ctx context.Context, userID int64, name string) (*Category, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForUser(ctx, userID, name, 0)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to check category name", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create category", err)
	}
	if exists {
		return nil, internal.ErrCategoryExists
	}

	category := NewCategory(name, userID)
	row := ToDataModel(category)
	if err := s.repo.Create(ctx, row); err != nil {
		if errors.Is(err, internal.ErrCategoryExists) {
			return nil, err
		}
		logger.From(ctx, s.logger).Error("failed to create category", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to create category", err)
	}

	s.cache.Invalidate(ctx, cache.CategoriesKey(userID))
	s.publish(ctx, events.EventTypeCategoryCreated, row.ID, userID)

	logger.From(ctx, s.logger).Info("category created", "category_id", row.ID, "user_id", userID)
	return FromDataModel(row), nil
}

func (s *Service) Update(ctx context.Context, userID, id int64, name string) (*Category, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	category, err := s.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsForUser(ctx, userID, name, id)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to check category name", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to update category", err)
	}
	if exists {
		return nil, internal.ErrCategoryExists
	}

	category.Rename(name)
	row := ToDataModel(category)
	if err := s.repo.Update(ctx, row); err != nil {
		if errors.Is(err, internal.ErrCategoryExists) {
			return nil, err
		}
		logger.From(ctx, s.logger).Error("failed to update category", "error", err, "category_id", id, "user_id", userID)
		return nil, internal.NewInternalError("failed to update category", err)
	}

	s.cache.Invalidate(ctx, cache.CategoriesKey(userID))
	s.publish(ctx, events.EventTypeCategoryUpdated, id, userID)

	return FromDataModel(row), nil
}

// Delete refuses to remove a category that expenses still point at.
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if userID <= 0 {
		return internal.ErrMissingUser
	}

	if _, err := s.getOwned(ctx, userID, id); err != nil {
		return err
	}

	linked, err := s.repo.CountExpenses(ctx, id)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to count linked expenses", "error", err, "category_id", id)
		return internal.NewInternalError("failed to delete category", err)
	}
	if linked > 0 {
		return internal.ErrCategoryInUse.WithDetails(map[string]int64{"linkedExpenses": linked})
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, internal.ErrCategoryInUse) {
			return err
		}
		logger.From(ctx, s.logger).Error("failed to delete category", "error", err, "category_id", id, "user_id", userID)
		return internal.NewInternalError("failed to delete category", err)
	}

	s.cache.Invalidate(ctx, cache.CategoriesKey(userID))
	s.publish(ctx, events.EventTypeCategoryDeleted, id, userID)

	logger.From(ctx, s.logger).Info("category deleted", "category_id", id, "user_id", userID)
	return nil
}

// FindOrCreateByName resolves a category the user can see, preferring an
// existing one (defaults included) before creating an owned one.
func (s *Service) FindOrCreateByName(ctx context.Context, userID int64, name string) (*Category, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	row, err := s.repo.FindVisibleByName(ctx, userID, name)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to look up category by name", "error", err, "user_id", userID)
		return nil, internal.NewInternalError("failed to resolve category", err)
	}
	if row != nil {
		return FromDataModel(row), nil
	}

	created, err := s.Create(ctx, userID, name)
	if errors.Is(err, internal.ErrCategoryExists) {
		// lost a race with a concurrent create
		row, err = s.repo.FindVisibleByName(ctx, userID, name)
		if err != nil || row == nil {
			return nil, internal.NewInternalError("failed to resolve category", err)
		}
		return FromDataModel(row), nil
	}
	return created, err
}

// EnsureVisible returns the category if the user may file expenses under it.
func (s *Service) EnsureVisible(ctx context.Context, userID, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to get category", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to resolve category", err)
	}
	if row == nil || !FromDataModel(row).VisibleTo(userID) {
		return nil, internal.NewValidationFieldError("categoryId", "category does not exist", internal.ErrCodeInvalidCategory)
	}
	return FromDataModel(row), nil
}

func (s *Service) getOwned(ctx context.Context, userID, id int64) (*Category, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logger.From(ctx, s.logger).Error("failed to get category", "error", err, "category_id", id)
		return nil, internal.NewInternalError("failed to get category", err)
	}
	if row == nil {
		return nil, internal.ErrCategoryNotFound
	}
	category := FromDataModel(row)
	if !category.OwnedBy(userID) {
		return nil, internal.ErrCategoryNotFound
	}
	return category, nil
}

func (s *Service) publish(ctx context.Context, eventType string, categoryID, userID int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSync(ctx, events.NewCategoryChangedEvent(eventType, categoryID, userID)); err != nil {
		logger.From(ctx, s.logger).Warn("category event handlers failed", "event_type", eventType, "category_id", categoryID, "error", err)
	}
}
