package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) visibleTo(ctx context.Context, userID int64) *gorm.DB {
	return r.db.WithContext(ctx).Where("user_id = ? OR is_default = ?", userID, true)
}

func (r *CategoryRepository) FindVisible(ctx context.Context, userID int64) ([]*categoryDatamodel.Category, error) {
	var categories []*categoryDatamodel.Category
	err := r.visibleTo(ctx, userID).Order("name ASC").Order("id ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

// FindVisibleByName prefers the user's own category over a default of the
// same name.
func (r *CategoryRepository) FindVisibleByName(ctx context.Context, userID int64, name string) (*categoryDatamodel.Category, error) {
	var cat categoryDatamodel.Category
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Where("user_id = ? OR is_default = ?", userID, true).
		Order("is_default ASC").
		Order("id ASC").
		First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) ExistsForUser(ctx context.Context, userID int64, name string, excludeID int64) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&categoryDatamodel.Category{}).
		Where("user_id = ? AND name = ?", userID, name)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *categoryDatamodel.Category) error {
	return translate(r.db.WithContext(ctx).Create(cat).Error)
}

func (r *CategoryRepository) Update(ctx context.Context, cat *categoryDatamodel.Category) error {
	return translate(r.db.WithContext(ctx).Save(cat).Error)
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return translate(r.db.WithContext(ctx).Delete(&categoryDatamodel.Category{}, id).Error)
}

func (r *CategoryRepository) CountExpenses(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&expenseDatamodel.Expense{}).Where("category_id = ?", id).Count(&count).Error
	return count, err
}

// translate maps constraint violations reported by gorm's error translator.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return internal.ErrCategoryExists.WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return internal.ErrCategoryInUse.WithCause(err)
	default:
		return err
	}
}
