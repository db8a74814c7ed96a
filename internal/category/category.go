package category

import (
	"time"

	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserID    *int64    `json:"userId"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the user may rename or delete the category.
// Defaults belong to nobody.
func (c *Category) OwnedBy(userID int64) bool {
	return c.UserID != nil && *c.UserID == userID
}

func (c *Category) VisibleTo(userID int64) bool {
	return c.IsDefault || c.OwnedBy(userID)
}

func (c *Category) Rename(name string) {
	c.Name = name
	c.UpdatedAt = time.Now()
}

func NewCategory(name string, userID int64) *Category {
	now := time.Now()
	return &Category{
		Name:      name,
		UserID:    &userID,
		IsDefault: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ToDataModel(c *Category) *categoryDatamodel.Category {
	return &categoryDatamodel.Category{
		ID:        c.ID,
		Name:      c.Name,
		UserID:    c.UserID,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *categoryDatamodel.Category) *Category {
	return &Category{
		ID:        c.ID,
		Name:      c.Name,
		UserID:    c.UserID,
		IsDefault: c.IsDefault,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
