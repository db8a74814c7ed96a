package category

import "time"

// Category rows with a nil UserID are system defaults visible to everyone.
type Category struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex:idx_categories_name_user"`
	UserID    *int64    `gorm:"column:user_id;uniqueIndex:idx_categories_name_user"`
	IsDefault bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
