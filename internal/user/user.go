package user

import (
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/user"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func NewUser(email, passwordHash string) *User {
	return &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
	}
}

// NormalizeEmail lowercases and trims so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func FromDataModel(dm *userDatamodel.User) *User {
	if dm == nil {
		return nil
	}
	return &User{
		ID:           dm.ID,
		Email:        dm.Email,
		PasswordHash: dm.PasswordHash,
		CreatedAt:    dm.CreatedAt,
	}
}
