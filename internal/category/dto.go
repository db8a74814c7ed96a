package category

import (
	"strings"
	"unicode/utf8"

	"github.com/frahmantamala/expense-tracker/internal"
)

const maxNameLength = 100

type CategoryRequest struct {
	Name string `json:"name"`
}

func (r *CategoryRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	return validateName(r.Name)
}

func validateName(name string) error {
	if name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeInvalidCategory)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return internal.NewValidationFieldError("name", "name must be at most 100 characters", internal.ErrCodeInvalidCategory)
	}
	return nil
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
