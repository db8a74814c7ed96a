package expense

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/internal/core/common/validation"
)

// CreateExpenseDTO names its category either by id or by name.
type CreateExpenseDTO struct {
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date"`
	CategoryID  *int64           `json:"categoryId,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

func (dto *CreateExpenseDTO) Validate() error {
	dto.Title = strings.TrimSpace(dto.Title)

	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(validation.MaxTitleLength)
	v.Field("description", dto.Description).MaxLength(validation.MaxDescriptionLength)
	v.Field("amount", dto.Amount).Required().Amount()
	v.Field("date", dto.Date).Required().Date()
	if err := v.Validate(); err != nil {
		return err
	}

	if dto.CategoryID == nil && (dto.Category == nil || strings.TrimSpace(*dto.Category) == "") {
		return internal.NewValidationFieldError("categoryId", "categoryId or category is required", internal.ErrCodeInvalidCategory)
	}
	return nil
}

// UpdateExpenseDTO carries a partial update; nil fields are left untouched.
type UpdateExpenseDTO struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *string          `json:"date,omitempty"`
	CategoryID  *int64           `json:"categoryId,omitempty"`
	Category    *string          `json:"category,omitempty"`
}

func (dto *UpdateExpenseDTO) Validate() error {
	v := validation.NewValidator()
	if dto.Title != nil {
		trimmed := strings.TrimSpace(*dto.Title)
		dto.Title = &trimmed
		v.Field("title", trimmed).Required().MaxLength(validation.MaxTitleLength)
	}
	v.Field("description", dto.Description).MaxLength(validation.MaxDescriptionLength)
	v.Field("amount", dto.Amount).Amount()
	if dto.Date != nil {
		v.Field("date", *dto.Date).Required().Date()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Filter narrows FindAll. From and To are inclusive instants.
type Filter struct {
	CategoryID *int64
	From       *time.Time
	To         *time.Time
}

// ParseFilter reads categoryId, from and to. Dates cover whole days in loc.
func ParseFilter(query url.Values, loc *time.Location) (Filter, error) {
	var f Filter

	if raw := strings.TrimSpace(query.Get("categoryId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return f, internal.NewValidationFieldError("categoryId", "categoryId must be a positive integer", internal.ErrCodeInvalidCategory)
		}
		f.CategoryID = &id
	}

	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		day, err := cache.ParseDate(raw)
		if err != nil {
			return f, internal.NewValidationFieldError("from", "from must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
		}
		start := StartOfDay(day, loc)
		f.From = &start
	}

	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		day, err := cache.ParseDate(raw)
		if err != nil {
			return f, internal.NewValidationFieldError("to", "to must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
		}
		end := EndOfDay(day, loc)
		f.To = &end
	}

	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, internal.NewValidationError("from must not be after to", internal.ErrCodeInvalidPeriod)
	}
	return f, nil
}

func StartOfDay(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
}

func EndOfDay(day time.Time, loc *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

// ParseExpenseDate keeps full timestamps as given and places bare dates at
// midnight in loc.
func ParseExpenseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation("2006-01-02", raw, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError("date", "date must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
	}
	return t, nil
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}
