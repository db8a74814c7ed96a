package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	OpCategories      = "categories:user"
	OpMonthlySummary  = "summary:monthly"
	OpCategorySummary = "summary:categories"

	keySeparator       = ":"
	dateLayout         = "2006-01-02"
	unpaddedDateLayout = "2006-1-2"
)

// KeyFor joins operation, user id and params with ":". Params must not contain
// the separator themselves or keys of different queries could collide.
func KeyFor(operation string, userID int64, params ...string) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, operation, strconv.FormatInt(userID, 10))
	parts = append(parts, params...)
	return strings.Join(parts, keySeparator)
}

func CategoriesKey(userID int64) string {
	return KeyFor(OpCategories, userID)
}

func MonthlySummaryKey(userID int64, year, month int) string {
	return KeyFor(OpMonthlySummary, userID, fmt.Sprintf("%d-%d", year, month))
}

// CategorySummaryKey expects from and to already normalized with NormalizeDate.
func CategorySummaryKey(userID int64, from, to string) string {
	return KeyFor(OpCategorySummary, userID, from, to)
}

// UserSummaryPrefixes returns the prefixes covering every summary entry of a
// user. The trailing separator keeps user 1 from matching user 12.
func UserSummaryPrefixes(userID int64) []string {
	return []string{
		KeyFor(OpMonthlySummary, userID) + keySeparator,
		KeyFor(OpCategorySummary, userID) + keySeparator,
	}
}

// NormalizeDate reduces a date or RFC3339 timestamp to YYYY-MM-DD so that
// equivalent ranges share one entry.
func NormalizeDate(raw string) (string, error) {
	t, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	return t.Format(dateLayout), nil
}

// ParseDate accepts YYYY-MM-DD (zero padding optional) or an RFC3339 timestamp. The calendar day is
// taken as written, without converting between zones.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(unpaddedDateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
