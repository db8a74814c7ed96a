package summary

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// Service answers summary queries read-through the cache.
type Service struct {
	engine *Engine
	cache  *cache.Coordinator
	logger *slog.Logger
}

func NewService(engine *Engine, coordinator *cache.Coordinator, lg *slog.Logger) *Service {
	return &Service{
		engine: engine,
		cache:  coordinator,
		logger: lg,
	}
}

func (s *Service) GetMonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}
	if year <= 0 {
		return nil, internal.NewValidationFieldError("year", "year is required", internal.ErrCodeInvalidPeriod)
	}
	if month < 1 || month > 12 {
		return nil, internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidPeriod)
	}

	key := cache.MonthlySummaryKey(userID, year, month)
	return cache.Remember(ctx, s.cache, key, func(ctx context.Context) (*MonthlySummary, error) {
		logger.From(ctx, s.logger).Debug("computing monthly summary", "user_id", userID, "year", year, "month", month)
		return s.engine.MonthlySummary(ctx, userID, year, month)
	})
}

// GetSummaryByCategories keys the cache on normalized dates so equivalent
// ranges share an entry.
func (s *Service) GetSummaryByCategories(ctx context.Context, userID int64, from, to string) ([]CategoryTotal, error) {
	if userID <= 0 {
		return nil, internal.ErrMissingUser
	}

	fromKey, err := cache.NormalizeDate(from)
	if err != nil {
		return nil, internal.NewValidationFieldError("from", "from must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
	}
	toKey, err := cache.NormalizeDate(to)
	if err != nil {
		return nil, internal.NewValidationFieldError("to", "to must be a valid date (YYYY-MM-DD)", internal.ErrCodeInvalidDate)
	}

	key := cache.CategorySummaryKey(userID, fromKey, toKey)
	return cache.Remember(ctx, s.cache, key, func(ctx context.Context) ([]CategoryTotal, error) {
		logger.From(ctx, s.logger).Debug("computing category summary", "user_id", userID, "from", fromKey, "to", toKey)
		return s.engine.CategorySummary(ctx, userID, fromKey, toKey)
	})
}
