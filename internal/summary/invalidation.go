package summary

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// RegisterInvalidation drops a user's cached summaries whenever one of their
// expenses changes, or a category they own is renamed or removed.
func RegisterInvalidation(bus *events.EventBus, coordinator *cache.Coordinator, lg *slog.Logger) {
	handler := func(ctx context.Context, event events.Event) error {
		scoped, ok := event.(events.UserScoped)
		if !ok || scoped.OwnerID() <= 0 {
			logger.From(ctx, lg).Warn("summary invalidation skipped, event has no owner", "event_type", event.EventType())
			return nil
		}
		coordinator.InvalidateSummaries(ctx, scoped.OwnerID())
		logger.From(ctx, lg).Debug("summaries invalidated", "user_id", scoped.OwnerID(), "event_type", event.EventType())
		return nil
	}

	bus.SubscribeAll(events.ExpenseEventTypes, handler)
	bus.SubscribeAll([]string{events.EventTypeCategoryUpdated, events.EventTypeCategoryDeleted}, handler)
}
