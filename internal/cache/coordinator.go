package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

const DefaultTTL = internal.DefaultCacheTTL

// Coordinator provides read-through caching on top of a Store. It is never
// authoritative: read failures degrade to misses and write failures are
// logged and dropped.
type Coordinator struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCoordinator(store Store, ttl time.Duration, lg *slog.Logger) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Coordinator{
		store:  store,
		ttl:    ttl,
		logger: lg,
	}
}

func (c *Coordinator) TTL() time.Duration {
	return c.ttl
}

// Get decodes the entry stored at key into dest and reports whether it was a
// hit. Store outages and corrupt entries count as misses.
func (c *Coordinator) Get(ctx context.Context, key string, dest any) bool {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			logger.From(ctx, c.logger).Warn("cache get failed, falling back to source",
				"key", key,
				"error", internal.NewUnavailableError("cache get failed", err))
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		logger.From(ctx, c.logger).Warn("cache entry could not be decoded, treating as miss", "key", key, "error", err)
		return false
	}

	logger.From(ctx, c.logger).Debug("cache hit", "key", key)
	return true
}

// Set stores value as JSON under key with the coordinator TTL.
func (c *Coordinator) Set(ctx context.Context, key string, value any) {
	c.SetWithTTL(ctx, key, value, c.ttl)
}

func (c *Coordinator) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		logger.From(ctx, c.logger).Error("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		logger.From(ctx, c.logger).Warn("cache set failed", "key", key, "error", err)
	}
}

// Invalidate removes keys. Missing keys are not an error.
func (c *Coordinator) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.store.Delete(ctx, keys...); err != nil {
		logger.From(ctx, c.logger).Warn("cache invalidate failed", "keys", keys, "error", err)
		return
	}
	logger.From(ctx, c.logger).Debug("cache invalidated", "keys", keys)
}

func (c *Coordinator) InvalidatePrefix(ctx context.Context, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := c.store.DeletePrefix(ctx, prefix); err != nil {
			logger.From(ctx, c.logger).Warn("cache prefix invalidate failed", "prefix", prefix, "error", err)
			continue
		}
		logger.From(ctx, c.logger).Debug("cache prefix invalidated", "prefix", prefix)
	}
}

// InvalidateSummaries drops every monthly and range summary of the user.
func (c *Coordinator) InvalidateSummaries(ctx context.Context, userID int64) {
	c.InvalidatePrefix(ctx, UserSummaryPrefixes(userID)...)
}

// InvalidateUser drops every entry derived from the user.
func (c *Coordinator) InvalidateUser(ctx context.Context, userID int64) {
	c.Invalidate(ctx, CategoriesKey(userID))
	c.InvalidateSummaries(ctx, userID)
}

func (c *Coordinator) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// Remember returns the cached value at key, or calls fetch and caches its
// result. Fetch errors are returned as is and nothing is cached.
func Remember[T any](ctx context.Context, c *Coordinator, key string, fetch func(context.Context) (T, error)) (T, error) {
	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(ctx, key, value)
	return value, nil
}
