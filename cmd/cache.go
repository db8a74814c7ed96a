package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Cache maintenance commands",
}

var invalidateUserID int64

var invalidateCacheCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Drop every cached entry derived from a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if invalidateUserID <= 0 {
			return errors.New("--user must be a positive id")
		}

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		store := newCacheStore(cfg.Cache)
		defer store.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		coordinator := cache.NewCoordinator(store, cfg.Cache.EntryTTL(), lg)
		if err := coordinator.Ping(ctx); err != nil {
			return fmt.Errorf("cache unreachable: %w", err)
		}
		coordinator.InvalidateUser(ctx, invalidateUserID)

		lg.Info("cache invalidated", "user_id", invalidateUserID)
		return nil
	},
}

var pingCacheCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the configured cache answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		store := newCacheStore(cfg.Cache)
		defer store.Close()

		ctx, cancel := internal.WithTimeout(context.Background(), 0)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return fmt.Errorf("cache unreachable: %w", err)
		}
		fmt.Println("PONG")
		return nil
	},
}

// newCacheStore picks the backend named in config. The memory store is per
// process, so it only makes sense for the server itself.
func newCacheStore(cfg internal.CacheConfig) cache.Store {
	if cfg.Driver == internal.CacheMemory {
		slog.Default().Warn("using in-process memory cache")
		return cache.NewMemoryStore(cfg.Capacity, cfg.NumShards)
	}
	return cache.NewRedisStore(cache.RedisOptions{
		Address:      cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
	})
}

func init() {
	invalidateCacheCmd.Flags().Int64Var(&invalidateUserID, "user", 0, "user id whose entries are dropped")
	_ = invalidateCacheCmd.MarkFlagRequired("user")

	cacheCmd.AddCommand(invalidateCacheCmd)
	cacheCmd.AddCommand(pingCacheCmd)
}
