package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/expense-tracker/db"
	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	expensePostgres "github.com/frahmantamala/expense-tracker/internal/expense/postgres"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	summaryPostgres "github.com/frahmantamala/expense-tracker/internal/summary/postgres"
	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/internal/transport/rest"
	"github.com/frahmantamala/expense-tracker/internal/user"
	userPostgres "github.com/frahmantamala/expense-tracker/internal/user/postgres"
)

var autoMigrate bool

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func init() {
	httpServerCmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply migrations before serving")
}

type Dependencies struct {
	Config *internal.Config
	DB     *db.Conn
	Cache  cache.Store
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.close()
	deps.Logger.Info("Server stopped")
}

func (d *Dependencies) close() {
	if err := d.Cache.Close(); err != nil {
		d.Logger.Error("Cache close error", "error", err)
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func initializeDependencies() (*Dependencies, error) {
	cfg, lg, conn, err := bootstrap()
	if err != nil {
		return nil, err
	}

	if autoMigrate {
		if err := db.Migrate(context.Background(), conn, "up"); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	location, err := cfg.Summary.Location()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	store := newCacheStore(cfg.Cache)
	coordinator := cache.NewCoordinator(store, cfg.Cache.EntryTTL(), lg)

	pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := coordinator.Ping(pingCtx); err != nil {
		// reads fall through to the database until the cache is back
		lg.Warn("cache unreachable at startup", "driver", cfg.Cache.Driver, "error", err)
	}

	bus := events.NewEventBus(lg)
	summary.RegisterInvalidation(bus, coordinator, lg)

	userService := user.NewService(userPostgres.NewUserRepository(conn.Gorm), lg)
	tokenGen := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(userService, tokenGen, cfg.Security.BCryptCost, lg)
	categoryService := category.NewService(categoryPostgres.NewCategoryRepository(conn.Gorm), coordinator, bus, lg)
	expenseService := expense.NewService(expensePostgres.NewExpenseRepository(conn.Gorm), categoryService, bus, location, lg)
	summaryService := summary.NewService(
		summary.NewEngine(summaryPostgres.NewSummaryRepository(conn.SQL), location),
		coordinator, lg)

	base := transport.NewBaseHandler(lg)
	router := chi.NewRouter()
	err = rest.RegisterAllRoutes(router, rest.Handlers{
		Auth:     auth.NewHandler(base, authService),
		User:     user.NewHandler(base, userService),
		Expense:  expense.NewHandler(expenseService),
		Category: category.NewHandler(base, categoryService),
		Summary:  summary.NewHandler(base, summaryService),
		Health:   rest.NewHealthHandler(conn, rest.PingFunc(coordinator.Ping)),
	}, rest.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         lg,
	})
	if err != nil {
		_ = conn.Close()
		_ = store.Close()
		return nil, err
	}

	return &Dependencies{
		Config: cfg,
		DB:     conn,
		Cache:  store,
		Router: router,
		Logger: lg,
	}, nil
}
