package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/frahmantamala/expense-tracker/api"
	"github.com/frahmantamala/expense-tracker/internal/auth"
	"github.com/frahmantamala/expense-tracker/internal/category"
	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/internal/transport/middleware"
	"github.com/frahmantamala/expense-tracker/internal/transport/swagger"
	"github.com/frahmantamala/expense-tracker/internal/user"
)

// Handlers groups everything the router mounts. Nil handlers are skipped.
type Handlers struct {
	Auth     *auth.Handler
	User     *user.Handler
	Expense  *expense.Handler
	Category *category.Handler
	Summary  *summary.Handler
	Health   *HealthHandler
}

type RouterOptions struct {
	AllowedOrigins string
	Logger         *slog.Logger
}

// RegisterAllRoutes mounts the API under /api/v1. It fails when the embedded
// OpenAPI document does not validate.
func RegisterAllRoutes(router chi.Router, h Handlers, opts RouterOptions) error {
	if _, err := api.Load(context.Background()); err != nil {
		return err
	}

	router.Use(middleware.RequestID)
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RecoveryMiddleware(opts.Logger))
	router.Use(middleware.LoggingMiddleware(opts.Logger))
	router.Use(chiMiddleware.StripSlashes)

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/signup", h.Auth.Signup)
			sr.Post("/login", h.Auth.Login)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.Get("/", h.Expense.GetAllExpenses)
					er.Post("/", h.Expense.CreateExpense)
					er.Get("/export", h.Expense.ExportExpenses)
					er.Get("/{id}", h.Expense.GetExpense)
					er.Put("/{id}", h.Expense.UpdateExpense)
					er.Patch("/{id}", h.Expense.UpdateExpense)
					er.Delete("/{id}", h.Expense.DeleteExpense)
				})
			}

			if h.Category != nil {
				pr.Route("/categories", func(cr chi.Router) {
					cr.Get("/", h.Category.GetCategories)
					cr.Post("/", h.Category.CreateCategory)
					cr.Put("/{id}", h.Category.UpdateCategory)
					cr.Delete("/{id}", h.Category.DeleteCategory)
				})
			}

			if h.Summary != nil {
				pr.Route("/summary", func(sr chi.Router) {
					sr.Get("/monthly", h.Summary.GetMonthlySummary)
					sr.Get("/categories", h.Summary.GetSummaryByCategories)
				})
			}
		})
	})

	return nil
}
