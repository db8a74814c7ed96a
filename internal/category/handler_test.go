package category_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/expense-tracker/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/category"
	expenseDatamodel "github.com/frahmantamala/expense-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db      *gorm.DB
		router  *chi.Mux
		slogger *slog.Logger
	)

	do := func(method, path string, userID int64, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		if userID > 0 {
			req = req.WithContext(internal.ContextWithUserID(req.Context(), userID))
		}
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	BeforeEach(func() {
		var err error
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&categoryDatamodel.Category{}, &expenseDatamodel.Expense{})).To(Succeed())

		Expect(db.Create(&categoryDatamodel.Category{Name: "Transport", IsDefault: true}).Error).To(Succeed())

		repo := categoryPostgres.NewCategoryRepository(db)
		coord := cache.NewCoordinator(cache.NewMemoryStore(100, 4), time.Minute, slogger)
		service := category.NewService(repo, coord, nil, slogger)
		handler := category.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
	})

	It("requires an authenticated user", func() {
		rr := do(http.MethodGet, "/categories", 0, "")
		Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists default categories", func() {
		rr := do(http.MethodGet, "/categories", 1, "")
		Expect(rr.Code).To(Equal(http.StatusOK))

		var categories []category.Category
		Expect(json.Unmarshal(rr.Body.Bytes(), &categories)).To(Succeed())
		Expect(categories).To(HaveLen(1))
		Expect(categories[0].Name).To(Equal("Transport"))
		Expect(categories[0].IsDefault).To(BeTrue())
	})

	It("creates, conflicts, renames and deletes", func() {
		rr := do(http.MethodPost, "/categories", 1, `{"name":"Food"}`)
		Expect(rr.Code).To(Equal(http.StatusCreated))
		var created category.Category
		Expect(json.Unmarshal(rr.Body.Bytes(), &created)).To(Succeed())
		Expect(created.ID).To(BeNumerically(">", 0))

		rr = do(http.MethodPost, "/categories", 1, `{"name":"Food"}`)
		Expect(rr.Code).To(Equal(http.StatusConflict))
		Expect(rr.Body.String()).To(ContainSubstring(string(internal.ErrCodeCategoryExists)))

		rr = do(http.MethodPost, "/categories", 2, `{"name":"Food"}`)
		Expect(rr.Code).To(Equal(http.StatusCreated))

		path := "/categories/" + strconv.FormatInt(created.ID, 10)
		rr = do(http.MethodPut, path, 2, `{"name":"Stolen"}`)
		Expect(rr.Code).To(Equal(http.StatusNotFound))

		rr = do(http.MethodPut, path, 1, `{"name":"Groceries"}`)
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Body.String()).To(ContainSubstring(`"name":"Groceries"`))

		rr = do(http.MethodGet, "/categories", 1, "")
		Expect(rr.Body.String()).To(ContainSubstring("Groceries"))

		Expect(db.Create(&expenseDatamodel.Expense{
			Title: "Lunch", Amount: decimal.RequireFromString("12.50"), Date: time.Now(),
			UserID: 1, CategoryID: created.ID,
		}).Error).To(Succeed())

		rr = do(http.MethodDelete, path, 1, "")
		Expect(rr.Code).To(Equal(http.StatusConflict))
		Expect(rr.Body.String()).To(ContainSubstring(string(internal.ErrCodeCategoryInUse)))

		Expect(db.Where("category_id = ?", created.ID).Delete(&expenseDatamodel.Expense{}).Error).To(Succeed())

		rr = do(http.MethodDelete, path, 1, "")
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(rr.Body.String())).To(Equal(`{"deleted":true}`))

		rr = do(http.MethodDelete, path, 1, "")
		Expect(rr.Code).To(Equal(http.StatusNotFound))
	})

	It("rejects bad input", func() {
		Expect(do(http.MethodPost, "/categories", 1, `{"name":""}`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/categories", 1, `{not json`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/categories", 1, "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPut, "/categories/abc", 1, `{"name":"x"}`).Code).To(Equal(http.StatusBadRequest))
	})
})
