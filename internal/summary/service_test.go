package summary_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/cache"
	"github.com/frahmantamala/expense-tracker/internal/core/events"
	"github.com/frahmantamala/expense-tracker/internal/summary"
)

var _ = Describe("Service", func() {
	var (
		ctx         context.Context
		repo        *MockRepository
		store       *cache.MemoryStore
		coordinator *cache.Coordinator
		bus         *events.EventBus
		service     *summary.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		repo = NewMockRepository()
		repo.names[1] = "Food"
		repo.names[2] = "Transport"
		repo.add(1, 1, "12.50", time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC))
		repo.add(1, 2, "7.00", time.Date(2025, 7, 10, 18, 0, 0, 0, time.UTC))

		store = cache.NewMemoryStore(0, 0)
		coordinator = cache.NewCoordinator(store, time.Minute, logger)
		bus = events.NewEventBus(logger)
		summary.RegisterInvalidation(bus, coordinator, logger)

		service = summary.NewService(summary.NewEngine(repo, time.UTC), coordinator, logger)
	})

	Describe("GetMonthlySummary", func() {
		It("computes once and then serves from the cache", func() {
			first, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.TotalGlobal.Equal(decimal.RequireFromString("19.5"))).To(BeTrue())

			second, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.TotalGlobal.Equal(first.TotalGlobal)).To(BeTrue())
			Expect(second.ByCategory).To(HaveLen(2))
			Expect(repo.amountCall).To(Equal(1))

			_, err = store.Get(ctx, cache.MonthlySummaryKey(1, 2025, 7))
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps separate entries per month", func() {
			july, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			august, err := service.GetMonthlySummary(ctx, 1, 2025, 8)
			Expect(err).NotTo(HaveOccurred())

			Expect(july.TotalGlobal.Equal(decimal.RequireFromString("19.5"))).To(BeTrue())
			Expect(august.TotalGlobal.IsZero()).To(BeTrue())
			Expect(august.ByCategory).To(BeEmpty())
		})

		It("rejects a month outside 1..12", func() {
			_, err := service.GetMonthlySummary(ctx, 1, 2025, 13)
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
			Expect(repo.amountCall).To(Equal(0))
		})

		It("requires a user", func() {
			_, err := service.GetMonthlySummary(ctx, 0, 2025, 7)
			Expect(err).To(MatchError(internal.ErrMissingUser))
		})

		It("recomputes after an expense of the user changes", func() {
			_, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())

			repo.add(1, 1, "0.50", time.Date(2025, 7, 11, 8, 0, 0, 0, time.UTC))
			Expect(bus.PublishSync(ctx, events.NewExpenseChangedEvent(events.EventTypeExpenseCreated, 3, 1, 1))).To(Succeed())

			updated, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.TotalGlobal.Equal(decimal.NewFromInt(20))).To(BeTrue())
			Expect(repo.amountCall).To(Equal(2))
		})

		It("leaves other users' entries alone on invalidation", func() {
			_, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())

			Expect(bus.PublishSync(ctx, events.NewExpenseChangedEvent(events.EventTypeExpenseDeleted, 9, 12, 1))).To(Succeed())

			_, err = service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(repo.amountCall).To(Equal(1))
		})

		It("recomputes after a category rename", func() {
			_, err := service.GetMonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())

			Expect(bus.PublishSync(ctx, events.NewCategoryChangedEvent(events.EventTypeCategoryUpdated, 1, 1))).To(Succeed())

			_, err = store.Get(ctx, cache.MonthlySummaryKey(1, 2025, 7))
			Expect(err).To(MatchError(cache.ErrMiss))
		})
	})

	Describe("GetSummaryByCategories", func() {
		It("shares one cache entry between date and timestamp inputs", func() {
			first, err := service.GetSummaryByCategories(ctx, 1, "2025-07-01", "2025-07-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(HaveLen(2))

			second, err := service.GetSummaryByCategories(ctx, 1, "2025-07-01T00:00:00Z", "2025-07-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(HaveLen(2))
			Expect(repo.amountCall).To(Equal(1))

			_, err = store.Get(ctx, cache.CategorySummaryKey(1, "2025-07-01", "2025-07-31"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("shares one cache entry between padded and unpadded dates", func() {
			first, err := service.GetSummaryByCategories(ctx, 1, "2025-7-1", "2025-7-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(first).To(HaveLen(2))

			second, err := service.GetSummaryByCategories(ctx, 1, "2025-07-01", "2025-07-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(HaveLen(2))
			Expect(repo.amountCall).To(Equal(1))

			_, err = store.Get(ctx, cache.CategorySummaryKey(1, "2025-07-01", "2025-07-31"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns an empty list when from is after to", func() {
			totals, err := service.GetSummaryByCategories(ctx, 1, "2025-07-31", "2025-07-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(totals).NotTo(BeNil())
			Expect(totals).To(BeEmpty())
		})

		It("returns an empty list when nothing falls in range", func() {
			totals, err := service.GetSummaryByCategories(ctx, 1, "2025-08-01", "2025-08-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(totals).To(BeEmpty())
		})

		It("rejects an invalid date before querying", func() {
			_, err := service.GetSummaryByCategories(ctx, 1, "not-a-date", "2025-07-31")
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
			Expect(repo.amountCall).To(Equal(0))
		})

		It("drops range entries when an expense changes", func() {
			_, err := service.GetSummaryByCategories(ctx, 1, "2025-07-01", "2025-07-31")
			Expect(err).NotTo(HaveOccurred())

			Expect(bus.PublishSync(ctx, events.NewExpenseChangedEvent(events.EventTypeExpenseUpdated, 1, 1, 2))).To(Succeed())

			_, err = store.Get(ctx, cache.CategorySummaryKey(1, "2025-07-01", "2025-07-31"))
			Expect(err).To(MatchError(cache.ErrMiss))
		})
	})
})
