package summary_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/summary"
)

type storedExpense struct {
	userID     int64
	categoryID int64
	amount     decimal.Decimal
	date       time.Time
}

// MockRepository filters an in-memory slice the way the SQL query does.
type MockRepository struct {
	expenses   []storedExpense
	names      map[int64]string
	shouldFail bool
	failError  error
	amountCall int
	lastFrom   time.Time
	lastTo     time.Time
}

func NewMockRepository() *MockRepository {
	return &MockRepository{names: map[int64]string{}}
}

func (m *MockRepository) add(userID, categoryID int64, amount string, date time.Time) {
	m.expenses = append(m.expenses, storedExpense{
		userID:     userID,
		categoryID: categoryID,
		amount:     decimal.RequireFromString(amount),
		date:       date,
	})
}

func (m *MockRepository) FindAmounts(_ context.Context, userID int64, from, to time.Time) ([]summary.AmountRow, error) {
	m.amountCall++
	m.lastFrom, m.lastTo = from, to
	if m.shouldFail {
		return nil, m.failError
	}
	var rows []summary.AmountRow
	for _, e := range m.expenses {
		if e.userID != userID || e.date.Before(from) || e.date.After(to) {
			continue
		}
		rows = append(rows, summary.AmountRow{CategoryID: e.categoryID, Amount: e.amount})
	}
	return rows, nil
}

func (m *MockRepository) CategoryNames(_ context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string)
	for _, id := range ids {
		if name, ok := m.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		repo   *MockRepository
		engine *summary.Engine
	)

	on := func(month time.Month, day, hour int) time.Time {
		return time.Date(2025, month, day, hour, 0, 0, 0, time.UTC)
	}

	BeforeEach(func() {
		ctx = context.Background()
		repo = NewMockRepository()
		repo.names[1] = "Food"
		repo.names[2] = "Transport"
		engine = summary.NewEngine(repo, time.UTC)
	})

	Describe("MonthWindow", func() {
		It("covers the first through the last millisecond of the month", func() {
			start, end := engine.MonthWindow(2025, 2)
			Expect(start).To(Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end).To(Equal(time.Date(2025, 2, 28, 23, 59, 59, int(999*time.Millisecond), time.UTC)))
		})

		It("rolls December into the next year correctly", func() {
			_, end := engine.MonthWindow(2024, 12)
			Expect(end.Year()).To(Equal(2024))
			Expect(end.Day()).To(Equal(31))
		})
	})

	Describe("MonthlySummary", func() {
		It("totals each category and the whole month", func() {
			repo.add(1, 1, "12.50", on(7, 10, 12))
			repo.add(1, 2, "7.00", on(7, 10, 18))

			result, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalGlobal.Equal(decimal.RequireFromString("19.5"))).To(BeTrue())
			Expect(result.ByCategory).To(HaveLen(2))
			Expect(result.ByCategory[0].CategoryName).To(Equal("Food"))
			Expect(result.ByCategory[0].Total.Equal(decimal.RequireFromString("12.5"))).To(BeTrue())
			Expect(result.ByCategory[1].CategoryName).To(Equal("Transport"))
			Expect(result.ByCategory[1].Total.Equal(decimal.RequireFromString("7"))).To(BeTrue())
		})

		It("sums cents exactly", func() {
			for i := 0; i < 10; i++ {
				repo.add(1, 1, "0.10", on(7, 1, 9))
			}

			result, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalGlobal.Equal(decimal.NewFromInt(1))).To(BeTrue())
		})

		It("returns zero and an empty list for a user without expenses", func() {
			repo.add(2, 1, "50.00", on(7, 10, 12))

			result, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalGlobal.IsZero()).To(BeTrue())
			Expect(result.ByCategory).NotTo(BeNil())
			Expect(result.ByCategory).To(BeEmpty())
		})

		It("includes both month boundaries and excludes neighbouring months", func() {
			repo.add(1, 1, "1.00", on(7, 1, 0))
			repo.add(1, 1, "2.00", time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC))
			repo.add(1, 1, "4.00", on(8, 1, 0))
			repo.add(1, 1, "8.00", time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC))

			result, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalGlobal.Equal(decimal.NewFromInt(3))).To(BeTrue())
		})

		It("labels categories that no longer exist as Unknown", func() {
			repo.add(1, 99, "3.00", on(7, 5, 12))

			result, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ByCategory).To(HaveLen(1))
			Expect(result.ByCategory[0].CategoryName).To(Equal(summary.UnknownCategory))
			Expect(result.ByCategory[0].CategoryID).To(Equal(int64(99)))
		})

		It("orders equal names by category id", func() {
			repo.names[5] = "Food"
			repo.add(1, 5, "1.00", on(7, 5, 12))
			repo.add(1, 1, "1.00", on(7, 5, 12))

			result, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.ByCategory[0].CategoryID).To(Equal(int64(1)))
			Expect(result.ByCategory[1].CategoryID).To(Equal(int64(5)))
		})

		It("wraps repository failures as internal errors", func() {
			repo.shouldFail = true
			repo.failError = errors.New("connection refused")

			_, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(internal.IsType(err, internal.ErrorTypeInternal)).To(BeTrue())
		})
	})

	Describe("CategorySummary", func() {
		BeforeEach(func() {
			repo.add(1, 1, "12.50", on(7, 10, 12))
			repo.add(1, 2, "7.00", on(7, 10, 18))
		})

		It("includes expenses on the last day of the range", func() {
			totals, err := engine.CategorySummary(ctx, 1, "2025-07-01", "2025-07-10")
			Expect(err).NotTo(HaveOccurred())
			Expect(totals).To(HaveLen(2))
			Expect(repo.lastTo).To(Equal(time.Date(2025, 7, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC)))
		})

		It("returns an empty list for a range without expenses", func() {
			totals, err := engine.CategorySummary(ctx, 1, "2025-08-01", "2025-08-31")
			Expect(err).NotTo(HaveOccurred())
			Expect(totals).NotTo(BeNil())
			Expect(totals).To(BeEmpty())
		})

		It("rejects malformed dates without querying", func() {
			_, err := engine.CategorySummary(ctx, 1, "2025-13-01", "2025-07-10")
			Expect(internal.IsType(err, internal.ErrorTypeValidation)).To(BeTrue())
			Expect(repo.amountCall).To(Equal(0))
		})

		It("returns an empty list for an inverted range", func() {
			totals, err := engine.CategorySummary(ctx, 1, "2025-07-31", "2025-07-01")
			Expect(err).NotTo(HaveOccurred())
			Expect(totals).NotTo(BeNil())
			Expect(totals).To(BeEmpty())
		})
	})

	Context("with a non-UTC location", func() {
		It("anchors the month window in that location", func() {
			loc := time.FixedZone("UTC+7", 7*60*60)
			engine = summary.NewEngine(repo, loc)
			// 2025-07-31 20:00 UTC is already August 1st in UTC+7.
			repo.add(1, 1, "5.00", time.Date(2025, 7, 31, 20, 0, 0, 0, time.UTC))

			july, err := engine.MonthlySummary(ctx, 1, 2025, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(july.TotalGlobal.IsZero()).To(BeTrue())

			august, err := engine.MonthlySummary(ctx, 1, 2025, 8)
			Expect(err).NotTo(HaveOccurred())
			Expect(august.TotalGlobal.Equal(decimal.NewFromInt(5))).To(BeTrue())
		})
	})
})
