package summary_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type stubService struct {
	monthly   *summary.MonthlySummary
	totals    []summary.CategoryTotal
	err       error
	gotYear   int
	gotMonth  int
	gotFrom   string
	gotTo     string
	gotUserID int64
}

func (s *stubService) GetMonthlySummary(_ context.Context, userID int64, year, month int) (*summary.MonthlySummary, error) {
	s.gotUserID, s.gotYear, s.gotMonth = userID, year, month
	return s.monthly, s.err
}

func (s *stubService) GetSummaryByCategories(_ context.Context, userID int64, from, to string) ([]summary.CategoryTotal, error) {
	s.gotUserID, s.gotFrom, s.gotTo = userID, from, to
	return s.totals, s.err
}

var _ = Describe("Handler", func() {
	var (
		stub    *stubService
		handler *summary.Handler
	)

	authed := func(target string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		return req.WithContext(internal.ContextWithUserID(req.Context(), 1))
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		stub = &stubService{}
		handler = summary.NewHandler(transport.NewBaseHandler(logger), stub)
	})

	It("renders the monthly summary with numeric amounts", func() {
		stub.monthly = &summary.MonthlySummary{
			TotalGlobal: decimal.RequireFromString("19.5"),
			ByCategory: []summary.CategoryTotal{
				{CategoryID: 1, CategoryName: "Food", Total: decimal.RequireFromString("12.5")},
				{CategoryID: 2, CategoryName: "Transport", Total: decimal.RequireFromString("7")},
			},
		}

		rec := httptest.NewRecorder()
		handler.GetMonthlySummary(rec, authed("/summary/monthly?year=2025&month=7"))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.gotYear).To(Equal(2025))
		Expect(stub.gotMonth).To(Equal(7))

		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["totalGlobal"]).To(BeNumerically("==", 19.5))
		Expect(body["byCategory"]).To(HaveLen(2))
	})

	It("rejects a non-numeric month", func() {
		rec := httptest.NewRecorder()
		handler.GetMonthlySummary(rec, authed("/summary/monthly?year=2025&month=july"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("requires authentication", func() {
		rec := httptest.NewRecorder()
		handler.GetMonthlySummary(rec, httptest.NewRequest(http.MethodGet, "/summary/monthly?year=2025&month=7", nil))
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("passes the range through and renders an empty list as []", func() {
		stub.totals = []summary.CategoryTotal{}

		rec := httptest.NewRecorder()
		handler.GetSummaryByCategories(rec, authed("/summary/categories?from=2025-08-01&to=2025-08-31"))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(stub.gotFrom).To(Equal("2025-08-01"))
		Expect(stub.gotTo).To(Equal("2025-08-31"))
		Expect(rec.Body.String()).To(MatchJSON(`[]`))
	})

	It("rejects a missing bound", func() {
		rec := httptest.NewRecorder()
		handler.GetSummaryByCategories(rec, authed("/summary/categories?from=2025-08-01"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps service validation errors to 400", func() {
		stub.err = internal.NewValidationError("bad", internal.ErrCodeInvalidPeriod)

		rec := httptest.NewRecorder()
		handler.GetSummaryByCategories(rec, authed("/summary/categories?from=x&to=y"))
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})
})
