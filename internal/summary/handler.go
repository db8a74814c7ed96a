package summary

import (
	"context"
	"net/http"
	"strconv"

	"github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/internal/transport"
)

type ServiceAPI interface {
	GetMonthlySummary(ctx context.Context, userID int64, year, month int) (*MonthlySummary, error)
	GetSummaryByCategories(ctx context.Context, userID int64, from, to string) ([]CategoryTotal, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("year", "year must be a number", internal.ErrCodeInvalidPeriod))
		return
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil {
		h.HandleServiceError(w, internal.NewValidationFieldError("month", "month must be a number", internal.ErrCodeInvalidPeriod))
		return
	}

	summary, err := h.Service.GetMonthlySummary(r.Context(), userID, year, month)
	if err != nil {
		h.Logger.Error("GetMonthlySummary: failed", "error", err, "user_id", userID, "year", year, "month", month)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetSummaryByCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	from, to := query.Get("from"), query.Get("to")
	if from == "" || to == "" {
		h.HandleServiceError(w, internal.NewValidationError("from and to are required", internal.ErrCodeInvalidPeriod))
		return
	}

	totals, err := h.Service.GetSummaryByCategories(r.Context(), userID, from, to)
	if err != nil {
		h.Logger.Error("GetSummaryByCategories: failed", "error", err, "user_id", userID, "from", from, "to", to)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, totals)
}
