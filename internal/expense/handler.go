package expense

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/transport"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

type ServiceAPI interface {
	FindAll(ctx context.Context, userID int64, filter Filter) ([]*Expense, error)
	GetByID(ctx context.Context, userID, id int64) (*Expense, error)
	Create(ctx context.Context, userID int64, dto CreateExpenseDTO) (*Expense, error)
	Update(ctx context.Context, userID, id int64, dto UpdateExpenseDTO) (*Expense, error)
	Delete(ctx context.Context, userID, id int64) error
	Export(ctx context.Context, userID int64, filter Filter, w io.Writer) error
	Location() *time.Location
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) GetAllExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	filter, err := ParseFilter(r.URL.Query(), h.Service.Location())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expenses, err := h.Service.FindAll(r.Context(), userID, filter)
	if err != nil {
		h.Logger.Error("GetAllExpenses: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expense, err := h.Service.GetByID(r.Context(), userID, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	var dto CreateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	expense, err := h.Service.Create(r.Context(), userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateExpense: expense created successfully",
		"expense_id", expense.ID,
		"user_id", userID,
		"amount", expense.Amount.String())

	h.WriteJSON(w, http.StatusCreated, expense)
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateExpenseDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	expense, err := h.Service.Update(r.Context(), userID, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, expense)
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	id, err := h.PathID(r, "id")
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Delete(r.Context(), userID, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DeleteResponse{Deleted: true})
}

// ExportExpenses streams the filtered list as a CSV attachment.
func (h *Handler) ExportExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.RequireUser(w, r)
	if !ok {
		return
	}

	filter, err := ParseFilter(r.URL.Query(), h.Service.Location())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("expenses-%s.csv", time.Now().In(h.Service.Location()).Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// Rendered to memory first so a failure can still produce a JSON error.
	var buf bytes.Buffer
	if err := h.Service.Export(r.Context(), userID, filter, &buf); err != nil {
		w.Header().Del("Content-Disposition")
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.Logger.Error("ExportExpenses: failed to write response", "error", err, "user_id", userID)
	}
}
