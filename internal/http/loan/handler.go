package loan

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"credikhaata/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/repayments", h.createRepayment)
}

// RepaymentRoutes hangs off /repayments; only deletion lives there since a
// repayment is always created under its loan.
func (h *Handler) RepaymentRoutes(r chi.Router) {
	r.Delete("/{id}", h.deleteRepayment)
}

type createLoanRequest struct {
	CustomerID uuid.UUID       `json:"customerId"`
	Item       string          `json:"item"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    string          `json:"dueDate"`
}

type repaymentResponse struct {
	ID     uuid.UUID `json:"id"`
	Amount string    `json:"amount"`
	Date   string    `json:"date"`
}

type loanResponse struct {
	ID         uuid.UUID           `json:"id"`
	CustomerID uuid.UUID           `json:"customerId"`
	Item       string              `json:"item"`
	Amount     string              `json:"amount"`
	Date       string              `json:"date"`
	DueDate    string              `json:"dueDate"`
	Repaid     string              `json:"repaid"`
	Balance    string              `json:"balance"`
	Status     string              `json:"status"`
	Overdue    bool                `json:"overdue"`
	Repayments []repaymentResponse `json:"repayments,omitempty"`
}

func toResponse(v ledger.LoanView) loanResponse {
	resp := loanResponse{
		ID:         v.ID,
		CustomerID: v.CustomerID,
		Item:       v.Item,
		Amount:     v.Amount.String(),
		Date:       v.Date.Format(time.DateOnly),
		DueDate:    v.DueDate.Format(time.DateOnly),
		Repaid:     v.Repaid.String(),
		Balance:    v.Balance.String(),
		Status:     string(v.Status),
		Overdue:    v.Overdue,
	}

	for _, rp := range v.Repayments {
		resp.Repayments = append(resp.Repayments, repaymentResponse{
			ID:     rp.ID,
			Amount: rp.Amount.String(),
			Date:   rp.Date.Format(time.DateOnly),
		})
	}

	return resp
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := ledger.ValidateLoanInput(req.Item); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !req.Amount.IsPositive() {
		http.Error(w, "amount must be positive", http.StatusBadRequest)
		return
	}

	dueDate, err := ledger.ParseDate(req.DueDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l, err := h.svc.AddLoan(r.Context(), req.CustomerID, req.Item, req.Amount, dueDate)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	view, err := h.svc.LoanView(l.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(view)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	view, err := h.svc.LoanView(id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "loan not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(view)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteLoan(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "loan not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createRepaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

func (h *Handler) createRepayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req createRepaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := ledger.ParseDate(req.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// The service checks the amount against the balance at the commit
	// point, so concurrent over-balance submissions cannot both land.
	rp, err := h.svc.AddRepayment(r.Context(), loanID, req.Amount, date)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, "loan not found", http.StatusNotFound)
		case errors.Is(err, ledger.ErrExceedsBalance):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ledger.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	resp := repaymentResponse{ID: rp.ID, Amount: rp.Amount.String(), Date: rp.Date.Format(time.DateOnly)}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) deleteRepayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteRepayment(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "repayment not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
