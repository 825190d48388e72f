package statement

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"credikhaata/internal/ledger"
	"credikhaata/internal/statement"
)

type Handler struct {
	ledger *ledger.Service
	stmts  *statement.Service
}

func NewHandler(l *ledger.Service, stmts *statement.Service) *Handler {
	return &Handler{ledger: l, stmts: stmts}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/statement", h.download)
}

// download renders the customer's statement and serves it as an attachment
// under the statement filename.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	md, err := h.stmts.Render(id)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "customer not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	c, err := h.ledger.Customer(id)
	if err != nil {
		http.Error(w, "customer not found", http.StatusNotFound)
		return
	}

	filename := statement.Filename(c.Name, time.Now())

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(md))
}
