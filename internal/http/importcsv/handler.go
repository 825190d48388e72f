package importcsv

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"credikhaata/internal/importer"
	"credikhaata/internal/ledger"
)

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/{kind}", h.importCSV)
}

type importResponse struct {
	Imported int `json:"imported"`
}

// importCSV takes the raw CSV as the request body. The file is rejected
// whole on the first invalid row; nothing partial is written.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	kind := importer.Kind(chi.URLParam(r, "kind"))
	if kind != importer.KindCustomers && kind != importer.KindLoans {
		http.Error(w, "unknown import kind", http.StatusBadRequest)
		return
	}

	n, err := h.svc.Import(r.Context(), kind, r.Body)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidInput):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, ledger.ErrNotFound):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			http.Error(w, err.Error(), http.StatusBadRequest)
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(importResponse{Imported: n}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
