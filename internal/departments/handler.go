package departments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Invalidator drops a cached department record after an admin write. Nil
// when no reference cache is configured.
type Invalidator interface {
	Invalidate(ctx context.Context, id string)
}

// Handler handles HTTP requests for department administration and lookup.
type Handler struct {
	store  *Store
	cache  Invalidator
	logger *logging.Logger
}

func NewHandler(store *Store, cache Invalidator, logger *logging.Logger) *Handler {
	return &Handler{store: store, cache: cache, logger: logger}
}

// Create handles POST /admin/departments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, err := h.store.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.logger.Info("department created", "id", d.ID, "name", d.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

// Update handles PUT /admin/departments/{departmentID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "departmentID")
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	d, err := h.store.Update(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if h.cache != nil {
		h.cache.Invalidate(r.Context(), d.ID)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(d)
}

// List handles GET /departments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list departments", "error", err)
		http.Error(w, "failed to list departments", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"departments": list, "count": len(list)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDepartmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrNegativeFee):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("department write failed", "error", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
	}
}
