package doctors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Invalidator drops a cached doctor record after an admin write. Nil when
// no reference cache is configured.
type Invalidator interface {
	Invalidate(ctx context.Context, id string)
}

// Handler handles HTTP requests for doctor administration and lookup.
type Handler struct {
	store  *Store
	cache  Invalidator
	logger *logging.Logger
}

// NewHandler creates a new doctors handler.
func NewHandler(store *Store, cache Invalidator, logger *logging.Logger) *Handler {
	return &Handler{store: store, cache: cache, logger: logger}
}

// Create handles POST /admin/doctors.
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
	h.logger.Info("doctor created", "id", d.ID, "department_id", d.DepartmentID)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(d)
}

// Update handles PUT /admin/doctors/{doctorID}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "doctorID")
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

// List handles GET /doctors with an optional department filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context(), r.URL.Query().Get("department"))
	if err != nil {
		h.logger.Error("failed to list doctors", "error", err)
		http.Error(w, "failed to list doctors", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"doctors": list, "count": len(list)})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrDoctorNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidName), errors.Is(err, ErrMissingDepartment), errors.Is(err, ErrNegativeFee):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("doctor write failed", "error", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
	}
}
