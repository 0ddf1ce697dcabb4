package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Handler handles HTTP requests for patient profiles.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new patients handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Register handles POST /patients/register. The profile is bound to the
// signed-in account: same ID, same email, whatever the body claims.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode registration", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Email = sess.Email

	p, err := h.store.Create(r.Context(), sess.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrMissingEmail), errors.Is(err, ErrInvalidName):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("failed to register patient", "error", err)
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("patient registered", "id", p.ID, "email", p.Email)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// GetProfile handles GET /patients/me using the caller's session email.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	p, err := h.store.GetByEmail(r.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			http.Error(w, "profile not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load profile", "error", err, "email", sess.Email)
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}
