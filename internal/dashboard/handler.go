package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Handler serves the per-role dashboard endpoints. Role gating happens in
// the router; handlers only need the session identity.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Patient handles GET /dashboard/patient.
func (h *Handler) Patient(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	d, err := h.service.Patient(r.Context(), sess.UserID)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, d)
}

// Doctor handles GET /dashboard/doctor.
func (h *Handler) Doctor(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	d, err := h.service.Doctor(r.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, doctors.ErrDoctorNotFound) {
			http.Error(w, "no doctor record for this account", http.StatusNotFound)
			return
		}
		h.fail(w, err)
		return
	}
	h.writeJSON(w, d)
}

// Lab handles GET /dashboard/lab.
func (h *Handler) Lab(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Lab(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, d)
}

// Admin handles GET /dashboard/admin.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Admin(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, d)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.logger.Error("failed to build dashboard", "error", err)
	http.Error(w, "failed to load dashboard", http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
