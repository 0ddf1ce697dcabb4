package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// doctorDirectory resolves the doctor record behind a signed-in account.
type doctorDirectory interface {
	GetByEmail(ctx context.Context, email string) (*doctors.Doctor, error)
}

// Handler serves appointment listing and status transitions.
type Handler struct {
	store     *Store
	roster    doctorDirectory
	publisher *events.Publisher
	logger    *logging.Logger
}

func NewHandler(store *Store, roster doctorDirectory, publisher *events.Publisher, logger *logging.Logger) *Handler {
	return &Handler{store: store, roster: roster, publisher: publisher, logger: logger}
}

// ListMine handles GET /patient/appointments.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	list, err := h.store.ListByPatient(r.Context(), sess.UserID)
	if err != nil {
		h.logger.Error("failed to list patient appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

// ListForDoctor handles GET /doctor/appointments. Doctor accounts and
// doctor records are linked by email, so the record is resolved before
// listing.
func (h *Handler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	doctor, err := h.roster.GetByEmail(r.Context(), sess.Email)
	if err != nil {
		if errors.Is(err, doctors.ErrDoctorNotFound) {
			http.Error(w, "no doctor record for this account", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to resolve doctor record", "email", sess.Email, "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	list, err := h.store.ListByDoctor(r.Context(), doctor.ID)
	if err != nil {
		h.logger.Error("failed to list doctor appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

// ListAll handles GET /admin/appointments.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"appointments": list, "count": len(list)})
}

// UpdateStatus handles PATCH /doctor/appointments/{appointmentID}/status
// and the admin equivalent.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())
	id := chi.URLParam(r, "appointmentID")

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	to, err := ParseStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	before, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	updated, err := h.store.UpdateStatus(r.Context(), id, to)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.publisher.AppointmentStatusChanged(r.Context(), events.AppointmentStatusChangedV1{
		AppointmentID: updated.ID,
		PatientID:     updated.PatientID,
		OldStatus:     string(before.Status),
		NewStatus:     string(updated.Status),
		ChangedBy:     sess.UserID,
	})
	h.logger.Info("appointment status changed",
		"appointment_id", updated.ID, "from", before.Status, "to", updated.Status)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAppointmentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrInvalidStatus):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("appointment update failed", "error", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
