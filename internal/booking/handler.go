package booking

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Handler exposes booking submission to authenticated patients.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// BookAppointment handles POST /patient/appointments.
func (h *Handler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.PatientEmail = sess.Email

	appt, err := h.service.BookAppointment(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// ScheduleLabTests handles POST /patient/lab-orders.
func (h *Handler) ScheduleLabTests(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	var req LabOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.PatientEmail = sess.Email

	order, err := h.service.ScheduleLabTests(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(order)
}

// writeError maps the booking error taxonomy onto HTTP statuses. All
// failures are terminal for the submission; the client retries manually.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPatientProfileNotFound):
		http.Error(w, "no patient profile found for this account", http.StatusUnprocessableEntity)
	case errors.Is(err, ErrDoctorNotFound), errors.Is(err, ErrDepartmentNotFound), errors.Is(err, ErrUnknownTest):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNoTestsSelected):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("booking submission failed", "error", err)
		http.Error(w, "booking failed, please try again", http.StatusInternalServerError)
	}
}
