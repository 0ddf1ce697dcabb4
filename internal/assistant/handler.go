package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huzaifaahmed2004/care-coord/internal/booking"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Handler serves the assistant chat endpoint.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /assistant/chat.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := h.service.HandleMessage(r.Context(), sess.Email, req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reply)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrPatientProfileNotFound):
		http.Error(w, "no patient profile found for this account", http.StatusUnprocessableEntity)
	case errors.Is(err, doctors.ErrDoctorNotFound), errors.Is(err, booking.ErrUnknownTest):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		h.logger.Error("assistant request failed", "error", err)
		http.Error(w, "assistant is unavailable, please try again", http.StatusInternalServerError)
	}
}
