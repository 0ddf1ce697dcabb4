package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Handler serves sign-up, sign-in, and current-user resolution. Sign-out is
// client-side token discard; there is no server-side revocation.
type Handler struct {
	store  *Store
	issuer *Issuer
	logger *logging.Logger
}

func NewHandler(store *Store, issuer *Issuer, logger *logging.Logger) *Handler {
	return &Handler{store: store, issuer: issuer, logger: logger}
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SignUp handles POST /auth/signup. Public sign-up always creates a
// patient account.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.store.Create(r.Context(), req.Email, req.Name, req.Password, string(session.RolePatient))
	if err != nil {
		h.writeError(w, err)
		return
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		http.Error(w, "sign-up failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user signed up", "id", u.ID, "email", u.Email)
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token, User: u})
}

// SignIn handles POST /auth/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.Error("failed to look up user", "error", err)
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}
	if !u.CheckPassword(req.Password) {
		http.Error(w, ErrInvalidCredentials.Error(), http.StatusUnauthorized)
		return
	}

	token, err := h.issuer.Issue(u)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		http.Error(w, "sign-in failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token, User: u})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	u, err := h.store.Get(r.Context(), sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load user", "error", err)
		http.Error(w, "failed to load user", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// CreateStaff handles POST /admin/users for doctor, lab operator, and admin
// accounts.
func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req CreateStaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	u, err := h.store.Create(r.Context(), req.Email, req.Name, req.Password, string(session.ParseRole(req.Role)))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.logger.Info("staff account created", "id", u.ID, "role", u.Role)
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmailTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrWeakPassword), errors.Is(err, ErrInvalidRole):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("auth request failed", "error", err)
		http.Error(w, "request failed", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
