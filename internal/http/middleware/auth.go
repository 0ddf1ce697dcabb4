package middleware

import (
	"net/http"
	"strings"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
)

// TokenVerifier turns a bearer token into a session.
type TokenVerifier interface {
	Verify(token string) (session.Session, error)
}

// Authenticate validates the Authorization header and stores the resulting
// session in the request context. Requests without a valid token are
// rejected.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := ""
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
			// WebSocket clients cannot set headers; they pass the token
			// as a query parameter instead.
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}

			sess, err := verifier.Verify(token)
			if err != nil || sess.Role == session.RoleAnonymous {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireRole rejects authenticated callers whose role is not in the allow
// list. It must run after Authenticate.
func RequireRole(roles ...session.Role) func(http.Handler) http.Handler {
	allow := make(map[session.Role]struct{}, len(roles))
	for _, role := range roles {
		allow[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				http.Error(w, "authentication required", http.StatusUnauthorized)
				return
			}
			if _, allowed := allow[sess.Role]; !allowed {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
