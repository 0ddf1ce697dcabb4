package session

import "context"

// Role is the typed union over the dashboard roles. It replaces the string
// flags the web client kept in browser storage.
type Role string

const (
	RoleAnonymous   Role = "anonymous"
	RolePatient     Role = "patient"
	RoleDoctor      Role = "doctor"
	RoleLabOperator Role = "lab-operator"
	RoleAdmin       Role = "admin"
)

// ParseRole maps a stored role string onto the union; unknown input is anonymous.
func ParseRole(s string) Role {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleLabOperator, RoleAdmin:
		return Role(s)
	default:
		return RoleAnonymous
	}
}

// Session identifies the authenticated caller for the duration of a request.
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   Role
}

// Anonymous is the session used when no identity is present.
var Anonymous = Session{Role: RoleAnonymous}

type ctxKey string

const sessionKey ctxKey = "carecoord.session"

// WithSession stores the session in context.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext extracts the session if present.
func FromContext(ctx context.Context) (Session, bool) {
	val := ctx.Value(sessionKey)
	if val == nil {
		return Anonymous, false
	}
	s, ok := val.(Session)
	return s, ok && s.Role != RoleAnonymous && s.UserID != ""
}
