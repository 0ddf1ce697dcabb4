package auth

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
)

// User is a credential record. The password is stored as a bcrypt hash and
// never serialized.
type User struct {
	ID           string    `dynamodbav:"id" json:"id"`
	Email        string    `dynamodbav:"email" json:"email"`
	Name         string    `dynamodbav:"name" json:"name"`
	Role         string    `dynamodbav:"role" json:"role"`
	PasswordHash string    `dynamodbav:"passwordHash" json:"-"`
	CreatedAt    time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(plain string) error {
	if len(plain) < 8 {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether plain matches the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// SignUpRequest is the public registration body. Public sign-up always
// creates a patient account; staff accounts go through the admin endpoint.
type SignUpRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Validate checks the sign-up request.
func (r *SignUpRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if len(r.Password) < 8 {
		return ErrWeakPassword
	}
	return nil
}

// CreateStaffRequest is the admin body for creating doctor, lab operator,
// and admin accounts.
type CreateStaffRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks the staff request, including that the role is a staff role.
func (r *CreateStaffRequest) Validate() error {
	base := SignUpRequest{Email: r.Email, Name: r.Name, Password: r.Password}
	if err := base.Validate(); err != nil {
		return err
	}
	switch session.ParseRole(r.Role) {
	case session.RoleDoctor, session.RoleLabOperator, session.RoleAdmin:
		return nil
	default:
		return ErrInvalidRole
	}
}
