package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	// Sign-in never reveals which.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")

	// ErrUserNotFound is returned when no user matches the lookup.
	ErrUserNotFound = errors.New("auth: user not found")

	// ErrEmailTaken is returned when an account already exists for the email.
	ErrEmailTaken = errors.New("auth: email already registered")

	// ErrInvalidEmail is returned for a missing or malformed email.
	ErrInvalidEmail = errors.New("auth: invalid email")

	// ErrInvalidName is returned for a missing name.
	ErrInvalidName = errors.New("auth: name is required")

	// ErrWeakPassword is returned for passwords shorter than 8 characters.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")

	// ErrInvalidRole is returned when a staff account names a non-staff role.
	ErrInvalidRole = errors.New("auth: invalid role")

	// ErrInvalidToken is returned for expired, malformed, or forged tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
)
