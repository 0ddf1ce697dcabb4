package patients

import "errors"

var (
	// ErrMissingEmail is returned when registration carries no email.
	ErrMissingEmail = errors.New("patients: email is required")

	// ErrInvalidName is returned when the name is empty.
	ErrInvalidName = errors.New("patients: name is required")

	// ErrPatientNotFound is returned when no profile matches.
	ErrPatientNotFound = errors.New("patients: profile not found")

	// ErrEmailTaken is returned when a profile already exists for the email.
	ErrEmailTaken = errors.New("patients: email already registered")
)
