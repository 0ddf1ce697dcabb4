package booking

import "errors"

var (
	// ErrPatientProfileNotFound is returned when the authenticated identity
	// does not resolve to a patient profile. The submission is terminal: no
	// record is written and the caller is not retried.
	ErrPatientProfileNotFound = errors.New("booking: patient profile not found")

	// ErrDoctorNotFound is returned when the selected doctor does not exist.
	ErrDoctorNotFound = errors.New("booking: doctor not found")

	// ErrDepartmentNotFound is returned when the selected department does not exist.
	ErrDepartmentNotFound = errors.New("booking: department not found")

	// ErrNoTestsSelected is returned when a lab order names no tests.
	ErrNoTestsSelected = errors.New("booking: no lab tests selected")

	// ErrUnknownTest is returned when a requested test is not in the catalog.
	ErrUnknownTest = errors.New("booking: unknown lab test")
)
