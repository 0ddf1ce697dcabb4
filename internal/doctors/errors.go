package doctors

import "errors"

var (
	ErrInvalidName       = errors.New("doctors: name is required")
	ErrMissingDepartment = errors.New("doctors: departmentId is required")
	ErrNegativeFee       = errors.New("doctors: feePercentage cannot be negative")
	ErrDoctorNotFound    = errors.New("doctors: doctor not found")
)
