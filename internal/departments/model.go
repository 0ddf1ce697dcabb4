package departments

import (
	"errors"
	"strings"
	"time"
)

// Department is a reference record with a surcharge percentage applied to
// the base appointment fee.
type Department struct {
	ID            string    `dynamodbav:"id" json:"id"`
	Name          string    `dynamodbav:"name" json:"name"`
	Description   string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	FeePercentage float64   `dynamodbav:"feePercentage" json:"feePercentage"`
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// UpsertRequest is the admin request for creating or updating a department.
type UpsertRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	FeePercentage float64 `json:"feePercentage"`
}

var (
	ErrInvalidName        = errors.New("departments: name is required")
	ErrNegativeFee        = errors.New("departments: feePercentage cannot be negative")
	ErrDepartmentNotFound = errors.New("departments: department not found")
)

func (r *UpsertRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if r.FeePercentage < 0 {
		return ErrNegativeFee
	}
	return nil
}
