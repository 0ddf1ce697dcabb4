package doctors

import (
	"strings"
	"time"
)

// Doctor is a reference record. FeePercentage is the surcharge applied
// multiplicatively to the base appointment fee.
type Doctor struct {
	ID            string    `dynamodbav:"id" json:"id"`
	Name          string    `dynamodbav:"name" json:"name"`
	Email         string    `dynamodbav:"email" json:"email"`
	DepartmentID  string    `dynamodbav:"departmentId" json:"departmentId"`
	Specialty     string    `dynamodbav:"specialty,omitempty" json:"specialty,omitempty"`
	FeePercentage float64   `dynamodbav:"feePercentage" json:"feePercentage"`
	Available     bool      `dynamodbav:"available" json:"available"`
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// UpsertRequest is the admin request for creating or updating a doctor.
type UpsertRequest struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	DepartmentID  string  `json:"departmentId"`
	Specialty     string  `json:"specialty"`
	FeePercentage float64 `json:"feePercentage"`
	Available     bool    `json:"available"`
}

// Validate checks the request.
func (r *UpsertRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.DepartmentID) == "" {
		return ErrMissingDepartment
	}
	if r.FeePercentage < 0 {
		return ErrNegativeFee
	}
	return nil
}
