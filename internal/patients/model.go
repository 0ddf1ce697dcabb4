package patients

import (
	"strings"
	"time"
)

// Patient is the profile record linking an authenticated identity to
// booking-relevant personal data.
type Patient struct {
	ID          string    `dynamodbav:"id" json:"id"`
	Email       string    `dynamodbav:"email" json:"email"`
	Name        string    `dynamodbav:"name" json:"name"`
	Phone       string    `dynamodbav:"phone" json:"phone"`
	DateOfBirth string    `dynamodbav:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Gender      string    `dynamodbav:"gender,omitempty" json:"gender,omitempty"`
	BloodGroup  string    `dynamodbav:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	Address     string    `dynamodbav:"address,omitempty" json:"address,omitempty"`
	CreatedAt   time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

// RegisterRequest is the body for patient registration.
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth"`
	Gender      string `json:"gender"`
	BloodGroup  string `json:"bloodGroup"`
	Address     string `json:"address"`
}

// Validate checks the registration request.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	return nil
}
