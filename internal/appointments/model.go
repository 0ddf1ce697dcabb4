package appointments

import (
	"errors"
	"time"
)

// Status is the appointment lifecycle state. Appointments are never
// deleted; they only transition.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return Status(raw), nil
	}
	return "", ErrInvalidStatus
}

// CanTransition reports whether from may move to to. Only scheduled
// appointments move; completed, cancelled, and no-show are terminal.
func CanTransition(from, to Status) bool {
	if from != StatusScheduled {
		return false
	}
	switch to {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Appointment is one booked visit.
type Appointment struct {
	ID            string    `dynamodbav:"id" json:"id"`
	PatientID     string    `dynamodbav:"patientId" json:"patientId"`
	DoctorID      string    `dynamodbav:"doctorId" json:"doctorId"`
	DepartmentID  string    `dynamodbav:"departmentId" json:"departmentId"`
	Date          string    `dynamodbav:"date" json:"date"`
	Time          string    `dynamodbav:"time" json:"time"`
	Reason        string    `dynamodbav:"reason,omitempty" json:"reason,omitempty"`
	Symptoms      string    `dynamodbav:"symptoms,omitempty" json:"symptoms,omitempty"`
	Status        Status    `dynamodbav:"status" json:"status"`
	BaseFee       int       `dynamodbav:"baseFee" json:"baseFee"`
	DoctorFee     int       `dynamodbav:"doctorFee" json:"doctorFee"`
	DepartmentFee int       `dynamodbav:"departmentFee" json:"departmentFee"`
	TotalFee      int       `dynamodbav:"totalFee" json:"totalFee"`
	PaymentStatus string    `dynamodbav:"paymentStatus" json:"paymentStatus"`
	CreatedAt     time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

var (
	ErrInvalidStatus       = errors.New("appointments: invalid status")
	ErrInvalidTransition   = errors.New("appointments: invalid status transition")
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")
)
