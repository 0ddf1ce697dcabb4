package labtests

import (
	"errors"
	"time"
)

// Status is the lab order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// CanTransition reports whether from may move to to. Pending orders
// complete or cancel; both end states are terminal.
func CanTransition(from, to Status) bool {
	if from != StatusPending {
		return false
	}
	return to == StatusCompleted || to == StatusCancelled
}

// Test is a catalog entry from the available-tests collection.
type Test struct {
	ID          string `dynamodbav:"id" json:"id"`
	Name        string `dynamodbav:"name" json:"name"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Price       int    `dynamodbav:"price" json:"price"`
}

// OrderItem is one selected test frozen into an order at scheduling time.
// Name and price are copied so later catalog edits do not rewrite history.
type OrderItem struct {
	TestID string `dynamodbav:"testId" json:"testId"`
	Name   string `dynamodbav:"name" json:"name"`
	Price  int    `dynamodbav:"price" json:"price"`
}

// Results holds the operator's findings once an order completes.
type Results struct {
	Summary   string `dynamodbav:"summary" json:"summary"`
	ReportKey string `dynamodbav:"reportKey,omitempty" json:"reportKey,omitempty"`
}

// Order is one scheduled lab visit covering one or more tests.
type Order struct {
	ID            string      `dynamodbav:"id" json:"id"`
	PatientID     string      `dynamodbav:"patientId" json:"patientId"`
	Items         []OrderItem `dynamodbav:"items" json:"items"`
	Date          string      `dynamodbav:"date" json:"date"`
	Time          string      `dynamodbav:"time" json:"time"`
	TotalPrice    int         `dynamodbav:"totalPrice" json:"totalPrice"`
	Status        Status      `dynamodbav:"status" json:"status"`
	PaymentStatus string      `dynamodbav:"paymentStatus" json:"paymentStatus"`
	Results       *Results    `dynamodbav:"results,omitempty" json:"results,omitempty"`
	CreatedAt     time.Time   `dynamodbav:"createdAt" json:"createdAt"`
}

var (
	ErrOrderNotFound     = errors.New("labtests: order not found")
	ErrTestNotFound      = errors.New("labtests: test not found")
	ErrInvalidTransition = errors.New("labtests: invalid status transition")
	ErrMissingSummary    = errors.New("labtests: result summary is required")
)
