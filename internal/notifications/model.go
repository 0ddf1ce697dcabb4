package notifications

import (
	"errors"
	"time"
)

// Notification is one per-user notification document.
type Notification struct {
	ID        string    `dynamodbav:"id" json:"id"`
	UserID    string    `dynamodbav:"userId" json:"userId"`
	Title     string    `dynamodbav:"title" json:"title"`
	Body      string    `dynamodbav:"body" json:"body"`
	Kind      string    `dynamodbav:"kind" json:"kind"`
	Read      bool      `dynamodbav:"read" json:"read"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
}

var ErrNotificationNotFound = errors.New("notifications: notification not found")
