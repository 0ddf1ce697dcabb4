// Package events defines the booking event contracts and the queue plumbing
// that carries them from the API to the notification worker.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind tags the payload carried by an Envelope.
type Kind string

const (
	KindAppointmentBooked        Kind = "appointment_booked.v1"
	KindLabTestScheduled         Kind = "lab_test_scheduled.v1"
	KindAppointmentStatusChanged Kind = "appointment_status_changed.v1"
	KindLabResultReady           Kind = "lab_result_ready.v1"
)

// Queue abstracts the transport between publisher and worker. SQS in
// deployment, an in-process channel in local runs and tests.
type Queue interface {
	Send(ctx context.Context, body string) error
	Receive(ctx context.Context, maxMessages int, waitSeconds int) ([]Message, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Message is a received queue message.
type Message struct {
	ID            string
	Body          string
	ReceiptHandle string
}

// Envelope wraps exactly one event payload for transport.
type Envelope struct {
	ID                string                      `json:"id"`
	Kind              Kind                        `json:"kind"`
	AppointmentBooked *AppointmentBookedV1        `json:"appointment_booked,omitempty"`
	LabTestScheduled  *LabTestScheduledV1         `json:"lab_test_scheduled,omitempty"`
	StatusChanged     *AppointmentStatusChangedV1 `json:"status_changed,omitempty"`
	LabResultReady    *LabResultReadyV1           `json:"lab_result_ready,omitempty"`
}

func encodeEnvelope(env Envelope) (Envelope, string, error) {
	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	body, err := json.Marshal(env)
	if err != nil {
		return Envelope{}, "", fmt.Errorf("events: failed to encode envelope: %w", err)
	}
	return env, string(body), nil
}

// DecodeEnvelope parses a queue message body back into an Envelope.
func DecodeEnvelope(body string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return Envelope{}, fmt.Errorf("events: failed to decode envelope: %w", err)
	}
	return env, nil
}
