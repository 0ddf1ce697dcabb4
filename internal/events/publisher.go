package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Publisher wraps a Queue with typed publish methods. A failed publish is
// logged and swallowed so booking writes never roll back on queue trouble.
type Publisher struct {
	queue  Queue
	logger *logging.Logger
}

func NewPublisher(queue Queue, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("events: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{queue: queue, logger: logger}
}

func (p *Publisher) AppointmentBooked(ctx context.Context, ev AppointmentBookedV1) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.BookedAt.IsZero() {
		ev.BookedAt = time.Now().UTC()
	}
	p.send(ctx, Envelope{Kind: KindAppointmentBooked, AppointmentBooked: &ev})
}

func (p *Publisher) LabTestScheduled(ctx context.Context, ev LabTestScheduledV1) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.ScheduledAt.IsZero() {
		ev.ScheduledAt = time.Now().UTC()
	}
	p.send(ctx, Envelope{Kind: KindLabTestScheduled, LabTestScheduled: &ev})
}

func (p *Publisher) AppointmentStatusChanged(ctx context.Context, ev AppointmentStatusChangedV1) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.ChangedAt.IsZero() {
		ev.ChangedAt = time.Now().UTC()
	}
	p.send(ctx, Envelope{Kind: KindAppointmentStatusChanged, StatusChanged: &ev})
}

func (p *Publisher) LabResultReady(ctx context.Context, ev LabResultReadyV1) {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.CompletedAt.IsZero() {
		ev.CompletedAt = time.Now().UTC()
	}
	p.send(ctx, Envelope{Kind: KindLabResultReady, LabResultReady: &ev})
}

func (p *Publisher) send(ctx context.Context, env Envelope) {
	env, body, err := encodeEnvelope(env)
	if err != nil {
		p.logger.Error("failed to encode event", "kind", string(env.Kind), "error", err)
		return
	}
	if err := p.queue.Send(ctx, body); err != nil {
		p.logger.Error("failed to publish event", "kind", string(env.Kind), "event_id", env.ID, "error", err)
	}
}
