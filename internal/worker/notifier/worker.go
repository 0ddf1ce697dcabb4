// Package notifier consumes booking events from the queue, writes
// per-user notification documents, and sends the matching emails.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/notifications"
	"github.com/huzaifaahmed2004/care-coord/internal/notify"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

const (
	defaultWorkerCount      = 2
	defaultReceiveWaitSecs  = 10
	defaultReceiveBatchSize = 5
	maxReceiveBatchSize     = 10
	deleteTimeoutSeconds    = 5
)

type notificationWriter interface {
	Add(ctx context.Context, n *notifications.Notification) (*notifications.Notification, error)
}

type snapshotRefresher interface {
	Refresh(ctx context.Context, userID string)
}

// Worker drains the booking event queue. Each event becomes one
// notification document; email delivery is best-effort on top.
type Worker struct {
	queue  events.Queue
	store  notificationWriter
	hub    snapshotRefresher
	mailer *notify.Service
	logger *logging.Logger
	cfg    workerConfig
	wg     sync.WaitGroup
}

type workerConfig struct {
	workers          int
	receiveWaitSecs  int
	receiveBatchSize int
}

type WorkerOption func(*workerConfig)

// WithWorkerCount sets the number of concurrent consumer goroutines.
func WithWorkerCount(count int) WorkerOption {
	return func(cfg *workerConfig) {
		if count > 0 {
			cfg.workers = count
		}
	}
}

// WithReceiveWaitSeconds sets the queue long-poll wait duration.
func WithReceiveWaitSeconds(seconds int) WorkerOption {
	return func(cfg *workerConfig) {
		if seconds >= 0 {
			cfg.receiveWaitSecs = seconds
		}
	}
}

// WithReceiveBatchSize sets how many messages to fetch per poll.
func WithReceiveBatchSize(size int) WorkerOption {
	return func(cfg *workerConfig) {
		if size > 0 {
			cfg.receiveBatchSize = size
		}
		if size > maxReceiveBatchSize {
			cfg.receiveBatchSize = maxReceiveBatchSize
		}
	}
}

func NewWorker(queue events.Queue, store notificationWriter, hub snapshotRefresher, mailer *notify.Service, logger *logging.Logger, opts ...WorkerOption) *Worker {
	if queue == nil {
		panic("notifier: queue cannot be nil")
	}
	if store == nil {
		panic("notifier: notification store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	cfg := workerConfig{
		workers:          defaultWorkerCount,
		receiveWaitSecs:  defaultReceiveWaitSecs,
		receiveBatchSize: defaultReceiveBatchSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Worker{
		queue:  queue,
		store:  store,
		hub:    hub,
		mailer: mailer,
		logger: logger,
		cfg:    cfg,
	}
}

// Start launches worker goroutines until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	for i := 0; i < w.cfg.workers; i++ {
		w.wg.Add(1)
		go w.run(ctx, i+1)
	}
}

// Wait blocks until all worker goroutines exit.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) run(ctx context.Context, workerID int) {
	defer w.wg.Done()
	w.logger.Debug("notifier worker started", "worker_id", workerID)

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("notifier worker stopping", "worker_id", workerID)
			return
		default:
		}

		messages, err := w.queue.Receive(ctx, w.cfg.receiveBatchSize, w.cfg.receiveWaitSecs)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.logger.Error("failed to receive booking events", "error", err, "worker_id", workerID)
			time.Sleep(backoff)
			if backoff < 5*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		for _, msg := range messages {
			w.handleMessage(ctx, msg)
		}
	}
}

func (w *Worker) handleMessage(ctx context.Context, msg events.Message) {
	env, err := events.DecodeEnvelope(msg.Body)
	if err != nil {
		w.logger.Error("failed to decode booking event", "error", err, "msg_id", msg.ID)
		w.deleteMessage(context.Background(), msg.ReceiptHandle)
		return
	}

	w.logger.Info("processing booking event", "event_id", env.ID, "kind", string(env.Kind), "msg_id", msg.ID)

	if err := w.process(ctx, env); err != nil {
		// Leave the message for queue redelivery.
		w.logger.Error("failed to process booking event", "event_id", env.ID, "kind", string(env.Kind), "error", err)
		return
	}
	w.deleteMessage(context.Background(), msg.ReceiptHandle)
}

func (w *Worker) process(ctx context.Context, env events.Envelope) error {
	switch env.Kind {
	case events.KindAppointmentBooked:
		if env.AppointmentBooked == nil {
			return fmt.Errorf("notifier: envelope %s missing payload", env.ID)
		}
		return w.appointmentBooked(ctx, *env.AppointmentBooked)
	case events.KindLabTestScheduled:
		if env.LabTestScheduled == nil {
			return fmt.Errorf("notifier: envelope %s missing payload", env.ID)
		}
		return w.labTestScheduled(ctx, *env.LabTestScheduled)
	case events.KindAppointmentStatusChanged:
		if env.StatusChanged == nil {
			return fmt.Errorf("notifier: envelope %s missing payload", env.ID)
		}
		return w.statusChanged(ctx, *env.StatusChanged)
	case events.KindLabResultReady:
		if env.LabResultReady == nil {
			return fmt.Errorf("notifier: envelope %s missing payload", env.ID)
		}
		return w.labResultReady(ctx, *env.LabResultReady)
	default:
		w.logger.Warn("dropping event of unknown kind", "event_id", env.ID, "kind", string(env.Kind))
		return nil
	}
}

func (w *Worker) appointmentBooked(ctx context.Context, ev events.AppointmentBookedV1) error {
	_, err := w.store.Add(ctx, &notifications.Notification{
		UserID: ev.PatientID,
		Title:  "Appointment confirmed",
		Body:   fmt.Sprintf("Your appointment on %s at %s is confirmed.", ev.Date, ev.Time),
		Kind:   string(events.KindAppointmentBooked),
	})
	if err != nil {
		return err
	}
	w.refresh(ctx, ev.PatientID)
	w.sendMail(ctx, notify.AppointmentBookedMessage(ev))
	return nil
}

func (w *Worker) labTestScheduled(ctx context.Context, ev events.LabTestScheduledV1) error {
	_, err := w.store.Add(ctx, &notifications.Notification{
		UserID: ev.PatientID,
		Title:  "Lab tests scheduled",
		Body:   fmt.Sprintf("Your lab visit on %s at %s is scheduled.", ev.Date, ev.Time),
		Kind:   string(events.KindLabTestScheduled),
	})
	if err != nil {
		return err
	}
	w.refresh(ctx, ev.PatientID)
	w.sendMail(ctx, notify.LabTestScheduledMessage(ev))
	return nil
}

func (w *Worker) statusChanged(ctx context.Context, ev events.AppointmentStatusChangedV1) error {
	_, err := w.store.Add(ctx, &notifications.Notification{
		UserID: ev.PatientID,
		Title:  fmt.Sprintf("Appointment %s", ev.NewStatus),
		Body:   fmt.Sprintf("Your appointment status changed from %s to %s.", ev.OldStatus, ev.NewStatus),
		Kind:   string(events.KindAppointmentStatusChanged),
	})
	if err != nil {
		return err
	}
	w.refresh(ctx, ev.PatientID)
	w.sendMail(ctx, notify.StatusChangedMessage(ev))
	return nil
}

func (w *Worker) labResultReady(ctx context.Context, ev events.LabResultReadyV1) error {
	_, err := w.store.Add(ctx, &notifications.Notification{
		UserID: ev.PatientID,
		Title:  "Lab results ready",
		Body:   "Your lab results are ready to view.",
		Kind:   string(events.KindLabResultReady),
	})
	if err != nil {
		return err
	}
	w.refresh(ctx, ev.PatientID)
	w.sendMail(ctx, notify.LabResultReadyMessage(ev))
	return nil
}

func (w *Worker) refresh(ctx context.Context, userID string) {
	if w.hub != nil {
		w.hub.Refresh(ctx, userID)
	}
}

func (w *Worker) sendMail(ctx context.Context, msg notify.EmailMessage) {
	if w.mailer != nil {
		w.mailer.SendIfPossible(ctx, msg)
	}
}

func (w *Worker) deleteMessage(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}

	deleteCtx, cancel := context.WithTimeout(ctx, deleteTimeoutSeconds*time.Second)
	defer cancel()

	if err := w.queue.Delete(deleteCtx, receiptHandle); err != nil {
		w.logger.Error("failed to delete booking event", "error", err)
	}
}
