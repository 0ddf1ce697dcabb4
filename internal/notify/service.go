package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Service composes and sends patient-facing emails for booking events.
// Sending is best-effort: the notification document is the source of truth
// and a failed email never fails the worker's write.
type Service struct {
	email  EmailSender
	logger *logging.Logger
}

func NewService(email EmailSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{email: email, logger: logger}
}

// AppointmentBookedMessage builds the confirmation email for a booked
// appointment.
func AppointmentBookedMessage(ev events.AppointmentBookedV1) EmailMessage {
	name := ev.PatientName
	if name == "" {
		name = "there"
	}
	doctor := ev.DoctorName
	if doctor == "" {
		doctor = "your doctor"
	}
	return EmailMessage{
		To:      ev.PatientEmail,
		ToName:  ev.PatientName,
		Subject: fmt.Sprintf("Appointment confirmed for %s at %s", ev.Date, ev.Time),
		Body: fmt.Sprintf(`Hi %s,

Your appointment with %s is confirmed.

Date: %s
Time: %s
Total fee: %d (paid)

If you need to change this appointment, please contact the hospital desk.

— CareCoord`, name, doctor, ev.Date, ev.Time, ev.TotalFee),
	}
}

// LabTestScheduledMessage builds the confirmation email for a scheduled
// lab visit.
func LabTestScheduledMessage(ev events.LabTestScheduledV1) EmailMessage {
	name := ev.PatientName
	if name == "" {
		name = "there"
	}
	tests := strings.Join(ev.TestNames, ", ")
	if tests == "" {
		tests = fmt.Sprintf("%d test(s)", len(ev.TestIDs))
	}
	return EmailMessage{
		To:      ev.PatientEmail,
		ToName:  ev.PatientName,
		Subject: fmt.Sprintf("Lab tests scheduled for %s at %s", ev.Date, ev.Time),
		Body: fmt.Sprintf(`Hi %s,

Your lab tests are scheduled.

Tests: %s
Date: %s
Time: %s
Total: %d (paid)

Please arrive 10 minutes early and bring a photo ID.

— CareCoord`, name, tests, ev.Date, ev.Time, ev.TotalFee),
	}
}

// StatusChangedMessage builds the email for an appointment status change.
func StatusChangedMessage(ev events.AppointmentStatusChangedV1) EmailMessage {
	return EmailMessage{
		To:      ev.PatientEmail,
		Subject: fmt.Sprintf("Appointment %s", ev.NewStatus),
		Body: fmt.Sprintf(`Your appointment status changed from %s to %s.

If this is unexpected, please contact the hospital desk.

— CareCoord`, ev.OldStatus, ev.NewStatus),
	}
}

// LabResultReadyMessage builds the email telling a patient their results
// are available.
func LabResultReadyMessage(ev events.LabResultReadyV1) EmailMessage {
	return EmailMessage{
		To:      ev.PatientEmail,
		Subject: "Your lab results are ready",
		Body: `Your lab results are ready. Sign in to CareCoord to view them.

— CareCoord`,
	}
}

// SendIfPossible sends msg when a recipient address is present. A missing
// address or a send failure is logged and swallowed.
func (s *Service) SendIfPossible(ctx context.Context, msg EmailMessage) {
	if s.email == nil || msg.To == "" {
		return
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("notification email failed", "to", msg.To, "subject", msg.Subject, "error", err)
	}
}
