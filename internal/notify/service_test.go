package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type mockEmailSender struct {
	sent    []EmailMessage
	callErr error
}

func (m *mockEmailSender) Send(_ context.Context, msg EmailMessage) error {
	if m.callErr != nil {
		return m.callErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func TestAppointmentBookedMessage(t *testing.T) {
	msg := AppointmentBookedMessage(events.AppointmentBookedV1{
		PatientEmail: "sana@example.com",
		PatientName:  "Sana Malik",
		DoctorName:   "Dr. Ayesha Khan",
		Date:         "2026-03-10",
		Time:         "14:00",
		TotalFee:     1380,
	})

	if msg.To != "sana@example.com" {
		t.Errorf("to = %q", msg.To)
	}
	if !strings.Contains(msg.Subject, "2026-03-10") {
		t.Errorf("subject missing date: %q", msg.Subject)
	}
	for _, want := range []string{"Sana Malik", "Dr. Ayesha Khan", "14:00", "1380"} {
		if !strings.Contains(msg.Body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestLabTestScheduledMessage_ListsTests(t *testing.T) {
	msg := LabTestScheduledMessage(events.LabTestScheduledV1{
		PatientEmail: "sana@example.com",
		TestNames:    []string{"CBC", "Lipid Profile"},
		Date:         "2026-03-11",
		Time:         "09:00",
		TotalFee:     2300,
	})
	if !strings.Contains(msg.Body, "CBC, Lipid Profile") {
		t.Errorf("body missing test names: %q", msg.Body)
	}
}

func TestService_SendIfPossible(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, logging.Default())

	svc.SendIfPossible(context.Background(), EmailMessage{To: "sana@example.com", Subject: "hi"})
	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 send, got %d", len(sender.sent))
	}

	// Missing recipient is skipped.
	svc.SendIfPossible(context.Background(), EmailMessage{Subject: "orphan"})
	if len(sender.sent) != 1 {
		t.Fatal("message without recipient must not be sent")
	}
}

func TestService_SendIfPossibleSwallowsErrors(t *testing.T) {
	sender := &mockEmailSender{callErr: errors.New("smtp down")}
	svc := NewService(sender, logging.Default())
	svc.SendIfPossible(context.Background(), EmailMessage{To: "sana@example.com"})
}

func TestService_NilSenderIsSafe(t *testing.T) {
	svc := NewService(nil, logging.Default())
	svc.SendIfPossible(context.Background(), EmailMessage{To: "sana@example.com"})
}
