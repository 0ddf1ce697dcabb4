package notify

import (
	"context"
	"testing"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "noreply@carecoord.test"}, nil)
	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_FromName(t *testing.T) {
	cases := []struct {
		name     string
		fromName string
		want     string
	}{
		{"defaults when empty", "", "CareCoord"},
		{"keeps configured name", "City Hospital", "City Hospital"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := NewSendGridSender(SendGridConfig{
				APIKey:    "test-key",
				FromEmail: "noreply@carecoord.test",
				FromName:  tc.fromName,
			}, nil)
			if sender == nil {
				t.Fatal("expected non-nil sender")
			}
			if sender.from.Name != tc.want {
				t.Errorf("from name = %q, want %q", sender.from.Name, tc.want)
			}
		})
	}
}

func TestSendGridSender_SendNilClient(t *testing.T) {
	sender := &SendGridSender{}
	err := sender.Send(context.Background(), EmailMessage{
		To:      "patient@example.com",
		Subject: "Appointment confirmed",
		Body:    "See you tomorrow.",
	})
	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestNewSESSender_NilWithoutClient(t *testing.T) {
	if sender := NewSESSender(nil, SESConfig{FromEmail: "noreply@carecoord.test"}, nil); sender != nil {
		t.Error("expected nil sender when SES client is missing")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)
	err := sender.Send(context.Background(), EmailMessage{
		To:      "patient@example.com",
		Subject: "Lab results ready",
		Body:    "Your results are available.",
	})
	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}
