// Package assistant turns free-text patient messages into booking actions.
// An LLM classifies each message into an intent and extracts the booking
// phrases; the actual scheduling goes through the same booking workflow the
// form endpoints use.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/booking"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Intent is what the patient is asking the assistant to do.
type Intent string

const (
	IntentBookAppointment  Intent = "book_appointment"
	IntentScheduleLabTests Intent = "schedule_lab_tests"
	IntentQuestion         Intent = "question"
)

type booker interface {
	BookAppointment(ctx context.Context, req booking.AppointmentRequest) (*appointments.Appointment, error)
	ScheduleLabTests(ctx context.Context, req booking.LabOrderRequest) (*labtests.Order, error)
}

type doctorLister interface {
	List(ctx context.Context, departmentID string) ([]*doctors.Doctor, error)
}

type catalogLister interface {
	List(ctx context.Context) ([]*labtests.Test, error)
}

// Reply is the assistant's answer to one patient message.
type Reply struct {
	Intent      Intent                    `json:"intent"`
	Message     string                    `json:"message"`
	Appointment *appointments.Appointment `json:"appointment,omitempty"`
	LabOrder    *labtests.Order           `json:"labOrder,omitempty"`
}

// Service drives the booking assistant. It never writes to stores itself;
// all scheduling flows through the booking service.
type Service struct {
	llm     LLMClient
	booking booker
	doctors doctorLister
	catalog catalogLister
	model   string
	logger  *logging.Logger
}

func NewService(llm LLMClient, bookingSvc booker, doctorStore doctorLister, catalog catalogLister, model string, logger *logging.Logger) *Service {
	if llm == nil {
		panic("assistant: llm client cannot be nil")
	}
	if bookingSvc == nil {
		panic("assistant: booking service cannot be nil")
	}
	if doctorStore == nil {
		panic("assistant: doctor store cannot be nil")
	}
	if catalog == nil {
		panic("assistant: lab test catalog cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		llm:     llm,
		booking: bookingSvc,
		doctors: doctorStore,
		catalog: catalog,
		model:   model,
		logger:  logger,
	}
}

const extractionPrompt = `You are the booking assistant of a hospital. Classify the patient's
message into ONE intent and extract the booking details. Respond with JSON only.

Intents:
- book_appointment: the patient wants to see a doctor
- schedule_lab_tests: the patient wants lab tests done
- question: anything else

Doctors available: %s
Lab tests available: %s

Patient message: %s

Respond with:
{"intent": "<intent>", "doctor": "<doctor name or empty>", "date": "<date phrase or empty>", "time": "<time phrase or empty>", "reason": "<visit reason or empty>", "symptoms": "<symptoms or empty>", "tests": ["<lab test names>"]}`

const answerSystemPrompt = `You are the front-desk assistant of a hospital. Answer the patient's
question briefly and helpfully. You can book appointments with the listed
doctors and schedule the listed lab tests if the patient asks. Do not give
medical advice; suggest booking an appointment instead.`

type extraction struct {
	Intent   string   `json:"intent"`
	Doctor   string   `json:"doctor"`
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Reason   string   `json:"reason"`
	Symptoms string   `json:"symptoms"`
	Tests    []string `json:"tests"`
}

// HandleMessage classifies one patient message and executes the resulting
// action. Booking errors from the underlying workflow propagate unchanged so
// the handler can map them.
func (s *Service) HandleMessage(ctx context.Context, patientEmail, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return &Reply{Intent: IntentQuestion, Message: "How can I help you today?"}, nil
	}

	roster, err := s.doctors.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to list doctors: %w", err)
	}
	tests, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("assistant: failed to list lab tests: %w", err)
	}

	ext, err := s.extract(ctx, message, roster, tests)
	if err != nil {
		return nil, err
	}

	switch Intent(ext.Intent) {
	case IntentBookAppointment:
		return s.bookAppointment(ctx, patientEmail, ext, roster)
	case IntentScheduleLabTests:
		return s.scheduleLabTests(ctx, patientEmail, ext, tests)
	default:
		return s.answer(ctx, message, roster, tests)
	}
}

func (s *Service) extract(ctx context.Context, message string, roster []*doctors.Doctor, tests []*labtests.Test) (extraction, error) {
	names := make([]string, 0, len(roster))
	for _, d := range roster {
		names = append(names, d.Name)
	}
	testNames := make([]string, 0, len(tests))
	for _, t := range tests {
		testNames = append(testNames, t.Name)
	}

	prompt := fmt.Sprintf(extractionPrompt,
		strings.Join(names, ", "),
		strings.Join(testNames, ", "),
		message,
	)

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model:    s.model,
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		// Extraction parses into a fixed schema; keep it deterministic.
		Temperature: 0,
		MaxTokens:   300,
	})
	if err != nil {
		return extraction{}, fmt.Errorf("assistant: intent extraction failed: %w", err)
	}

	var ext extraction
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &ext); err != nil {
		s.logger.Warn("unparseable extraction, treating as question", "error", err)
		return extraction{Intent: string(IntentQuestion)}, nil
	}
	return ext, nil
}

func (s *Service) bookAppointment(ctx context.Context, patientEmail string, ext extraction, roster []*doctors.Doctor) (*Reply, error) {
	doctor := matchDoctor(ext.Doctor, roster)
	if doctor == nil {
		names := make([]string, 0, len(roster))
		for _, d := range roster {
			names = append(names, d.Name)
		}
		return &Reply{
			Intent:  IntentBookAppointment,
			Message: fmt.Sprintf("Which doctor would you like to see? Available: %s.", strings.Join(names, ", ")),
		}, nil
	}

	appt, err := s.booking.BookAppointment(ctx, booking.AppointmentRequest{
		PatientEmail: patientEmail,
		DoctorID:     doctor.ID,
		DatePhrase:   ext.Date,
		TimePhrase:   ext.Time,
		Reason:       ext.Reason,
		Symptoms:     ext.Symptoms,
	})
	if err != nil {
		return nil, err
	}

	return &Reply{
		Intent:      IntentBookAppointment,
		Message:     fmt.Sprintf("Booked with %s on %s at %s. Total fee: %d.", doctor.Name, appt.Date, appt.Time, appt.TotalFee),
		Appointment: appt,
	}, nil
}

func (s *Service) scheduleLabTests(ctx context.Context, patientEmail string, ext extraction, tests []*labtests.Test) (*Reply, error) {
	ids := matchTests(ext.Tests, tests)
	if len(ids) == 0 {
		names := make([]string, 0, len(tests))
		for _, t := range tests {
			names = append(names, t.Name)
		}
		return &Reply{
			Intent:  IntentScheduleLabTests,
			Message: fmt.Sprintf("Which tests would you like? Available: %s.", strings.Join(names, ", ")),
		}, nil
	}

	order, err := s.booking.ScheduleLabTests(ctx, booking.LabOrderRequest{
		PatientEmail: patientEmail,
		TestIDs:      ids,
		DatePhrase:   ext.Date,
		TimePhrase:   ext.Time,
	})
	if err != nil {
		return nil, err
	}

	return &Reply{
		Intent:   IntentScheduleLabTests,
		Message:  fmt.Sprintf("Scheduled %d test(s) on %s at %s. Total: %d.", len(order.Items), order.Date, order.Time, order.TotalPrice),
		LabOrder: order,
	}, nil
}

func (s *Service) answer(ctx context.Context, message string, roster []*doctors.Doctor, tests []*labtests.Test) (*Reply, error) {
	names := make([]string, 0, len(roster))
	for _, d := range roster {
		names = append(names, d.Name)
	}
	testNames := make([]string, 0, len(tests))
	for _, t := range tests {
		testNames = append(testNames, t.Name)
	}

	resp, err := s.llm.Complete(ctx, LLMRequest{
		Model: s.model,
		System: []string{
			answerSystemPrompt,
			fmt.Sprintf("Doctors: %s. Lab tests: %s.", strings.Join(names, ", "), strings.Join(testNames, ", ")),
		},
		Messages: []ChatMessage{{Role: ChatRoleUser, Content: message}},
		// Free-form answers use the provider's default sampling.
		Temperature: -1,
		MaxTokens:   500,
	})
	if err != nil {
		return nil, fmt.Errorf("assistant: answer failed: %w", err)
	}

	return &Reply{Intent: IntentQuestion, Message: resp.Text}, nil
}

// matchDoctor resolves an extracted name against the roster. Matching is
// case-insensitive and tolerates partial names ("dr. khan" matches
// "Dr. Ayesha Khan").
func matchDoctor(name string, roster []*doctors.Doctor) *doctors.Doctor {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil
	}
	for _, d := range roster {
		full := strings.ToLower(d.Name)
		if full == name || strings.Contains(full, name) || strings.Contains(name, full) {
			return d
		}
	}
	return nil
}

func matchTests(wanted []string, tests []*labtests.Test) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, w := range wanted {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		for _, t := range tests {
			full := strings.ToLower(t.Name)
			if full == w || strings.Contains(full, w) || strings.Contains(w, full) {
				if !seen[t.ID] {
					seen[t.ID] = true
					ids = append(ids, t.ID)
				}
				break
			}
		}
	}
	return ids
}

// extractJSON trims any prose the model wrapped around the JSON object.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}
