package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type fakeRoster struct{ byEmail map[string]*doctors.Doctor }

func (f *fakeRoster) GetByEmail(_ context.Context, email string) (*doctors.Doctor, error) {
	if d, ok := f.byEmail[email]; ok {
		return d, nil
	}
	return nil, doctors.ErrDoctorNotFound
}

func newTestHandler(mock *mockDynamo, roster doctorDirectory) *Handler {
	logger := logging.Default()
	store := NewStore(mock, "appointments", logger)
	publisher := events.NewPublisher(events.NewMemoryQueue(4), logger)
	return NewHandler(store, roster, publisher, logger)
}

func doList(h http.HandlerFunc, sess session.Session) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/appointments", nil)
	req = req.WithContext(session.WithSession(req.Context(), sess))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func scanFilterValue(t *testing.T, mock *mockDynamo) string {
	t.Helper()
	if mock.scanInput == nil {
		t.Fatal("expected a scan")
	}
	v, ok := mock.scanInput.ExpressionAttributeValues[":v"].(*types.AttributeValueMemberS)
	if !ok {
		t.Fatalf("unexpected filter values: %+v", mock.scanInput.ExpressionAttributeValues)
	}
	return v.Value
}

func TestHandler_ListMineKeysOnSessionUser(t *testing.T) {
	item, _ := attributevalue.MarshalMap(Appointment{
		ID: "appt-1", PatientID: "user-1", DoctorID: "doc-1",
		Status: StatusScheduled, Date: "2026-03-10", Time: "10:00",
	})
	mock := &mockDynamo{scanItems: []map[string]types.AttributeValue{item}}
	h := newTestHandler(mock, &fakeRoster{})

	rec := doList(h.ListMine, session.Session{UserID: "user-1", Email: "sana@example.com", Role: session.RolePatient})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	// Profiles share the account ID, so filtering by the session user
	// finds appointments booked against the profile.
	if got := scanFilterValue(t, mock); got != "user-1" {
		t.Fatalf("listed by %q, want the session user ID", got)
	}

	var resp struct {
		Appointments []*Appointment `json:"appointments"`
		Count        int            `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Appointments[0].ID != "appt-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandler_ListForDoctorResolvesRecordByEmail(t *testing.T) {
	item, _ := attributevalue.MarshalMap(Appointment{
		ID: "appt-1", PatientID: "user-1", DoctorID: "doc-7",
		Status: StatusScheduled, Date: "2026-03-10", Time: "10:00",
	})
	mock := &mockDynamo{scanItems: []map[string]types.AttributeValue{item}}
	roster := &fakeRoster{byEmail: map[string]*doctors.Doctor{
		"ayesha@carecoord.example": {ID: "doc-7", Email: "ayesha@carecoord.example"},
	}}
	h := newTestHandler(mock, roster)

	// The session carries the account ID, not the doctor record ID.
	sess := session.Session{UserID: "user-9", Email: "ayesha@carecoord.example", Role: session.RoleDoctor}
	rec := doList(h.ListForDoctor, sess)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := scanFilterValue(t, mock); got != "doc-7" {
		t.Fatalf("listed by %q, want the resolved record ID doc-7", got)
	}
}

func TestHandler_ListForDoctorWithoutRecord(t *testing.T) {
	h := newTestHandler(&mockDynamo{}, &fakeRoster{})

	sess := session.Session{UserID: "user-9", Email: "nobody@carecoord.example", Role: session.RoleDoctor}
	rec := doList(h.ListForDoctor, sess)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an account with no doctor record, got %d", rec.Code)
	}
}
