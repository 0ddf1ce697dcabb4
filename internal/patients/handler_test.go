package patients

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

func TestHandler_RegisterBindsSessionIdentity(t *testing.T) {
	mock := &mockDynamo{}
	h := NewHandler(NewStore(mock, "patients", logging.Default()), logging.Default())

	// The body claims a different email; the profile must carry the
	// session's identity so later reads keyed by account resolve to it.
	body := strings.NewReader(`{"email":"someone-else@example.com","name":"Sana Malik","phone":"+92-300-1234567"}`)
	req := httptest.NewRequest(http.MethodPost, "/patients/register", body)
	req = req.WithContext(session.WithSession(req.Context(), session.Session{
		UserID: "user-1", Email: "sana@example.com", Role: session.RolePatient,
	}))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(mock.putInputs) != 1 {
		t.Fatalf("expected 1 PutItem call, got %d", len(mock.putInputs))
	}
	var stored Patient
	if err := attributevalue.UnmarshalMap(mock.putInputs[0].Item, &stored); err != nil {
		t.Fatal(err)
	}
	if stored.ID != "user-1" {
		t.Errorf("profile ID = %q, want the account ID", stored.ID)
	}
	if stored.Email != "sana@example.com" {
		t.Errorf("profile email = %q, want the session email", stored.Email)
	}
}

func TestHandler_RegisterRequiresSession(t *testing.T) {
	mock := &mockDynamo{}
	h := NewHandler(NewStore(mock, "patients", logging.Default()), logging.Default())

	req := httptest.NewRequest(http.MethodPost, "/patients/register", strings.NewReader(`{"name":"X","email":"x@y.z"}`))
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session, got %d", rec.Code)
	}
	if len(mock.putInputs) != 0 {
		t.Fatal("unauthenticated registration must not write")
	}
}
