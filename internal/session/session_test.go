package session

import (
	"context"
	"testing"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"patient", RolePatient},
		{"doctor", RoleDoctor},
		{"lab-operator", RoleLabOperator},
		{"admin", RoleAdmin},
		{"superuser", RoleAnonymous},
		{"", RoleAnonymous},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.in); got != tc.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	s := Session{UserID: "u-1", Email: "pat@example.com", Role: RolePatient}
	ctx := WithSession(context.Background(), s)

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected session in context")
	}
	if got.Email != "pat@example.com" || got.Role != RolePatient {
		t.Errorf("unexpected session: %+v", got)
	}
}

func TestFromContextMissing(t *testing.T) {
	got, ok := FromContext(context.Background())
	if ok {
		t.Error("expected no session")
	}
	if got.Role != RoleAnonymous {
		t.Errorf("missing session should be anonymous, got %q", got.Role)
	}
}

func TestAnonymousSessionNotAuthenticated(t *testing.T) {
	ctx := WithSession(context.Background(), Anonymous)
	if _, ok := FromContext(ctx); ok {
		t.Error("anonymous session must not count as authenticated")
	}
}
