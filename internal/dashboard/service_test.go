package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

var testNow = time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

type fakeAppointments struct {
	byPatient    []*appointments.Appointment
	byDoctor     []*appointments.Appointment
	all          []*appointments.Appointment
	doctorIDSeen string
}

func (f *fakeAppointments) ListByPatient(_ context.Context, _ string) ([]*appointments.Appointment, error) {
	return f.byPatient, nil
}

func (f *fakeAppointments) ListByDoctor(_ context.Context, doctorID string) ([]*appointments.Appointment, error) {
	f.doctorIDSeen = doctorID
	return f.byDoctor, nil
}

func (f *fakeAppointments) List(_ context.Context) ([]*appointments.Appointment, error) {
	return f.all, nil
}

type fakeLabOrders struct {
	byPatient []*labtests.Order
	pending   []*labtests.Order
}

func (f *fakeLabOrders) ListByPatient(_ context.Context, _ string) ([]*labtests.Order, error) {
	return f.byPatient, nil
}

func (f *fakeLabOrders) ListPending(_ context.Context) ([]*labtests.Order, error) {
	return f.pending, nil
}

type fakeDoctors struct{ list []*doctors.Doctor }

func (f *fakeDoctors) GetByEmail(_ context.Context, email string) (*doctors.Doctor, error) {
	for _, d := range f.list {
		if d.Email == email {
			return d, nil
		}
	}
	return nil, doctors.ErrDoctorNotFound
}

func (f *fakeDoctors) List(_ context.Context, _ string) ([]*doctors.Doctor, error) {
	return f.list, nil
}

type fakeDepartments struct{ list []*departments.Department }

func (f *fakeDepartments) List(_ context.Context) ([]*departments.Department, error) {
	return f.list, nil
}

func newDashboardFixture(appts *fakeAppointments, orders *fakeLabOrders) *Service {
	svc := NewService(appts, orders,
		&fakeDoctors{list: []*doctors.Doctor{
			{ID: "doc-1", Email: "ayesha.khan@carecoord.test"},
			{ID: "doc-2", Email: "bilal.raza@carecoord.test"},
		}},
		&fakeDepartments{list: []*departments.Department{{ID: "dep-1"}}},
		logging.Default())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestService_PatientSplitsUpcomingFromPast(t *testing.T) {
	appts := &fakeAppointments{byPatient: []*appointments.Appointment{
		{ID: "a-1", Date: "2026-03-11", Status: appointments.StatusScheduled},
		{ID: "a-2", Date: "2026-03-10", Status: appointments.StatusScheduled},
		{ID: "a-3", Date: "2026-03-01", Status: appointments.StatusCompleted},
		{ID: "a-4", Date: "2026-03-12", Status: appointments.StatusCancelled},
	}}
	orders := &fakeLabOrders{byPatient: []*labtests.Order{{ID: "ord-1"}}}
	svc := newDashboardFixture(appts, orders)

	d, err := svc.Patient(context.Background(), "p-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Upcoming) != 2 {
		t.Fatalf("expected 2 upcoming, got %d", len(d.Upcoming))
	}
	if d.PastCount != 2 {
		t.Fatalf("expected 2 past, got %d", d.PastCount)
	}
	if len(d.LabOrders) != 1 {
		t.Fatalf("expected 1 lab order, got %d", len(d.LabOrders))
	}
}

func TestService_DoctorSeparatesTodayFromUpcoming(t *testing.T) {
	appts := &fakeAppointments{byDoctor: []*appointments.Appointment{
		{ID: "a-1", Date: "2026-03-10", Status: appointments.StatusScheduled},
		{ID: "a-2", Date: "2026-03-10", Status: appointments.StatusCompleted},
		{ID: "a-3", Date: "2026-03-15", Status: appointments.StatusScheduled},
		{ID: "a-4", Date: "2026-03-01", Status: appointments.StatusScheduled},
	}}
	svc := newDashboardFixture(appts, &fakeLabOrders{})

	d, err := svc.Doctor(context.Background(), "ayesha.khan@carecoord.test")
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Today) != 1 || d.Today[0].ID != "a-1" {
		t.Fatalf("unexpected today list: %+v", d.Today)
	}
	if d.UpcomingCount != 1 {
		t.Fatalf("expected 1 upcoming, got %d", d.UpcomingCount)
	}
}

func TestService_DoctorListsByResolvedRecordID(t *testing.T) {
	appts := &fakeAppointments{}
	svc := newDashboardFixture(appts, &fakeLabOrders{})

	// Sessions carry account identity; appointments are keyed by the
	// admin-created doctor record. The email is the bridge.
	_, err := svc.Doctor(context.Background(), "bilal.raza@carecoord.test")
	if err != nil {
		t.Fatal(err)
	}
	if appts.doctorIDSeen != "doc-2" {
		t.Fatalf("listed by %q, want the resolved record ID doc-2", appts.doctorIDSeen)
	}

	if _, err := svc.Doctor(context.Background(), "nobody@carecoord.test"); err == nil {
		t.Fatal("expected error for an account with no doctor record")
	}
}

func TestService_LabCountsPending(t *testing.T) {
	orders := &fakeLabOrders{pending: []*labtests.Order{{ID: "ord-1"}, {ID: "ord-2"}}}
	svc := newDashboardFixture(&fakeAppointments{}, orders)

	d, err := svc.Lab(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.PendingCount != 2 || len(d.Pending) != 2 {
		t.Fatalf("unexpected lab dashboard: %+v", d)
	}
}

func TestService_AdminAggregatesCounts(t *testing.T) {
	appts := &fakeAppointments{all: []*appointments.Appointment{
		{Status: appointments.StatusScheduled},
		{Status: appointments.StatusScheduled},
		{Status: appointments.StatusCompleted},
	}}
	orders := &fakeLabOrders{pending: []*labtests.Order{{ID: "ord-1"}}}
	svc := newDashboardFixture(appts, orders)

	d, err := svc.Admin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if d.Doctors != 2 || d.Departments != 1 || d.PendingLabOrders != 1 {
		t.Fatalf("unexpected counts: %+v", d)
	}
	if d.Appointments["scheduled"] != 2 || d.Appointments["completed"] != 1 {
		t.Fatalf("unexpected appointment counts: %v", d.Appointments)
	}
}
