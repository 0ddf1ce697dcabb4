package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/internal/patients"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

type fakePatients struct {
	profile *patients.Patient
	err     error
}

func (f *fakePatients) GetByEmail(_ context.Context, _ string) (*patients.Patient, error) {
	return f.profile, f.err
}

type fakeDoctors struct {
	doctor *doctors.Doctor
	err    error
}

func (f *fakeDoctors) Get(_ context.Context, _ string) (*doctors.Doctor, error) {
	return f.doctor, f.err
}

type fakeDepartments struct {
	department *departments.Department
	err        error
}

func (f *fakeDepartments) Get(_ context.Context, _ string) (*departments.Department, error) {
	return f.department, f.err
}

type fakeAppointmentWriter struct {
	added []*appointments.Appointment
	err   error
}

func (f *fakeAppointmentWriter) Add(_ context.Context, a *appointments.Appointment) error {
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, a)
	return nil
}

type fakeLabOrderWriter struct {
	added []*labtests.Order
}

func (f *fakeLabOrderWriter) Add(_ context.Context, o *labtests.Order) error {
	f.added = append(f.added, o)
	return nil
}

type fakeCatalog struct {
	tests map[string]*labtests.Test
}

func (f *fakeCatalog) Get(_ context.Context, id string) (*labtests.Test, error) {
	if t, ok := f.tests[id]; ok {
		return t, nil
	}
	return nil, labtests.ErrTestNotFound
}

type fakePublisher struct {
	booked    []events.AppointmentBookedV1
	scheduled []events.LabTestScheduledV1
}

func (f *fakePublisher) AppointmentBooked(_ context.Context, ev events.AppointmentBookedV1) {
	f.booked = append(f.booked, ev)
}

func (f *fakePublisher) LabTestScheduled(_ context.Context, ev events.LabTestScheduledV1) {
	f.scheduled = append(f.scheduled, ev)
}

type fixture struct {
	patients     *fakePatients
	doctors      *fakeDoctors
	departments  *fakeDepartments
	appointments *fakeAppointmentWriter
	labOrders    *fakeLabOrderWriter
	catalog      *fakeCatalog
	publisher    *fakePublisher
	service      *Service
}

// 2024-01-01 10:30 Monday.
var testNow = time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		patients: &fakePatients{profile: &patients.Patient{
			ID: "p-1", Email: "sana@example.com", Name: "Sana Malik",
		}},
		doctors: &fakeDoctors{doctor: &doctors.Doctor{
			ID: "doc-1", Name: "Dr. Ayesha Khan", DepartmentID: "dept-1", FeePercentage: 10,
		}},
		departments: &fakeDepartments{department: &departments.Department{
			ID: "dept-1", Name: "Cardiology", FeePercentage: 5,
		}},
		appointments: &fakeAppointmentWriter{},
		labOrders:    &fakeLabOrderWriter{},
		catalog: &fakeCatalog{tests: map[string]*labtests.Test{
			"t-cbc":   {ID: "t-cbc", Name: "CBC", Price: 800},
			"t-lipid": {ID: "t-lipid", Name: "Lipid Profile", Price: 1500},
		}},
		publisher: &fakePublisher{},
	}
	f.service = NewService(ServiceParams{
		Patients:     f.patients,
		Doctors:      f.doctors,
		Departments:  f.departments,
		Appointments: f.appointments,
		LabOrders:    f.labOrders,
		Catalog:      f.catalog,
		Publisher:    f.publisher,
		BaseFee:      1200,
		Now:          func() time.Time { return testNow },
		Logger:       logging.Default(),
	})
	return f
}

func TestBookAppointment_PersistsRecordWithFees(t *testing.T) {
	f := newFixture()

	appt, err := f.service.BookAppointment(context.Background(), AppointmentRequest{
		PatientEmail: "sana@example.com",
		DoctorID:     "doc-1",
		DatePhrase:   "tomorrow",
		TimePhrase:   "afternoon",
		Reason:       "follow-up",
	})
	if err != nil {
		t.Fatalf("BookAppointment returned error: %v", err)
	}

	if appt.Date != "2024-01-02" || appt.Time != "14:00" {
		t.Errorf("normalized to %s %s, want 2024-01-02 14:00", appt.Date, appt.Time)
	}
	if appt.BaseFee != 1200 || appt.DoctorFee != 120 || appt.DepartmentFee != 60 || appt.TotalFee != 1380 {
		t.Errorf("fees = %d/%d/%d/%d, want 1200/120/60/1380",
			appt.BaseFee, appt.DoctorFee, appt.DepartmentFee, appt.TotalFee)
	}
	if appt.Status != appointments.StatusScheduled {
		t.Errorf("status = %s, want scheduled", appt.Status)
	}
	if appt.PaymentStatus != "completed" {
		t.Errorf("payment status = %s, want completed", appt.PaymentStatus)
	}
	if len(f.appointments.added) != 1 {
		t.Fatalf("expected exactly 1 record written, got %d", len(f.appointments.added))
	}
	if len(f.publisher.booked) != 1 {
		t.Fatalf("expected 1 event published, got %d", len(f.publisher.booked))
	}
	if ev := f.publisher.booked[0]; ev.AppointmentID != appt.ID || ev.TotalFee != 1380 {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestBookAppointment_MissingProfileWritesNothing(t *testing.T) {
	f := newFixture()
	f.patients.profile = nil
	f.patients.err = patients.ErrPatientNotFound

	_, err := f.service.BookAppointment(context.Background(), AppointmentRequest{
		PatientEmail: "nobody@example.com",
		DoctorID:     "doc-1",
		DatePhrase:   "tomorrow",
	})
	if !errors.Is(err, ErrPatientProfileNotFound) {
		t.Fatalf("expected ErrPatientProfileNotFound, got %v", err)
	}
	if len(f.appointments.added) != 0 {
		t.Fatalf("missing profile must perform zero writes, got %d", len(f.appointments.added))
	}
	if len(f.publisher.booked) != 0 {
		t.Fatal("missing profile must publish no events")
	}
}

func TestBookAppointment_ProfileLookupOutageIsNotMissingProfile(t *testing.T) {
	f := newFixture()
	f.patients.profile = nil
	f.patients.err = errors.New("dynamodb unavailable")

	_, err := f.service.BookAppointment(context.Background(), AppointmentRequest{
		PatientEmail: "sana@example.com",
		DoctorID:     "doc-1",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrPatientProfileNotFound) {
		t.Fatal("a store outage must not be reported as a missing profile")
	}
	if len(f.appointments.added) != 0 {
		t.Fatal("failed lookup must not write")
	}
}

func TestBookAppointment_UnknownDoctor(t *testing.T) {
	f := newFixture()
	f.doctors.doctor = nil
	f.doctors.err = doctors.ErrDoctorNotFound

	_, err := f.service.BookAppointment(context.Background(), AppointmentRequest{
		PatientEmail: "sana@example.com",
		DoctorID:     "doc-missing",
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
	if len(f.appointments.added) != 0 {
		t.Fatal("failed lookup must not write")
	}
}

func TestBookAppointment_DuplicateSubmissionsCreateDuplicateRecords(t *testing.T) {
	f := newFixture()
	req := AppointmentRequest{
		PatientEmail: "sana@example.com",
		DoctorID:     "doc-1",
		DatePhrase:   "tomorrow",
		TimePhrase:   "morning",
	}

	first, err := f.service.BookAppointment(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.service.BookAppointment(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if len(f.appointments.added) != 2 {
		t.Fatalf("expected 2 records, got %d", len(f.appointments.added))
	}
	if first.ID == second.ID {
		t.Fatal("duplicate submissions must create distinct records")
	}
}

func TestBookAppointment_StoreFailureIsTerminal(t *testing.T) {
	f := newFixture()
	f.appointments.err = errors.New("throttled")

	_, err := f.service.BookAppointment(context.Background(), AppointmentRequest{
		PatientEmail: "sana@example.com",
		DoctorID:     "doc-1",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(f.publisher.booked) != 0 {
		t.Fatal("failed write must publish no events")
	}
}

func TestScheduleLabTests_FreezesCatalogPrices(t *testing.T) {
	f := newFixture()

	order, err := f.service.ScheduleLabTests(context.Background(), LabOrderRequest{
		PatientEmail: "sana@example.com",
		TestIDs:      []string{"t-cbc", "t-lipid"},
		DatePhrase:   "tomorrow",
		TimePhrase:   "morning",
	})
	if err != nil {
		t.Fatalf("ScheduleLabTests returned error: %v", err)
	}

	if order.Status != labtests.StatusPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.TotalPrice != 2300 {
		t.Errorf("total = %d, want 2300", order.TotalPrice)
	}
	if len(order.Items) != 2 || order.Items[0].Name != "CBC" || order.Items[1].Price != 1500 {
		t.Errorf("unexpected items: %+v", order.Items)
	}
	if order.Date != "2024-01-02" || order.Time != "09:00" {
		t.Errorf("normalized to %s %s", order.Date, order.Time)
	}
	if len(f.labOrders.added) != 1 {
		t.Fatalf("expected 1 record written, got %d", len(f.labOrders.added))
	}
	if len(f.publisher.scheduled) != 1 {
		t.Fatalf("expected 1 event published, got %d", len(f.publisher.scheduled))
	}
}

func TestScheduleLabTests_RejectsEmptySelection(t *testing.T) {
	f := newFixture()
	_, err := f.service.ScheduleLabTests(context.Background(), LabOrderRequest{
		PatientEmail: "sana@example.com",
	})
	if !errors.Is(err, ErrNoTestsSelected) {
		t.Fatalf("expected ErrNoTestsSelected, got %v", err)
	}
}

func TestScheduleLabTests_UnknownTestWritesNothing(t *testing.T) {
	f := newFixture()
	_, err := f.service.ScheduleLabTests(context.Background(), LabOrderRequest{
		PatientEmail: "sana@example.com",
		TestIDs:      []string{"t-cbc", "t-bogus"},
	})
	if !errors.Is(err, ErrUnknownTest) {
		t.Fatalf("expected ErrUnknownTest, got %v", err)
	}
	if len(f.labOrders.added) != 0 {
		t.Fatal("unknown test must perform zero writes")
	}
}

func TestScheduleLabTests_MissingProfileWritesNothing(t *testing.T) {
	f := newFixture()
	f.patients.profile = nil
	f.patients.err = patients.ErrPatientNotFound

	_, err := f.service.ScheduleLabTests(context.Background(), LabOrderRequest{
		PatientEmail: "nobody@example.com",
		TestIDs:      []string{"t-cbc"},
	})
	if !errors.Is(err, ErrPatientProfileNotFound) {
		t.Fatalf("expected ErrPatientProfileNotFound, got %v", err)
	}
	if len(f.labOrders.added) != 0 {
		t.Fatal("missing profile must perform zero writes")
	}
}

func TestScheduleLabTests_ProfileLookupOutageIsNotMissingProfile(t *testing.T) {
	f := newFixture()
	f.patients.profile = nil
	f.patients.err = errors.New("dynamodb unavailable")

	_, err := f.service.ScheduleLabTests(context.Background(), LabOrderRequest{
		PatientEmail: "sana@example.com",
		TestIDs:      []string{"t-cbc"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrPatientProfileNotFound) {
		t.Fatal("a store outage must not be reported as a missing profile")
	}
	if len(f.labOrders.added) != 0 {
		t.Fatal("failed lookup must not write")
	}
}
