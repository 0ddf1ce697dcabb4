package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/events"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/internal/observability/metrics"
	"github.com/huzaifaahmed2004/care-coord/internal/patients"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

const paymentCompleted = "completed"

type patientDirectory interface {
	GetByEmail(ctx context.Context, email string) (*patients.Patient, error)
}

type doctorDirectory interface {
	Get(ctx context.Context, id string) (*doctors.Doctor, error)
}

type departmentDirectory interface {
	Get(ctx context.Context, id string) (*departments.Department, error)
}

type appointmentWriter interface {
	Add(ctx context.Context, a *appointments.Appointment) error
}

type labOrderWriter interface {
	Add(ctx context.Context, o *labtests.Order) error
}

type testCatalog interface {
	Get(ctx context.Context, id string) (*labtests.Test, error)
}

type eventPublisher interface {
	AppointmentBooked(ctx context.Context, ev events.AppointmentBookedV1)
	LabTestScheduled(ctx context.Context, ev events.LabTestScheduledV1)
}

// Service implements booking submission for appointments and lab orders.
// A submission is a single document write; there is no rollback and no
// idempotency key, so repeated user action creates duplicate records.
type Service struct {
	patients     patientDirectory
	doctors      doctorDirectory
	departments  departmentDirectory
	appointments appointmentWriter
	labOrders    labOrderWriter
	catalog      testCatalog
	publisher    eventPublisher
	metrics      *metrics.BookingMetrics
	baseFee      int
	now          func() time.Time
	tracer       trace.Tracer
	logger       *logging.Logger
}

type ServiceParams struct {
	Patients     patientDirectory
	Doctors      doctorDirectory
	Departments  departmentDirectory
	Appointments appointmentWriter
	LabOrders    labOrderWriter
	Catalog      testCatalog
	Publisher    eventPublisher
	Metrics      *metrics.BookingMetrics
	BaseFee      int
	Now          func() time.Time
	Logger       *logging.Logger
}

func NewService(p ServiceParams) *Service {
	if p.Patients == nil {
		panic("booking: patient directory cannot be nil")
	}
	if p.Doctors == nil || p.Departments == nil {
		panic("booking: doctor and department directories cannot be nil")
	}
	if p.Appointments == nil || p.LabOrders == nil {
		panic("booking: appointment and lab order writers cannot be nil")
	}
	if p.Catalog == nil {
		panic("booking: test catalog cannot be nil")
	}
	if p.Publisher == nil {
		panic("booking: event publisher cannot be nil")
	}
	if p.BaseFee <= 0 {
		panic("booking: base fee must be positive")
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Logger == nil {
		p.Logger = logging.Default()
	}
	return &Service{
		patients:     p.Patients,
		doctors:      p.Doctors,
		departments:  p.Departments,
		appointments: p.Appointments,
		labOrders:    p.LabOrders,
		catalog:      p.Catalog,
		publisher:    p.Publisher,
		metrics:      p.Metrics,
		baseFee:      p.BaseFee,
		now:          p.Now,
		tracer:       otel.Tracer("carecoord.internal.booking"),
		logger:       p.Logger,
	}
}

// AppointmentRequest is a patient's appointment submission. Date and time
// are free-text phrases normalized by the service.
type AppointmentRequest struct {
	PatientEmail string `json:"-"`
	DoctorID     string `json:"doctorId"`
	DatePhrase   string `json:"date"`
	TimePhrase   string `json:"time"`
	Reason       string `json:"reason"`
	Symptoms     string `json:"symptoms"`
}

// BookAppointment resolves the patient profile, normalizes the requested
// date and time, computes fees, and appends exactly one appointment
// record. A missing profile is terminal and performs zero writes.
func (s *Service) BookAppointment(ctx context.Context, req AppointmentRequest) (*appointments.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "booking.book_appointment")
	defer span.End()
	started := s.now()

	patient, err := s.patients.GetByEmail(ctx, req.PatientEmail)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, patients.ErrPatientNotFound) {
			s.metrics.ObserveBooking("profile_not_found")
			return nil, fmt.Errorf("%w: %s", ErrPatientProfileNotFound, req.PatientEmail)
		}
		s.metrics.ObserveBooking("store_failure")
		return nil, fmt.Errorf("booking: failed to load patient profile: %w", err)
	}

	doctor, err := s.doctors.Get(ctx, req.DoctorID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("doctor_not_found")
		return nil, fmt.Errorf("%w: %s", ErrDoctorNotFound, req.DoctorID)
	}
	department, err := s.departments.Get(ctx, doctor.DepartmentID)
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("department_not_found")
		return nil, fmt.Errorf("%w: %s", ErrDepartmentNotFound, doctor.DepartmentID)
	}

	date, clock := Normalize(req.DatePhrase, req.TimePhrase, s.now())
	fees := CalculateFees(s.baseFee, doctor.FeePercentage, department.FeePercentage)

	appt := &appointments.Appointment{
		ID:            uuid.NewString(),
		PatientID:     patient.ID,
		DoctorID:      doctor.ID,
		DepartmentID:  department.ID,
		Date:          date,
		Time:          clock,
		Reason:        req.Reason,
		Symptoms:      req.Symptoms,
		Status:        appointments.StatusScheduled,
		BaseFee:       fees.Base,
		DoctorFee:     fees.DoctorFee,
		DepartmentFee: fees.DepartmentFee,
		TotalFee:      fees.Total,
		PaymentStatus: paymentCompleted,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.appointments.Add(ctx, appt); err != nil {
		span.RecordError(err)
		s.metrics.ObserveBooking("store_failure")
		return nil, fmt.Errorf("booking: failed to persist appointment: %w", err)
	}

	s.publisher.AppointmentBooked(ctx, events.AppointmentBookedV1{
		AppointmentID: appt.ID,
		PatientID:     patient.ID,
		PatientEmail:  patient.Email,
		PatientName:   patient.Name,
		DoctorID:      doctor.ID,
		DoctorName:    doctor.Name,
		DepartmentID:  department.ID,
		Date:          appt.Date,
		Time:          appt.Time,
		TotalFee:      appt.TotalFee,
	})
	s.metrics.ObserveBooking("ok")
	s.metrics.ObserveSubmissionLatency("appointment", s.now().Sub(started).Seconds())
	s.logger.Info("appointment booked",
		"appointment_id", appt.ID, "patient_id", patient.ID, "doctor_id", doctor.ID,
		"date", appt.Date, "time", appt.Time, "total_fee", appt.TotalFee)
	return appt, nil
}

// LabOrderRequest is a patient's lab scheduling submission.
type LabOrderRequest struct {
	PatientEmail string   `json:"-"`
	TestIDs      []string `json:"testIds"`
	DatePhrase   string   `json:"date"`
	TimePhrase   string   `json:"time"`
}

// ScheduleLabTests validates the selected tests against the catalog,
// freezes their names and prices into the order, and appends exactly one
// order record with status pending.
func (s *Service) ScheduleLabTests(ctx context.Context, req LabOrderRequest) (*labtests.Order, error) {
	ctx, span := s.tracer.Start(ctx, "booking.schedule_lab_tests")
	defer span.End()
	started := s.now()

	if len(req.TestIDs) == 0 {
		s.metrics.ObserveLabOrder("no_tests")
		return nil, ErrNoTestsSelected
	}

	patient, err := s.patients.GetByEmail(ctx, req.PatientEmail)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, patients.ErrPatientNotFound) {
			s.metrics.ObserveLabOrder("profile_not_found")
			return nil, fmt.Errorf("%w: %s", ErrPatientProfileNotFound, req.PatientEmail)
		}
		s.metrics.ObserveLabOrder("store_failure")
		return nil, fmt.Errorf("booking: failed to load patient profile: %w", err)
	}

	items := make([]labtests.OrderItem, 0, len(req.TestIDs))
	names := make([]string, 0, len(req.TestIDs))
	total := 0
	for _, id := range req.TestIDs {
		test, err := s.catalog.Get(ctx, id)
		if err != nil {
			span.RecordError(err)
			s.metrics.ObserveLabOrder("unknown_test")
			return nil, fmt.Errorf("%w: %s", ErrUnknownTest, id)
		}
		items = append(items, labtests.OrderItem{TestID: test.ID, Name: test.Name, Price: test.Price})
		names = append(names, test.Name)
		total += test.Price
	}

	date, clock := Normalize(req.DatePhrase, req.TimePhrase, s.now())

	order := &labtests.Order{
		ID:            uuid.NewString(),
		PatientID:     patient.ID,
		Items:         items,
		Date:          date,
		Time:          clock,
		TotalPrice:    total,
		Status:        labtests.StatusPending,
		PaymentStatus: paymentCompleted,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.labOrders.Add(ctx, order); err != nil {
		span.RecordError(err)
		s.metrics.ObserveLabOrder("store_failure")
		return nil, fmt.Errorf("booking: failed to persist lab order: %w", err)
	}

	s.publisher.LabTestScheduled(ctx, events.LabTestScheduledV1{
		OrderID:      order.ID,
		PatientID:    patient.ID,
		PatientEmail: patient.Email,
		PatientName:  patient.Name,
		TestIDs:      req.TestIDs,
		TestNames:    names,
		Date:         order.Date,
		Time:         order.Time,
		TotalFee:     order.TotalPrice,
	})
	s.metrics.ObserveLabOrder("ok")
	s.metrics.ObserveSubmissionLatency("lab_order", s.now().Sub(started).Seconds())
	s.logger.Info("lab tests scheduled",
		"order_id", order.ID, "patient_id", patient.ID, "tests", len(items),
		"date", order.Date, "time", order.Time, "total_price", order.TotalPrice)
	return order, nil
}
