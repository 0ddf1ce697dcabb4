// Package dashboard aggregates per-role landing-page data from the
// underlying stores. It holds no state of its own.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

const dateLayout = "2006-01-02"

type appointmentReader interface {
	ListByPatient(ctx context.Context, patientID string) ([]*appointments.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]*appointments.Appointment, error)
	List(ctx context.Context) ([]*appointments.Appointment, error)
}

type labOrderReader interface {
	ListByPatient(ctx context.Context, patientID string) ([]*labtests.Order, error)
	ListPending(ctx context.Context) ([]*labtests.Order, error)
}

type doctorReader interface {
	GetByEmail(ctx context.Context, email string) (*doctors.Doctor, error)
	List(ctx context.Context, departmentID string) ([]*doctors.Doctor, error)
}

type departmentReader interface {
	List(ctx context.Context) ([]*departments.Department, error)
}

// PatientDashboard is the patient landing view.
type PatientDashboard struct {
	Upcoming  []*appointments.Appointment `json:"upcoming"`
	PastCount int                         `json:"pastCount"`
	LabOrders []*labtests.Order           `json:"labOrders"`
}

// DoctorDashboard is the doctor landing view.
type DoctorDashboard struct {
	Today         []*appointments.Appointment `json:"today"`
	UpcomingCount int                         `json:"upcomingCount"`
}

// LabDashboard is the lab operator worklist view.
type LabDashboard struct {
	Pending      []*labtests.Order `json:"pending"`
	PendingCount int               `json:"pendingCount"`
}

// AdminDashboard is the admin overview.
type AdminDashboard struct {
	Doctors          int            `json:"doctors"`
	Departments      int            `json:"departments"`
	Appointments     map[string]int `json:"appointments"`
	PendingLabOrders int            `json:"pendingLabOrders"`
}

// Service builds the role dashboards.
type Service struct {
	appointments appointmentReader
	labOrders    labOrderReader
	doctors      doctorReader
	departments  departmentReader
	now          func() time.Time
	logger       *logging.Logger
}

func NewService(appts appointmentReader, labOrders labOrderReader, docs doctorReader, depts departmentReader, logger *logging.Logger) *Service {
	if appts == nil || labOrders == nil || docs == nil || depts == nil {
		panic("dashboard: all readers are required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		appointments: appts,
		labOrders:    labOrders,
		doctors:      docs,
		departments:  depts,
		now:          time.Now,
		logger:       logger,
	}
}

// Patient builds the patient dashboard: scheduled appointments on or after
// today, plus the patient's lab orders.
func (s *Service) Patient(ctx context.Context, patientID string) (*PatientDashboard, error) {
	appts, err := s.appointments.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list appointments: %w", err)
	}
	orders, err := s.labOrders.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list lab orders: %w", err)
	}

	today := s.now().UTC().Format(dateLayout)
	d := &PatientDashboard{Upcoming: []*appointments.Appointment{}, LabOrders: orders}
	for _, a := range appts {
		if a.Status == appointments.StatusScheduled && a.Date >= today {
			d.Upcoming = append(d.Upcoming, a)
		} else {
			d.PastCount++
		}
	}
	return d, nil
}

// Doctor builds the doctor day view: today's scheduled appointments plus a
// count of everything scheduled after today. The doctor record is resolved
// from the account email, since appointments are keyed by record ID.
func (s *Service) Doctor(ctx context.Context, email string) (*DoctorDashboard, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to resolve doctor record: %w", err)
	}
	appts, err := s.appointments.ListByDoctor(ctx, doctor.ID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list appointments: %w", err)
	}

	today := s.now().UTC().Format(dateLayout)
	d := &DoctorDashboard{Today: []*appointments.Appointment{}}
	for _, a := range appts {
		if a.Status != appointments.StatusScheduled {
			continue
		}
		switch {
		case a.Date == today:
			d.Today = append(d.Today, a)
		case a.Date > today:
			d.UpcomingCount++
		}
	}
	return d, nil
}

// Lab builds the lab operator worklist.
func (s *Service) Lab(ctx context.Context) (*LabDashboard, error) {
	pending, err := s.labOrders.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list pending orders: %w", err)
	}
	return &LabDashboard{Pending: pending, PendingCount: len(pending)}, nil
}

// Admin builds the admin overview counts.
func (s *Service) Admin(ctx context.Context) (*AdminDashboard, error) {
	docs, err := s.doctors.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list doctors: %w", err)
	}
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list departments: %w", err)
	}
	appts, err := s.appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list appointments: %w", err)
	}
	pending, err := s.labOrders.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: failed to list pending orders: %w", err)
	}

	byStatus := make(map[string]int)
	for _, a := range appts {
		byStatus[string(a.Status)]++
	}
	return &AdminDashboard{
		Doctors:          len(docs),
		Departments:      len(depts),
		Appointments:     byStatus,
		PendingLabOrders: len(pending),
	}, nil
}
