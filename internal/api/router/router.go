// Package router wires every handler onto the Chi router with the role
// groups the dashboards require.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/huzaifaahmed2004/care-coord/internal/appointments"
	"github.com/huzaifaahmed2004/care-coord/internal/assistant"
	"github.com/huzaifaahmed2004/care-coord/internal/auth"
	"github.com/huzaifaahmed2004/care-coord/internal/booking"
	"github.com/huzaifaahmed2004/care-coord/internal/dashboard"
	"github.com/huzaifaahmed2004/care-coord/internal/departments"
	"github.com/huzaifaahmed2004/care-coord/internal/doctors"
	httpmiddleware "github.com/huzaifaahmed2004/care-coord/internal/http/middleware"
	"github.com/huzaifaahmed2004/care-coord/internal/labtests"
	"github.com/huzaifaahmed2004/care-coord/internal/notifications"
	"github.com/huzaifaahmed2004/care-coord/internal/patients"
	"github.com/huzaifaahmed2004/care-coord/internal/session"
	"github.com/huzaifaahmed2004/care-coord/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger   *logging.Logger
	Verifier httpmiddleware.TokenVerifier

	AuthHandler          *auth.Handler
	PatientsHandler      *patients.Handler
	BookingHandler       *booking.Handler
	AppointmentsHandler  *appointments.Handler
	LabTestsHandler      *labtests.Handler
	DoctorsHandler       *doctors.Handler
	DepartmentsHandler   *departments.Handler
	NotificationsHandler *notifications.Handler
	AssistantHandler     *assistant.Handler
	DashboardHandler     *dashboard.Handler

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	authenticate := httpmiddleware.Authenticate(cfg.Verifier)

	// Public endpoints.
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/auth", func(r chi.Router) {
			r.Use(httpmiddleware.RateLimit(1, 10))
			r.Post("/signup", cfg.AuthHandler.SignUp)
			r.Post("/signin", cfg.AuthHandler.SignIn)
		})
		// Reference data is readable without a session so the booking
		// forms can render before sign-in.
		public.Get("/departments", cfg.DepartmentsHandler.List)
		public.Get("/doctors", cfg.DoctorsHandler.List)
		public.Get("/lab-tests", cfg.LabTestsHandler.ListCatalog)
	})

	// Any authenticated role.
	r.Group(func(authed chi.Router) {
		authed.Use(authenticate)
		authed.Get("/auth/me", cfg.AuthHandler.Me)
		authed.Get("/notifications", cfg.NotificationsHandler.List)
		authed.Post("/notifications/{notificationID}/read", cfg.NotificationsHandler.MarkRead)
		authed.Get("/notifications/stream", cfg.NotificationsHandler.Stream)
	})

	// Patient routes.
	r.Group(func(patient chi.Router) {
		patient.Use(authenticate, httpmiddleware.RequireRole(session.RolePatient))
		patient.Post("/patients/register", cfg.PatientsHandler.Register)
		patient.Get("/patients/me", cfg.PatientsHandler.GetProfile)
		patient.Post("/appointments", cfg.BookingHandler.BookAppointment)
		patient.Get("/appointments", cfg.AppointmentsHandler.ListMine)
		patient.Post("/lab-orders", cfg.BookingHandler.ScheduleLabTests)
		patient.Get("/lab-orders", cfg.LabTestsHandler.ListMine)
		patient.Post("/assistant/chat", cfg.AssistantHandler.Chat)
		patient.Get("/dashboard/patient", cfg.DashboardHandler.Patient)
	})

	// Report downloads are shared between the owning patient and admins;
	// the handler enforces ownership.
	r.Group(func(reports chi.Router) {
		reports.Use(authenticate, httpmiddleware.RequireRole(session.RolePatient, session.RoleAdmin))
		reports.Get("/lab-orders/{orderID}/report", cfg.LabTestsHandler.DownloadReport)
	})

	// Doctor routes.
	r.Group(func(doctor chi.Router) {
		doctor.Use(authenticate, httpmiddleware.RequireRole(session.RoleDoctor))
		doctor.Get("/doctor/appointments", cfg.AppointmentsHandler.ListForDoctor)
		doctor.Get("/dashboard/doctor", cfg.DashboardHandler.Doctor)
	})

	// Appointment status transitions are shared between doctors and admins.
	r.Group(func(staff chi.Router) {
		staff.Use(authenticate, httpmiddleware.RequireRole(session.RoleDoctor, session.RoleAdmin))
		staff.Patch("/appointments/{appointmentID}/status", cfg.AppointmentsHandler.UpdateStatus)
	})

	// Lab operator routes.
	r.Group(func(lab chi.Router) {
		lab.Use(authenticate, httpmiddleware.RequireRole(session.RoleLabOperator))
		lab.Get("/lab/worklist", cfg.LabTestsHandler.Worklist)
		lab.Post("/lab/orders/{orderID}/complete", cfg.LabTestsHandler.Complete)
		lab.Post("/lab/orders/{orderID}/cancel", cfg.LabTestsHandler.Cancel)
		lab.Get("/dashboard/lab", cfg.DashboardHandler.Lab)
	})

	// Admin routes.
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(authenticate, httpmiddleware.RequireRole(session.RoleAdmin))
		admin.Post("/users", cfg.AuthHandler.CreateStaff)
		admin.Post("/doctors", cfg.DoctorsHandler.Create)
		admin.Put("/doctors/{doctorID}", cfg.DoctorsHandler.Update)
		admin.Post("/departments", cfg.DepartmentsHandler.Create)
		admin.Put("/departments/{departmentID}", cfg.DepartmentsHandler.Update)
		admin.Put("/lab-tests/{testID}", cfg.LabTestsHandler.UpsertCatalogEntry)
		admin.Get("/appointments", cfg.AppointmentsHandler.ListAll)
		admin.Get("/dashboard", cfg.DashboardHandler.Admin)
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
