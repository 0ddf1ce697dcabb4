package events

import "time"

type AppointmentBookedV1 struct {
	EventID       string    `json:"event_id"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	PatientName   string    `json:"patient_name,omitempty"`
	DoctorID      string    `json:"doctor_id"`
	DoctorName    string    `json:"doctor_name,omitempty"`
	DepartmentID  string    `json:"department_id"`
	Date          string    `json:"date"`
	Time          string    `json:"time"`
	TotalFee      int       `json:"total_fee"`
	BookedAt      time.Time `json:"booked_at"`
}

type LabTestScheduledV1 struct {
	EventID      string    `json:"event_id"`
	OrderID      string    `json:"order_id"`
	PatientID    string    `json:"patient_id"`
	PatientEmail string    `json:"patient_email,omitempty"`
	PatientName  string    `json:"patient_name,omitempty"`
	TestIDs      []string  `json:"test_ids"`
	TestNames    []string  `json:"test_names,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	TotalFee     int       `json:"total_fee"`
	ScheduledAt  time.Time `json:"scheduled_at"`
}

type AppointmentStatusChangedV1 struct {
	EventID       string    `json:"event_id"`
	AppointmentID string    `json:"appointment_id"`
	PatientID     string    `json:"patient_id"`
	PatientEmail  string    `json:"patient_email,omitempty"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	ChangedBy     string    `json:"changed_by,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

type LabResultReadyV1 struct {
	EventID      string    `json:"event_id"`
	OrderID      string    `json:"order_id"`
	PatientID    string    `json:"patient_id"`
	PatientEmail string    `json:"patient_email,omitempty"`
	ReportKey    string    `json:"report_key,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
}
