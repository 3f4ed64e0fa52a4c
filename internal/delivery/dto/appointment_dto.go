package dto

import "time"

// Request DTOs

// CreateAppointmentRequest is the patient booking form. Date is YYYY-MM-DD and Time is
// HH:MM (seconds are accepted and dropped).
type CreateAppointmentRequest struct {
	DoctorID  uint     `json:"doctor_id" validate:"required,min=1"`
	Date      string   `json:"date" validate:"required"`
	Time      string   `json:"time" validate:"required"`
	Specialty string   `json:"specialty" validate:"omitempty,max=100"`
	Reason    string   `json:"reason" validate:"omitempty,max=1000"`
	Symptoms  []string `json:"symptoms" validate:"omitempty,max=20,dive,max=100"`
	Office    string   `json:"office" validate:"omitempty,max=150"`
	Notes     string   `json:"notes" validate:"omitempty,max=1000"`
}

type AdminCreateAppointmentRequest struct {
	CreateAppointmentRequest
	PatientID uint `json:"patient_id" validate:"required,min=1"`
}

// UpdateAppointmentRequest lists the fields a patient may change; nil means unchanged.
type UpdateAppointmentRequest struct {
	Date     *string   `json:"date"`
	Time     *string   `json:"time"`
	Reason   *string   `json:"reason" validate:"omitempty,max=1000"`
	Symptoms *[]string `json:"symptoms" validate:"omitempty,max=20,dive,max=100"`
	Office   *string   `json:"office" validate:"omitempty,max=150"`
	Notes    *string   `json:"notes" validate:"omitempty,max=1000"`
}

type AdminUpdateAppointmentRequest struct {
	UpdateAppointmentRequest
	DoctorID     *uint   `json:"doctor_id" validate:"omitempty,min=1"`
	Specialty    *string `json:"specialty" validate:"omitempty,max=100"`
	Status       *string `json:"status" validate:"omitempty,oneof=pendiente confirmada completada cancelada ausente"`
	Absent       *bool   `json:"absent"`
	Observations *string `json:"observations" validate:"omitempty,max=2000"`
}

type AvailabilityRequest struct {
	DoctorID uint   `json:"doctor_id" validate:"required,min=1"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time"`
	// ExcludeID skips the appointment being rescheduled.
	ExcludeID uint `json:"exclude_id"`
}

// AppointmentQuery carries the raw admin list filters.
type AppointmentQuery struct {
	Date      string `json:"date,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Status    string `json:"status,omitempty"`
	PatientID uint   `json:"patient_id,omitempty"`
	DoctorID  uint   `json:"doctor_id,omitempty"`
	Specialty string `json:"specialty,omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID           uint      `json:"id"`
	PatientID    uint      `json:"patient_id"`
	PatientName  string    `json:"patient_name,omitempty"`
	DoctorID     uint      `json:"doctor_id"`
	DoctorName   string    `json:"doctor_name,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Specialty    string    `json:"specialty"`
	Reason       string    `json:"reason,omitempty"`
	Symptoms     []string  `json:"symptoms"`
	Office       string    `json:"office,omitempty"`
	Status       string    `json:"status"`
	Absent       bool      `json:"absent"`
	Notes        string    `json:"notes,omitempty"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
	Filters      *AppointmentQuery     `json:"filters,omitempty"`
}

type AvailabilityResponse struct {
	Available bool     `json:"available"`
	Verdict   string   `json:"verdict"`
	FreeSlots []string `json:"free_slots"`
}

type AppointmentStatsResponse struct {
	Total       int64            `json:"total"`
	ByStatus    map[string]int64 `json:"by_status"`
	BySpecialty map[string]int64 `json:"by_specialty"`
	AbsenceRate int              `json:"absence_rate"`
}
