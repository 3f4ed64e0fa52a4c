package entity

import (
	"strconv"
	"strings"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pendiente"
	AppointmentStatusConfirmed AppointmentStatus = "confirmada"
	AppointmentStatusCompleted AppointmentStatus = "completada"
	AppointmentStatusCancelled AppointmentStatus = "cancelada"
	AppointmentStatusAbsent    AppointmentStatus = "ausente"
)

// DefaultSpecialty is used wherever an appointment carries no specialty.
const DefaultSpecialty = "Medicina General"

// Appointment references one patient and one doctor. Date holds the calendar day at
// 00:00 UTC and Time the clinic wall clock as "HH:MM".
type Appointment struct {
	ID           uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID    uint              `gorm:"not null;index" json:"patient_id"`
	DoctorID     uint              `gorm:"not null;index:idx_appointments_doctor_slot,priority:1" json:"doctor_id"`
	Date         time.Time         `gorm:"type:date;not null;index:idx_appointments_doctor_slot,priority:2" json:"date"`
	Time         string            `gorm:"type:varchar(5);not null;index:idx_appointments_doctor_slot,priority:3" json:"time"`
	Specialty    string            `gorm:"type:varchar(100);index" json:"specialty"`
	Reason       string            `gorm:"type:text" json:"reason,omitempty"`
	Symptoms     string            `gorm:"type:text" json:"symptoms,omitempty"`
	Office       string            `gorm:"type:varchar(150)" json:"office,omitempty"`
	Status       AppointmentStatus `gorm:"type:varchar(20);not null;default:'pendiente';index" json:"status"`
	Absent       bool              `gorm:"not null;default:false" json:"absent"`
	Notes        string            `gorm:"type:text" json:"notes,omitempty"`
	Observations string            `gorm:"type:text" json:"observations,omitempty"`
	CreatedAt    time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User   `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"patient,omitempty"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsAbsence reports a no-show or cancellation for scoring and trends.
func (a *Appointment) IsAbsence() bool {
	return a.Absent || a.Status == AppointmentStatusCancelled || a.Status == AppointmentStatusAbsent
}

// BlocksSlot reports whether the appointment still occupies its doctor/date/time slot.
func (a *Appointment) BlocksSlot() bool {
	return a.Status != AppointmentStatusCancelled && a.Status != AppointmentStatusCompleted
}

// IsOpen reports pending or confirmed appointments.
func (a *Appointment) IsOpen() bool {
	return a.Status == AppointmentStatusPending || a.Status == AppointmentStatusConfirmed
}

func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// SpecialtyOrDefault falls back to DefaultSpecialty for blank values.
func (a *Appointment) SpecialtyOrDefault() string {
	if s := strings.TrimSpace(a.Specialty); s != "" {
		return s
	}
	return DefaultSpecialty
}

// SymptomList splits the comma-joined symptom tags.
func (a *Appointment) SymptomList() []string {
	if strings.TrimSpace(a.Symptoms) == "" {
		return nil
	}
	raw := strings.Split(a.Symptoms, ",")
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Hour returns the hour of Time; ok is false when Time is missing or malformed.
func (a *Appointment) Hour() (int, bool) {
	h, _, ok := ParseClock(a.Time)
	return h, ok
}

// HasDate reports whether Date carries a value.
func (a *Appointment) HasDate() bool {
	return !a.Date.IsZero()
}

// StartsAt combines Date and Time in the UTC frame. A malformed Time yields midnight.
func (a *Appointment) StartsAt() time.Time {
	d := a.Date.UTC()
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if h, m, ok := ParseClock(a.Time); ok {
		start = start.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	return start
}

var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending: {
		AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusAbsent,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCompleted, AppointmentStatusCancelled, AppointmentStatusAbsent,
	},
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// Staying in the current status is always allowed.
func (a *Appointment) CanTransitionTo(next AppointmentStatus) bool {
	if next == a.Status {
		return true
	}
	for _, s := range allowedTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusAbsent:
		return true
	}
	return false
}

// ParseClock reads "HH:MM" or "HH:MM:SS".
func ParseClock(value string) (hour, minute int, ok bool) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	if len(parts) == 3 {
		if s, err := strconv.Atoi(parts[2]); err != nil || s < 0 || s > 59 {
			return 0, 0, false
		}
	}
	return h, m, true
}
