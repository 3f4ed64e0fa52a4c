package entity

import "time"

// AppointmentFilter is a domain-level filter for querying appointments.
// Zero values mean "no constraint".
type AppointmentFilter struct {
	Date      *time.Time
	From      *time.Time
	To        *time.Time
	Status    AppointmentStatus
	PatientID uint
	DoctorID  uint
	Specialty string
}
