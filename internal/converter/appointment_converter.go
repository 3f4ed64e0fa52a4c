package converter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTime = errors.New("invalid time format, use HH:MM")
)

// ParseDate reads a YYYY-MM-DD calendar day. A full RFC 3339 timestamp is reduced to its
// date part as written, never shifted across time zones.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) > len(DateLayout) && value[len(DateLayout)] == 'T' {
		value = value[:len(DateLayout)]
	}
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// NormalizeClock turns "H:MM", "HH:MM" or "HH:MM:SS" into "HH:MM".
func NormalizeClock(value string) (string, error) {
	h, m, ok := entity.ParseClock(value)
	if !ok {
		return "", ErrInvalidTime
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

// FormatDate renders the stored calendar day.
func FormatDate(d time.Time) string {
	return d.UTC().Format(DateLayout)
}

// WallClock re-labels the clinic local time of t as UTC so it compares directly with
// Appointment.StartsAt.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), time.UTC)
}

// Today is the clinic calendar day of t at 00:00 UTC.
func Today(t time.Time, loc *time.Location) time.Time {
	w := WallClock(t, loc)
	return time.Date(w.Year(), w.Month(), w.Day(), 0, 0, 0, 0, time.UTC)
}

// JoinSymptoms stores symptom tags comma separated, dropping blanks.
func JoinSymptoms(symptoms []string) string {
	out := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	symptoms := a.SymptomList()
	if symptoms == nil {
		symptoms = []string{}
	}

	return &dto.AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		PatientName:  a.Patient.FullName(),
		DoctorID:     a.DoctorID,
		DoctorName:   a.Doctor.FullName(),
		Date:         FormatDate(a.Date),
		Time:         a.Time,
		Specialty:    a.SpecialtyOrDefault(),
		Reason:       a.Reason,
		Symptoms:     symptoms,
		Office:       a.Office,
		Status:       string(a.Status),
		Absent:       a.Absent,
		Notes:        a.Notes,
		Observations: a.Observations,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
