package rules

import (
	"errors"
	"time"

	"medical-appointments/internal/domain/entity"
)

var (
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrDoctorInactive  = errors.New("doctor is not active")
	ErrPatientNotFound = errors.New("patient not found")
	ErrPatientInactive = errors.New("patient is not active")
)

// Verdict is the outcome of a conflict check.
type Verdict string

const (
	VerdictOK       Verdict = "OK"
	VerdictConflict Verdict = "CONFLICT"
)

// Slot is a candidate booking. Date must be a calendar day at 00:00 UTC and Time
// a normalized "HH:MM" string. ExcludeID skips the appointment being rescheduled.
type Slot struct {
	DoctorID  uint
	Date      time.Time
	Time      string
	ExcludeID uint
}

// ValidateParticipants checks the doctor and patient of a booking before the slot is examined.
func ValidateParticipants(doctor *entity.Doctor, patient *entity.User) error {
	if doctor == nil {
		return ErrDoctorNotFound
	}
	if !doctor.Active() {
		return ErrDoctorInactive
	}
	if patient == nil {
		return ErrPatientNotFound
	}
	if !patient.Active() {
		return ErrPatientInactive
	}
	return nil
}

// CheckConflict returns VerdictConflict when an existing appointment of the same doctor
// occupies the same day and time and is neither cancelled nor completed.
func CheckConflict(slot Slot, existing []entity.Appointment) Verdict {
	for i := range existing {
		a := &existing[i]
		if a.ID != 0 && a.ID == slot.ExcludeID {
			continue
		}
		if a.DoctorID != slot.DoctorID || !a.BlocksSlot() {
			continue
		}
		if sameDay(a.Date, slot.Date) && sameClock(a.Time, slot.Time) {
			return VerdictConflict
		}
	}
	return VerdictOK
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func sameClock(a, b string) bool {
	ah, am, aok := entity.ParseClock(a)
	bh, bm, bok := entity.ParseClock(b)
	if !aok || !bok {
		return a == b
	}
	return ah == bh && am == bm
}
