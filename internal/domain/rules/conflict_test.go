package rules

import (
	"testing"
	"time"

	"medical-appointments/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func boolPtr(b bool) *bool { return &b }

func TestCheckConflict(t *testing.T) {
	date := day(2025, time.June, 10)
	existing := func(status entity.AppointmentStatus) []entity.Appointment {
		return []entity.Appointment{{ID: 1, DoctorID: 7, Date: date, Time: "09:00", Status: status}}
	}

	tests := []struct {
		name     string
		slot     Slot
		existing []entity.Appointment
		want     Verdict
	}{
		{"pending occupies slot", Slot{DoctorID: 7, Date: date, Time: "09:00"}, existing(entity.AppointmentStatusPending), VerdictConflict},
		{"confirmed occupies slot", Slot{DoctorID: 7, Date: date, Time: "09:00"}, existing(entity.AppointmentStatusConfirmed), VerdictConflict},
		{"absent still occupies slot", Slot{DoctorID: 7, Date: date, Time: "09:00"}, existing(entity.AppointmentStatusAbsent), VerdictConflict},
		{"cancelled frees slot", Slot{DoctorID: 7, Date: date, Time: "09:00"}, existing(entity.AppointmentStatusCancelled), VerdictOK},
		{"completed frees slot", Slot{DoctorID: 7, Date: date, Time: "09:00"}, existing(entity.AppointmentStatusCompleted), VerdictOK},
		{"other doctor", Slot{DoctorID: 8, Date: date, Time: "09:00"}, existing(entity.AppointmentStatusPending), VerdictOK},
		{"other time", Slot{DoctorID: 7, Date: date, Time: "10:00"}, existing(entity.AppointmentStatusPending), VerdictOK},
		{"other day", Slot{DoctorID: 7, Date: day(2025, time.June, 11), Time: "09:00"}, existing(entity.AppointmentStatusPending), VerdictOK},
		{"seconds are ignored", Slot{DoctorID: 7, Date: date, Time: "09:00:00"}, existing(entity.AppointmentStatusPending), VerdictConflict},
		{"rescheduling itself", Slot{DoctorID: 7, Date: date, Time: "09:00", ExcludeID: 1}, existing(entity.AppointmentStatusPending), VerdictOK},
		{"no appointments", Slot{DoctorID: 7, Date: date, Time: "09:00"}, nil, VerdictOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckConflict(tt.slot, tt.existing))
		})
	}
}

func TestCheckConflict_ComparesCalendarDayInUTC(t *testing.T) {
	lima := time.FixedZone("PET", -5*3600)
	stored := []entity.Appointment{{ID: 1, DoctorID: 1, Date: day(2025, time.June, 10), Time: "09:00", Status: entity.AppointmentStatusPending}}

	// 2025-06-09 19:00 in Lima is 2025-06-10 00:00 UTC.
	slot := Slot{DoctorID: 1, Date: time.Date(2025, time.June, 9, 19, 0, 0, 0, lima), Time: "09:00"}
	assert.Equal(t, VerdictConflict, CheckConflict(slot, stored))
}

func TestValidateParticipants(t *testing.T) {
	activeDoctor := &entity.Doctor{ID: 1, IsActive: boolPtr(true)}
	activePatient := &entity.User{ID: 2, IsActive: boolPtr(true)}

	assert.ErrorIs(t, ValidateParticipants(nil, activePatient), ErrDoctorNotFound)
	assert.ErrorIs(t, ValidateParticipants(&entity.Doctor{IsActive: boolPtr(false)}, activePatient), ErrDoctorInactive)
	assert.ErrorIs(t, ValidateParticipants(activeDoctor, nil), ErrPatientNotFound)
	assert.ErrorIs(t, ValidateParticipants(activeDoctor, &entity.User{IsActive: boolPtr(false)}), ErrPatientInactive)
	assert.NoError(t, ValidateParticipants(activeDoctor, activePatient))
}

func TestFreeSlots(t *testing.T) {
	date := day(2025, time.June, 10)
	existing := []entity.Appointment{
		{ID: 1, DoctorID: 3, Date: date, Time: "08:00", Status: entity.AppointmentStatusPending},
		{ID: 2, DoctorID: 3, Date: date, Time: "09:00", Status: entity.AppointmentStatusCancelled},
		{ID: 3, DoctorID: 3, Date: date, Time: "10:00", Status: entity.AppointmentStatusConfirmed},
	}

	free := FreeSlots(3, date, existing, ClinicHours)

	assert.NotContains(t, free, "08:00")
	assert.Contains(t, free, "09:00")
	assert.NotContains(t, free, "10:00")
	assert.Len(t, free, len(ClinicHours)-2)
}
