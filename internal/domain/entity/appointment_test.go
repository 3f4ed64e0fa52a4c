package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	h, m, ok := ParseClock("09:30")
	assert.True(t, ok)
	assert.Equal(t, 9, h)
	assert.Equal(t, 30, m)

	h, m, ok = ParseClock("17:05:00")
	assert.True(t, ok)
	assert.Equal(t, 17, h)
	assert.Equal(t, 5, m)

	for _, bad := range []string{"", "9", "24:00", "10:60", "ab:cd", "10:00:99", "1:2:3:4"} {
		_, _, ok := ParseClock(bad)
		assert.False(t, ok, bad)
	}
}

func TestAppointment_StartsAt(t *testing.T) {
	a := Appointment{Date: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), Time: "19:45"}
	assert.Equal(t, time.Date(2025, 6, 10, 19, 45, 0, 0, time.UTC), a.StartsAt())

	a.Time = "garbage"
	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), a.StartsAt())
}

func TestAppointment_Predicates(t *testing.T) {
	a := Appointment{Status: AppointmentStatusPending}
	assert.True(t, a.BlocksSlot())
	assert.True(t, a.IsOpen())
	assert.False(t, a.IsAbsence())

	a.Absent = true
	assert.True(t, a.IsAbsence())

	for _, s := range []AppointmentStatus{AppointmentStatusCancelled, AppointmentStatusAbsent} {
		assert.True(t, (&Appointment{Status: s}).IsAbsence(), s)
	}
	assert.False(t, (&Appointment{Status: AppointmentStatusCompleted}).BlocksSlot())
	assert.False(t, (&Appointment{Status: AppointmentStatusCancelled}).BlocksSlot())
}

func TestAppointment_CanTransitionTo(t *testing.T) {
	pending := Appointment{Status: AppointmentStatusPending}
	assert.True(t, pending.CanTransitionTo(AppointmentStatusConfirmed))
	assert.True(t, pending.CanTransitionTo(AppointmentStatusCancelled))
	assert.True(t, pending.CanTransitionTo(AppointmentStatusPending))

	confirmed := Appointment{Status: AppointmentStatusConfirmed}
	assert.False(t, confirmed.CanTransitionTo(AppointmentStatusPending))
	assert.True(t, confirmed.CanTransitionTo(AppointmentStatusCompleted))

	cancelled := Appointment{Status: AppointmentStatusCancelled}
	assert.False(t, cancelled.CanTransitionTo(AppointmentStatusConfirmed))
}

func TestAppointment_SymptomListAndSpecialty(t *testing.T) {
	a := Appointment{Symptoms: "Fiebre alta, Tos ,, Dolor de cabeza"}
	assert.Equal(t, []string{"Fiebre alta", "Tos", "Dolor de cabeza"}, a.SymptomList())
	assert.Nil(t, (&Appointment{}).SymptomList())

	assert.Equal(t, DefaultSpecialty, (&Appointment{Specialty: "  "}).SpecialtyOrDefault())
	assert.Equal(t, "Cardiología", (&Appointment{Specialty: "Cardiología"}).SpecialtyOrDefault())
}

func TestUser_FullNameAndRoles(t *testing.T) {
	u := User{FirstName: "Ana", PaternalSurname: "Quispe", RoleID: RoleIDAdmin}
	assert.Equal(t, "Ana Quispe", u.FullName())
	assert.True(t, u.IsAdmin())
	assert.True(t, u.Active())

	id, ok := RoleIDByName(RolePatient)
	assert.True(t, ok)
	assert.Equal(t, RoleIDPatient, id)
	assert.Equal(t, RoleDoctor, RoleNameByID(RoleIDDoctor))
	_, ok = RoleIDByName("superuser")
	assert.False(t, ok)
}
