package usecase

import (
	"context"
	"testing"
	"time"

	"medical-appointments/config"
	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/repository"
	"medical-appointments/internal/testutil"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppointmentUsecase(t *testing.T) (AppointmentUsecase, *gorm.DB) {
	t.Helper()
	return newAppointmentUsecaseWith(t, config.BookingConfig{})
}

func newAppointmentUsecaseWith(t *testing.T, booking config.BookingConfig) (AppointmentUsecase, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	log := quietLogger()
	uc := NewAppointmentUsecase(
		db,
		log,
		repository.NewAppointmentRepository(),
		repository.NewDoctorRepository(),
		repository.NewUserRepository(),
		newAudit(log),
		cache.New(time.Minute, time.Minute),
		booking,
		clinicZone,
		fixedClock,
	)
	return uc, db
}

func TestCreateAppointment_DefaultsFromDoctorAndAudits(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	patient := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Cardiología")

	got, err := uc.CreateAppointment(asPatient(patient), &dto.CreateAppointmentRequest{
		DoctorID: doctor.ID,
		Date:     "2026-03-12",
		Time:     "9:00:00",
		Symptoms: []string{"Tos", " Fiebre alta "},
		Notes:    "Traer análisis",
	})
	require.NoError(t, err)

	assert.Equal(t, patient.ID, got.PatientID)
	assert.Equal(t, "2026-03-12", got.Date)
	assert.Equal(t, "09:00", got.Time)
	assert.Equal(t, "Cardiología", got.Specialty)
	assert.Equal(t, "Consultorio 101", got.Office)
	assert.Equal(t, string(entity.AppointmentStatusPending), got.Status)
	assert.Equal(t, []string{"Tos", "Fiebre alta"}, got.Symptoms)
	assert.Equal(t, "Traer análisis", got.Observations)
	assert.Equal(t, "Doctor1 Rojas", got.DoctorName)

	var logs []entity.AuditLog
	require.NoError(t, db.Where("action = ?", entity.AuditActionAppointmentCreate).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, patient.ID, *logs[0].UserID)
}

func TestCreateAppointment_RejectsTakenSlotUntilCancelled(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	first := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	second := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Pediatría")

	req := &dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-12", Time: "10:00"}
	booked, err := uc.CreateAppointment(asPatient(first), req)
	require.NoError(t, err)

	_, err = uc.CreateAppointment(asPatient(second), &dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-12", Time: "10:00:00"})
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = uc.CancelAppointment(asPatient(first), booked.ID)
	require.NoError(t, err)

	rebooked, err := uc.CreateAppointment(asPatient(second), req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusPending), rebooked.Status)
	assert.Equal(t, second.ID, rebooked.PatientID)
}

func TestCreateAppointment_PastDatesWhenAllowed(t *testing.T) {
	uc, db := newAppointmentUsecaseWith(t, config.BookingConfig{AllowPastDates: true})
	first := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	second := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Pediatría")

	req := &dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2025-06-10", Time: "09:00"}
	booked, err := uc.CreateAppointment(asPatient(first), req)
	require.NoError(t, err)

	_, err = uc.CreateAppointment(asPatient(second), req)
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = uc.CancelAppointment(asPatient(first), booked.ID)
	require.NoError(t, err)

	rebooked, err := uc.CreateAppointment(asPatient(second), req)
	require.NoError(t, err)
	assert.Equal(t, string(entity.AppointmentStatusPending), rebooked.Status)
}

func TestCreateAppointment_ValidationErrors(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	patient := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Pediatría")
	inactive := testutil.CreateDoctor(t, db, 2, "Pediatría")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	ctx := asPatient(patient)

	tests := []struct {
		name string
		req  dto.CreateAppointmentRequest
		want error
	}{
		{"bad date", dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "12/03/2026", Time: "10:00"}, ErrInvalidDate},
		{"bad time", dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-12", Time: "25:00"}, ErrInvalidTime},
		{"earlier today", dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-10", Time: "09:00"}, ErrAppointmentInPast},
		{"missing doctor", dto.CreateAppointmentRequest{DoctorID: 999, Date: "2026-03-12", Time: "10:00"}, ErrDoctorNotFound},
		{"inactive doctor", dto.CreateAppointmentRequest{DoctorID: inactive.ID, Date: "2026-03-12", Time: "10:00"}, ErrDoctorInactive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.CreateAppointment(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	later, err := uc.CreateAppointment(ctx, &dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-10", Time: "11:00"})
	require.NoError(t, err)
	assert.Equal(t, "11:00", later.Time)
}

func TestAdminCreateAppointment_RequiresActivePatient(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	patient := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Dermatología")
	require.NoError(t, db.Model(patient).Update("is_active", false).Error)

	req := &dto.AdminCreateAppointmentRequest{
		CreateAppointmentRequest: dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-12", Time: "15:00"},
		PatientID:                patient.ID,
	}
	_, err := uc.AdminCreateAppointment(asAdmin(admin), req)
	assert.ErrorIs(t, err, ErrPatientInactive)

	req.PatientID = 999
	_, err = uc.AdminCreateAppointment(asAdmin(admin), req)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestUpdateAppointment_OwnerAndReschedule(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	owner := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	stranger := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Traumatología")

	mine := testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: owner.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 12), Time: "09:00",
	})
	testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: stranger.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 12), Time: "11:00",
	})

	_, err := uc.UpdateAppointment(asPatient(stranger), mine.ID, &dto.UpdateAppointmentRequest{Reason: strPtr("x")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.UpdateAppointment(asPatient(owner), mine.ID, &dto.UpdateAppointmentRequest{Time: strPtr("11:00")})
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = uc.UpdateAppointment(asPatient(owner), mine.ID, &dto.UpdateAppointmentRequest{Date: strPtr("2026-03-01")})
	assert.ErrorIs(t, err, ErrAppointmentInPast)

	got, err := uc.UpdateAppointment(asPatient(owner), mine.ID, &dto.UpdateAppointmentRequest{
		Time:   strPtr("09:00:00"),
		Reason: strPtr("Control"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Control", got.Reason)

	got, err = uc.UpdateAppointment(asPatient(owner), mine.ID, &dto.UpdateAppointmentRequest{Time: strPtr("14:00")})
	require.NoError(t, err)
	assert.Equal(t, "14:00", got.Time)

	_, err = uc.UpdateAppointment(asPatient(owner), 999, &dto.UpdateAppointmentRequest{})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAdminUpdateAppointment_Lifecycle(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	patient := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Oftalmología")
	ctx := asAdmin(admin)

	absent := testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 12), Time: "09:00",
	})
	got, err := uc.AdminUpdateAppointment(ctx, absent.ID, &dto.AdminUpdateAppointmentRequest{Status: strPtr("ausente")})
	require.NoError(t, err)
	assert.True(t, got.Absent)
	assert.Equal(t, "ausente", got.Status)

	_, err = uc.AdminUpdateAppointment(ctx, absent.ID, &dto.AdminUpdateAppointmentRequest{Status: strPtr("pendiente")})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	got, err = uc.AdminUpdateAppointment(ctx, absent.ID, &dto.AdminUpdateAppointmentRequest{Observations: strPtr("No contestó")})
	require.NoError(t, err)
	assert.Equal(t, "No contestó", got.Observations)
	assert.Equal(t, "No contestó", got.Notes)

	_, err = uc.AdminUpdateAppointment(ctx, absent.ID, &dto.AdminUpdateAppointmentRequest{
		UpdateAppointmentRequest: dto.UpdateAppointmentRequest{Time: strPtr("15:00")},
	})
	assert.ErrorIs(t, err, ErrAppointmentClosed)

	open := testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 13), Time: "09:00",
	})
	got, err = uc.AdminUpdateAppointment(ctx, open.ID, &dto.AdminUpdateAppointmentRequest{Status: strPtr("cancelada")})
	require.NoError(t, err)
	assert.Equal(t, "[Cancelada el: 2026-03-10T10:00:00-05:00]", got.Notes)

	_, err = uc.AdminUpdateAppointment(ctx, open.ID, &dto.AdminUpdateAppointmentRequest{Status: strPtr("otro")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancelAppointment_AppendsMarkerOnce(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	patient := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Ginecología")
	a := testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 12), Time: "16:00", Notes: "Traer análisis",
	})

	got, err := uc.CancelAppointment(asPatient(patient), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelada", got.Status)
	assert.Equal(t, "Traer análisis\n[Cancelada el: 2026-03-10T10:00:00-05:00]", got.Notes)

	_, err = uc.CancelAppointment(asPatient(patient), a.ID)
	assert.ErrorIs(t, err, ErrAppointmentClosed)

	var stored entity.Appointment
	require.NoError(t, db.First(&stored, a.ID).Error)
	assert.Equal(t, got.Notes, stored.Notes)
}

func TestCheckAvailability(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	patient := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Pediatría")
	testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 10), Time: "11:00",
	})
	testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 10), Time: "14:00",
		Status: entity.AppointmentStatusCancelled,
	})
	ctx := asPatient(patient)

	got, err := uc.CheckAvailability(ctx, &dto.AvailabilityRequest{DoctorID: doctor.ID, Date: "2026-03-10"})
	require.NoError(t, err)
	assert.True(t, got.Available)
	assert.Equal(t, "OK", got.Verdict)
	assert.Equal(t, []string{"14:00", "15:00", "16:00", "17:00"}, got.FreeSlots)

	got, err = uc.CheckAvailability(ctx, &dto.AvailabilityRequest{DoctorID: doctor.ID, Date: "2026-03-10", Time: "11:00:00"})
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, "CONFLICT", got.Verdict)

	_, err = uc.CheckAvailability(ctx, &dto.AvailabilityRequest{DoctorID: 999, Date: "2026-03-10"})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetAppointment_Visibility(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	owner := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	other := testutil.CreateUser(t, db, 3, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Pediatría")
	a := testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: owner.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 3, 12), Time: "08:00",
	})

	_, err := uc.GetAppointment(asPatient(owner), a.ID)
	assert.NoError(t, err)
	_, err = uc.GetAppointment(asAdmin(admin), a.ID)
	assert.NoError(t, err)
	_, err = uc.GetAppointment(asPatient(other), a.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = uc.GetAppointment(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestListAppointments(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	patient := testutil.CreateUser(t, db, 2, entity.RoleIDPatient)
	cardio := testutil.CreateDoctor(t, db, 1, "Cardiología")
	pedia := testutil.CreateDoctor(t, db, 2, "Pediatría")
	testutil.CreateAppointment(t, db, entity.Appointment{PatientID: patient.ID, DoctorID: cardio.ID, Date: testutil.Day(2026, 3, 12), Time: "08:00"})
	testutil.CreateAppointment(t, db, entity.Appointment{PatientID: patient.ID, DoctorID: pedia.ID, Date: testutil.Day(2026, 3, 14), Time: "08:00"})

	got, err := uc.ListAppointments(asAdmin(admin), dto.AppointmentQuery{DoctorID: cardio.ID})
	require.NoError(t, err)
	require.Equal(t, 1, got.Total)
	assert.Equal(t, cardio.ID, got.Appointments[0].DoctorID)
	assert.Equal(t, cardio.ID, got.Filters.DoctorID)

	mine, err := uc.ListMyAppointments(asPatient(patient))
	require.NoError(t, err)
	require.Equal(t, 2, mine.Total)
	assert.Equal(t, "2026-03-14", mine.Appointments[0].Date)

	_, err = uc.ListAppointments(asAdmin(admin), dto.AppointmentQuery{Status: "perdida"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
	_, err = uc.ListAppointments(asAdmin(admin), dto.AppointmentQuery{From: "ayer"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestGetStats_CachedUntilWrite(t *testing.T) {
	uc, db := newAppointmentUsecase(t)
	patient := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)
	doctor := testutil.CreateDoctor(t, db, 1, "Cardiología")
	testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 2, 2), Time: "08:00", Specialty: "Cardiología",
		Status: entity.AppointmentStatusCompleted,
	})
	testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 2, 3), Time: "08:00",
		Status: entity.AppointmentStatusCancelled,
	})
	ctx := asPatient(patient)

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.ByStatus["cancelada"])
	assert.Equal(t, int64(0), stats.ByStatus["pendiente"])
	assert.Equal(t, int64(1), stats.BySpecialty[entity.DefaultSpecialty])
	assert.Equal(t, 50, stats.AbsenceRate)

	testutil.CreateAppointment(t, db, entity.Appointment{
		PatientID: patient.ID, DoctorID: doctor.ID, Date: testutil.Day(2026, 2, 4), Time: "08:00",
	})
	stats, err = uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total, "served from cache")

	_, err = uc.CreateAppointment(ctx, &dto.CreateAppointmentRequest{DoctorID: doctor.ID, Date: "2026-03-12", Time: "08:00"})
	require.NoError(t, err)
	stats, err = uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
}
