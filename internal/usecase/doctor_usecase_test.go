package usecase

import (
	"testing"

	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/repository"
	"medical-appointments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDoctorUsecase(t *testing.T) (DoctorUsecase, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	log := quietLogger()
	return NewDoctorUsecase(db, log, repository.NewDoctorRepository(), newAudit(log)), db
}

func TestDoctorUsecase_CreateUpdateDeactivate(t *testing.T) {
	uc, db := newDoctorUsecase(t)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	ctx := asAdmin(admin)

	created, err := uc.CreateDoctor(ctx, &dto.CreateDoctorRequest{
		FirstName: "Ana",
		LastName:  "Torres",
		Specialty: "Neurología",
		Email:     "Ana.Torres@clinica.pe",
		Office:    "Hospital Central - Piso 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana.torres@clinica.pe", created.Email)
	assert.True(t, created.IsActive)

	_, err = uc.CreateDoctor(ctx, &dto.CreateDoctorRequest{
		FirstName: "Otra", LastName: "Persona", Specialty: "Neurología", Email: "ana.torres@clinica.pe",
	})
	assert.ErrorIs(t, err, ErrDoctorEmailExists)

	updated, err := uc.UpdateDoctor(ctx, created.ID, &dto.UpdateDoctorRequest{WorkSchedule: strPtr("Lun-Vie 08:00-14:00")})
	require.NoError(t, err)
	assert.Equal(t, "Lun-Vie 08:00-14:00", updated.WorkSchedule)
	assert.Equal(t, "Neurología", updated.Specialty)

	require.NoError(t, uc.DeactivateDoctor(ctx, created.ID))
	got, err := uc.GetDoctor(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err := uc.ListDoctors(ctx, entity.DoctorFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 0, active.Total)

	var actions []string
	require.NoError(t, db.Model(&entity.AuditLog{}).Order("id").Pluck("action", &actions).Error)
	assert.Equal(t, []string{entity.AuditActionDoctorCreate, entity.AuditActionDoctorUpdate, entity.AuditActionDoctorDeactivate}, actions)
}

func TestDoctorUsecase_NotFound(t *testing.T) {
	uc, db := newDoctorUsecase(t)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	ctx := asAdmin(admin)

	_, err := uc.GetDoctor(ctx, 42)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	_, err = uc.UpdateDoctor(ctx, 42, &dto.UpdateDoctorRequest{})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
	assert.ErrorIs(t, uc.DeactivateDoctor(ctx, 42), ErrDoctorNotFound)
}
