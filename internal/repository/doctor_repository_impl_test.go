package repository

import (
	"testing"

	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorRepository_FindAllAndDeactivate(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDoctorRepository()
	cardio := testutil.CreateDoctor(t, db, 1, "Cardiología")
	testutil.CreateDoctor(t, db, 2, "Cardiología")
	testutil.CreateDoctor(t, db, 3, "Pediatría")

	rows, err := repo.SetActive(db, cardio.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	active, err := repo.FindAll(db, entity.DoctorFilter{Specialty: "Cardiología", ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "doctor2@clinica.pe", active[0].Email)

	all, err := repo.FindAll(db, entity.DoctorFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := repo.CountActive(db)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestDoctorRepository_FindByIDForUpdateInsideTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDoctorRepository()
	doctor := testutil.CreateDoctor(t, db, 1, "Traumatología")

	tx := db.Begin()
	defer tx.Rollback()

	got, err := repo.FindByIDForUpdate(tx, doctor.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Active())

	missing, err := repo.FindByIDForUpdate(tx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
	require.NoError(t, tx.Commit().Error)
}

func TestDoctorRepository_FindByEmail(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewDoctorRepository()
	created := testutil.CreateDoctor(t, db, 4, "Dermatología")

	got, err := repo.FindByEmail(db, "DOCTOR4@clinica.pe")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	missing, err := repo.FindByEmail(db, "nadie@clinica.pe")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
