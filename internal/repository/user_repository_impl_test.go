package repository

import (
	"testing"

	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_FindByEmailIsCaseInsensitive(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()
	created := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)

	got, err := repo.FindByEmail(db, "  USER1@clinica.pe ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, entity.RolePatient, got.Role.RoleName)

	missing, err := repo.FindByEmail(db, "nadie@clinica.pe")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_FindAllFiltersAndPages(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()
	testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)
	for i := 2; i <= 6; i++ {
		testutil.CreateUser(t, db, i, entity.RoleIDPatient)
	}

	patients, total, err := repo.FindAll(db, entity.UserFilter{RoleID: entity.RoleIDPatient, Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, patients, 2)
	assert.Equal(t, "user4@clinica.pe", patients[0].Email)

	found, total, err := repo.FindAll(db, entity.UserFilter{Search: "USER6"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "user6@clinica.pe", found[0].Email)

	count, err := repo.Count(db)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)
}

func TestUserRepository_UpdateRoleAndStatus(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()
	user := testutil.CreateUser(t, db, 1, entity.RoleIDPatient)

	rows, err := repo.UpdateRole(db, user.ID, entity.RoleIDDoctor)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = repo.UpdateStatus(db, user.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := repo.FindByID(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleIDDoctor, got.RoleID)
	assert.False(t, got.Active())

	rows, err = repo.UpdateStatus(db, 999, true)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestUserRepository_FindByDocumentNumber(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository()
	created := testutil.CreateUser(t, db, 7, entity.RoleIDPatient)

	got, err := repo.FindByDocumentNumber(db, "00000007")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)

	missing, err := repo.FindByDocumentNumber(db, "99999999")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
