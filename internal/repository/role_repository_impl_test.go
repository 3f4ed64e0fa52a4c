package repository

import (
	"testing"

	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleRepository_FindByName(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewRoleRepository()

	role, err := repo.FindByName(db, entity.RoleDoctor)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, entity.RoleIDDoctor, role.ID)

	missing, err := repo.FindByName(db, "enfermera")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
