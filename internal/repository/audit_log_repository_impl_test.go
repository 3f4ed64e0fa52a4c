package repository

import (
	"testing"

	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditLogRepository()
	user := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)

	for _, action := range []string{entity.AuditActionDoctorCreate, entity.AuditActionAppointmentCreate, entity.AuditActionAppointmentCreate} {
		require.NoError(t, repo.Create(db, &entity.AuditLog{
			UserID:   &user.ID,
			Action:   action,
			Metadata: datatypes.JSONMap{"entity": "appointment", "entity_id": "1"},
		}))
	}
	require.NoError(t, repo.Create(db, &entity.AuditLog{Action: entity.AuditActionAnalyticsDigest}))

	logs, total, err := repo.FindAll(db, entity.AuditLogFilter{Action: entity.AuditActionAppointmentCreate})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, logs, 2)
	assert.Greater(t, logs[0].ID, logs[1].ID)
	require.NotNil(t, logs[0].User)
	assert.Equal(t, entity.RoleAdmin, logs[0].User.Role.RoleName)
	assert.Equal(t, "appointment", logs[0].Metadata["entity"])

	page, total, err := repo.FindAll(db, entity.AuditLogFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 1)

	got, err := repo.FindByID(db, logs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AuditActionAppointmentCreate, got.Action)

	missing, err := repo.FindByID(db, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
