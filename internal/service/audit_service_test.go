package service

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/repository"
	"medical-appointments/internal/testutil"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAuditService_LogUpdateStoresBothValues(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAuditLogRepository()
	svc := NewAuditService(quietLogger(), repo)
	admin := testutil.CreateUser(t, db, 1, entity.RoleIDAdmin)

	type state struct {
		Status string `json:"status"`
	}
	err := svc.LogUpdate(context.Background(), db, &admin.ID, entity.AuditActionAppointmentUpdate, "appointment", "7",
		state{Status: "pendiente"}, state{Status: "confirmada"})
	require.NoError(t, err)

	logs, _, err := repo.FindAll(db, entity.AuditLogFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	meta := logs[0].Metadata
	assert.Equal(t, "appointment", meta["entity"])
	assert.Equal(t, "7", meta["entity_id"])
	assert.Equal(t, map[string]interface{}{"status": "pendiente"}, meta["old_value"])
	assert.Equal(t, map[string]interface{}{"status": "confirmada"}, meta["new_value"])
	assert.Equal(t, admin.ID, *logs[0].UserID)
}

func TestAuditService_LogEventWithoutUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewAuditLogRepository()
	svc := NewAuditService(quietLogger(), repo)

	require.NoError(t, svc.LogEvent(context.Background(), db, nil, entity.AuditActionAnalyticsDigest, map[string]interface{}{"alerts": 3}))

	logs, _, err := repo.FindAll(db, entity.AuditLogFilter{Action: entity.AuditActionAnalyticsDigest})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].UserID)
	assert.Equal(t, json.Number("3"), logs[0].Metadata["alerts"])
}
