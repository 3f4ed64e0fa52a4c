package usecase

import (
	"context"
	"io"
	"time"

	"medical-appointments/internal/delivery/http/middleware"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/repository"
	"medical-appointments/internal/service"
	"medical-appointments/pkg/jwt"

	"github.com/sirupsen/logrus"
)

// Tuesday 2026-03-10 10:00 in the clinic zone.
var (
	clinicZone = time.FixedZone("PET", -5*60*60)
	fixedNow   = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return fixedNow }

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newAudit(log *logrus.Logger) service.AuditService {
	return service.NewAuditService(log, repository.NewAuditLogRepository())
}

func asUser(id uint, roleID int) context.Context {
	return middleware.WithIdentity(context.Background(), &jwt.Claims{
		UserID:  id,
		RoleID:  roleID,
		TokenID: "tok",
	})
}

func asPatient(u *entity.User) context.Context {
	return asUser(u.ID, entity.RoleIDPatient)
}

func asAdmin(u *entity.User) context.Context {
	return asUser(u.ID, entity.RoleIDAdmin)
}

func strPtr(s string) *string { return &s }
