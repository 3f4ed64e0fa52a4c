// Package testutil opens throwaway databases for tests.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"medical-appointments/internal/domain/entity"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter atomic.Int64

// NewDB returns a migrated in-memory sqlite database with the roles seeded. Each call
// gets its own database; a single connection keeps transactions serialized.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Doctor{},
		&entity.Appointment{},
		&entity.AuditLog{},
	))

	roles := []entity.Role{
		{ID: entity.RoleIDAdmin, RoleName: entity.RoleAdmin, Description: "Administrador"},
		{ID: entity.RoleIDDoctor, RoleName: entity.RoleDoctor, Description: "Médico"},
		{ID: entity.RoleIDPatient, RoleName: entity.RolePatient, Description: "Paciente"},
	}
	require.NoError(t, db.Create(&roles).Error)

	return db
}

func Bool(b bool) *bool { return &b }

// Day is the calendar day at 00:00 UTC, the stored form of appointment dates.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateUser inserts an active user with the given role; email and document derive from n.
func CreateUser(t *testing.T, db *gorm.DB, n int, roleID int) *entity.User {
	t.Helper()
	user := &entity.User{
		RoleID:          roleID,
		DocumentType:    entity.DocumentTypeDNI,
		DocumentNumber:  fmt.Sprintf("%08d", n),
		FirstName:       fmt.Sprintf("Nombre%d", n),
		PaternalSurname: "Quispe",
		Email:           fmt.Sprintf("user%d@clinica.pe", n),
		Password:        "x",
		IsActive:        Bool(true),
	}
	require.NoError(t, db.Omit("Role").Create(user).Error)
	return user
}

func CreateDoctor(t *testing.T, db *gorm.DB, n int, specialty string) *entity.Doctor {
	t.Helper()
	doctor := &entity.Doctor{
		FirstName: fmt.Sprintf("Doctor%d", n),
		LastName:  "Rojas",
		Specialty: specialty,
		Email:     fmt.Sprintf("doctor%d@clinica.pe", n),
		Office:    "Consultorio 101",
		IsActive:  Bool(true),
	}
	require.NoError(t, db.Create(doctor).Error)
	return doctor
}

func CreateAppointment(t *testing.T, db *gorm.DB, a entity.Appointment) *entity.Appointment {
	t.Helper()
	if a.Status == "" {
		a.Status = entity.AppointmentStatusPending
	}
	require.NoError(t, db.Omit("Patient", "Doctor").Create(&a).Error)
	return &a
}
