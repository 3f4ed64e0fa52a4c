package repository

import (
	"time"

	"medical-appointments/internal/domain/entity"

	"gorm.io/gorm"
)

// StatusCount and SpecialtyCount are grouped aggregate rows.
type StatusCount struct {
	Status entity.AppointmentStatus
	Count  int64
}

type SpecialtyCount struct {
	Specialty string
	Count     int64
}

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uint) (*entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	FindByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.Appointment, error)
	FindOpenFrom(db *gorm.DB, from time.Time) ([]entity.Appointment, error)
	FindHistory(db *gorm.DB) ([]entity.Appointment, error)
	Update(db *gorm.DB, appointment *entity.Appointment) error
	Cancel(db *gorm.DB, id uint, notes string) (int64, error)
	Count(db *gorm.DB) (int64, error)
	CountByStatus(db *gorm.DB) ([]StatusCount, error)
	CountBySpecialty(db *gorm.DB) ([]SpecialtyCount, error)
	DatesBetween(db *gorm.DB, from, to time.Time) ([]time.Time, error)
}
