package repository

import (
	"medical-appointments/internal/domain/entity"

	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uint) (*entity.Doctor, error)
	// FindByIDForUpdate locks the doctor row until the surrounding transaction ends.
	FindByIDForUpdate(db *gorm.DB, id uint) (*entity.Doctor, error)
	FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error)
	FindAll(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error)
	Update(db *gorm.DB, doctor *entity.Doctor) error
	SetActive(db *gorm.DB, id uint, active bool) (int64, error)
	CountActive(db *gorm.DB) (int64, error)
}
