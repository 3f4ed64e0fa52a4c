package repository

import (
	"medical-appointments/internal/domain/entity"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uint) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)
	FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.User, error)
	FindAll(db *gorm.DB, filter entity.UserFilter) ([]entity.User, int64, error)
	Update(db *gorm.DB, user *entity.User) error
	UpdateRole(db *gorm.DB, id uint, roleID int) (int64, error)
	UpdateStatus(db *gorm.DB, id uint, active bool) (int64, error)
	Count(db *gorm.DB) (int64, error)
}
