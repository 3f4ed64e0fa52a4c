package repository

import (
	"errors"
	"strings"

	"medical-appointments/internal/domain/entity"
	domainRepo "medical-appointments/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Omit(clause.Associations).Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id uint) (*entity.User, error) {
	var user entity.User
	err := db.Preload("Role").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Preload("Role").Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByDocumentNumber(db *gorm.DB, documentNumber string) (*entity.User, error) {
	var user entity.User
	err := db.Where("document_number = ?", strings.TrimSpace(documentNumber)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(db *gorm.DB, filter entity.UserFilter) ([]entity.User, int64, error) {
	query := db.Model(&entity.User{})
	if filter.RoleID != 0 {
		query = query.Where("role_id = ?", filter.RoleID)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(paternal_surname) LIKE ? OR LOWER(email) LIKE ? OR document_number LIKE ?",
			like, like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(entity.Offset(filter.Page, filter.Limit))
	}

	var users []entity.User
	if err := query.Preload("Role").Order("id ASC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Omit(clause.Associations).Save(user).Error
}

func (r *userRepository) UpdateRole(db *gorm.DB, id uint, roleID int) (int64, error) {
	result := db.Model(&entity.User{}).Where("id = ?", id).Update("role_id", roleID)
	return result.RowsAffected, result.Error
}

func (r *userRepository) UpdateStatus(db *gorm.DB, id uint, active bool) (int64, error) {
	result := db.Model(&entity.User{}).Where("id = ?", id).Update("is_active", active)
	return result.RowsAffected, result.Error
}

func (r *userRepository) Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.User{}).Count(&total).Error
	return total, err
}
