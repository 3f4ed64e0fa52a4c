package repository

import (
	"errors"
	"strings"

	"medical-appointments/internal/domain/entity"
	domainRepo "medical-appointments/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorRepository struct{}

func NewDoctorRepository() domainRepo.DoctorRepository {
	return &doctorRepository{}
}

func (r *doctorRepository) Create(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Create(doctor).Error
}

func (r *doctorRepository) FindByID(db *gorm.DB, id uint) (*entity.Doctor, error) {
	return r.first(db, id)
}

// FindByIDForUpdate issues SELECT ... FOR UPDATE; dialects without row locks drop the clause.
func (r *doctorRepository) FindByIDForUpdate(db *gorm.DB, id uint) (*entity.Doctor, error) {
	return r.first(db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *doctorRepository) FindByEmail(db *gorm.DB, email string) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) first(db *gorm.DB, id uint) (*entity.Doctor, error) {
	var doctor entity.Doctor
	err := db.Where("id = ?", id).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) FindAll(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, error) {
	query := db.Model(&entity.Doctor{})
	if filter.Specialty != "" {
		query = query.Where("specialty = ?", filter.Specialty)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var doctors []entity.Doctor
	if err := query.Order("last_name ASC, first_name ASC").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) Update(db *gorm.DB, doctor *entity.Doctor) error {
	return db.Save(doctor).Error
}

func (r *doctorRepository) SetActive(db *gorm.DB, id uint, active bool) (int64, error) {
	result := db.Model(&entity.Doctor{}).Where("id = ?", id).Update("is_active", active)
	return result.RowsAffected, result.Error
}

func (r *doctorRepository) CountActive(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Doctor{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}
