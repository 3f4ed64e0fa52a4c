package repository

import (
	"errors"
	"time"

	"medical-appointments/internal/domain/entity"
	domainRepo "medical-appointments/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var terminalStatuses = []entity.AppointmentStatus{
	entity.AppointmentStatusCompleted,
	entity.AppointmentStatusCancelled,
	entity.AppointmentStatusAbsent,
}

var openStatuses = []entity.AppointmentStatus{
	entity.AppointmentStatusPending,
	entity.AppointmentStatusConfirmed,
}

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient").Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	query := db.Model(&entity.Appointment{})
	if filter.Date != nil {
		query = query.Where("date = ?", *filter.Date)
	}
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PatientID != 0 {
		query = query.Where("patient_id = ?", filter.PatientID)
	}
	if filter.DoctorID != 0 {
		query = query.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.Specialty != "" {
		query = query.Where("specialty = ?", filter.Specialty)
	}

	var appointments []entity.Appointment
	err := query.Preload("Patient").Preload("Doctor").
		Order("date DESC, time ASC, id DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindByDoctorAndDate returns every appointment of the doctor on that calendar day,
// whatever its status; the conflict rules decide which ones block.
func (r *appointmentRepository) FindByDoctorAndDate(db *gorm.DB, doctorID uint, date time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// FindOpenFrom returns pending and confirmed appointments dated on or after from.
func (r *appointmentRepository) FindOpenFrom(db *gorm.DB, from time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("date >= ? AND status IN ?", from, openStatuses).
		Order("date ASC, time ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindHistory(db *gorm.DB) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	if err := db.Order("date ASC, time ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) Update(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Omit(clause.Associations).Save(appointment).Error
}

// Cancel moves a non-terminal appointment to cancelada. Returns affected rows:
// 1 = cancelled, 0 = missing or already terminal.
func (r *appointmentRepository) Cancel(db *gorm.DB, id uint, notes string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status NOT IN ?", id, terminalStatuses).
		Updates(map[string]interface{}{
			"status": entity.AppointmentStatusCancelled,
			"notes":  notes,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) Count(db *gorm.DB) (int64, error) {
	var total int64
	err := db.Model(&entity.Appointment{}).Count(&total).Error
	return total, err
}

func (r *appointmentRepository) CountByStatus(db *gorm.DB) ([]domainRepo.StatusCount, error) {
	var rows []domainRepo.StatusCount
	err := db.Model(&entity.Appointment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&rows).Error
	return rows, err
}

func (r *appointmentRepository) CountBySpecialty(db *gorm.DB) ([]domainRepo.SpecialtyCount, error) {
	var rows []domainRepo.SpecialtyCount
	err := db.Model(&entity.Appointment{}).
		Select("specialty, COUNT(*) AS count").
		Group("specialty").
		Order("count DESC, specialty").
		Scan(&rows).Error
	return rows, err
}

// DatesBetween plucks appointment dates in [from, to).
func (r *appointmentRepository) DatesBetween(db *gorm.DB, from, to time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := db.Model(&entity.Appointment{}).
		Where("date >= ? AND date < ?", from, to).
		Pluck("date", &dates).Error
	return dates, err
}
