package usecase

import (
	"context"
	"errors"
	"strings"

	"medical-appointments/internal/converter"
	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/domain/repository"
	"medical-appointments/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDoctorEmailExists = errors.New("doctor email already exists")
)

type DoctorUsecase interface {
	ListDoctors(ctx context.Context, filter entity.DoctorFilter) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, id uint) (*dto.DoctorResponse, error)
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, id uint, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeactivateDoctor(ctx context.Context, id uint) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

func (u *doctorUsecase) ListDoctors(ctx context.Context, filter entity.DoctorFilter) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, id uint) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	active := true
	doctor := &entity.Doctor{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Specialty:    strings.TrimSpace(req.Specialty),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		Office:       req.Office,
		WorkSchedule: req.WorkSchedule,
		IsActive:     &active,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	existing, err := u.doctorRepo.FindByEmail(tx, doctor.Email)
	if err != nil {
		u.log.Warnf("Failed to find doctor by email: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrDoctorEmailExists
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogCreate(ctx, tx, actor(ctx), entity.AuditActionDoctorCreate, "doctor", idString(doctor.ID), response); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return response, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, id uint, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	oldValue := converter.DoctorToResponse(doctor)

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != doctor.Email {
			other, err := u.doctorRepo.FindByEmail(tx, email)
			if err != nil {
				u.log.Warnf("Failed to find doctor by email: %+v", err)
				return nil, err
			}
			if other != nil && other.ID != doctor.ID {
				return nil, ErrDoctorEmailExists
			}
			doctor.Email = email
		}
	}
	if req.FirstName != nil {
		doctor.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		doctor.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Specialty != nil {
		doctor.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.Office != nil {
		doctor.Office = *req.Office
	}
	if req.WorkSchedule != nil {
		doctor.WorkSchedule = *req.WorkSchedule
	}
	if req.IsActive != nil {
		active := *req.IsActive
		doctor.IsActive = &active
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to update doctor: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorToResponse(doctor)
	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), entity.AuditActionDoctorUpdate, "doctor", idString(id), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// DeactivateDoctor is the API's delete. Existing appointments keep referencing the doctor.
func (u *doctorUsecase) DeactivateDoctor(ctx context.Context, id uint) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	rows, err := u.doctorRepo.SetActive(tx, id, false)
	if err != nil {
		u.log.Warnf("Failed to deactivate doctor: %+v", err)
		return err
	}
	if rows == 0 {
		return ErrDoctorNotFound
	}

	if err := u.auditService.LogDelete(ctx, tx, actor(ctx), entity.AuditActionDoctorDeactivate, "doctor", idString(id),
		map[string]bool{"is_active": true}); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}
	return nil
}
