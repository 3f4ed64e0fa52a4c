package converter

import (
	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:           doctor.ID,
		FirstName:    doctor.FirstName,
		LastName:     doctor.LastName,
		FullName:     doctor.FullName(),
		Specialty:    doctor.Specialty,
		Email:        doctor.Email,
		Phone:        doctor.Phone,
		Office:       doctor.Office,
		WorkSchedule: doctor.WorkSchedule,
		IsActive:     doctor.Active(),
		CreatedAt:    doctor.CreatedAt,
		UpdatedAt:    doctor.UpdatedAt,
	}
}

// DoctorsToResponses converts a slice of Doctor entities to slice of DoctorResponse DTOs
func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
