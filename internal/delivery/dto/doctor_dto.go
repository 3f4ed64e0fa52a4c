package dto

import "time"

// Request DTOs

type CreateDoctorRequest struct {
	FirstName    string `json:"first_name" validate:"required,min=2,max=100"`
	LastName     string `json:"last_name" validate:"required,min=2,max=100"`
	Specialty    string `json:"specialty" validate:"required,max=100"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"omitempty,min=6,max=20"`
	Office       string `json:"office" validate:"omitempty,max=150"`
	WorkSchedule string `json:"work_schedule" validate:"omitempty,max=255"`
}

type UpdateDoctorRequest struct {
	FirstName    *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName     *string `json:"last_name" validate:"omitempty,min=2,max=100"`
	Specialty    *string `json:"specialty" validate:"omitempty,max=100"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,min=6,max=20"`
	Office       *string `json:"office" validate:"omitempty,max=150"`
	WorkSchedule *string `json:"work_schedule" validate:"omitempty,max=255"`
	IsActive     *bool   `json:"is_active"`
}

// Response DTOs

type DoctorResponse struct {
	ID           uint      `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Specialty    string    `json:"specialty"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Office       string    `json:"office,omitempty"`
	WorkSchedule string    `json:"work_schedule,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
