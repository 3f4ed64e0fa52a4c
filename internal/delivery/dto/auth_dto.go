package dto

import "time"

// Request DTOs

type RegisterRequest struct {
	DocumentType    string `json:"document_type" validate:"required,oneof=dni pasaporte"`
	DocumentNumber  string `json:"document_number" validate:"required,min=8,max=20"`
	VerifierDigit   string `json:"verifier_digit" validate:"omitempty,len=1"`
	FirstName       string `json:"first_name" validate:"required,min=2,max=100"`
	PaternalSurname string `json:"paternal_surname" validate:"required,min=2,max=100"`
	MaternalSurname string `json:"maternal_surname" validate:"omitempty,max=100"`
	BirthDate       string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"omitempty,min=6,max=20"`
	Password        string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID              uint      `json:"id"`
	DocumentType    string    `json:"document_type"`
	DocumentNumber  string    `json:"document_number"`
	VerifierDigit   string    `json:"verifier_digit,omitempty"`
	FirstName       string    `json:"first_name"`
	PaternalSurname string    `json:"paternal_surname"`
	MaternalSurname string    `json:"maternal_surname,omitempty"`
	FullName        string    `json:"full_name"`
	BirthDate       *string   `json:"birth_date,omitempty"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone,omitempty"`
	RoleID          int       `json:"role_id"`
	Role            string    `json:"role"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
