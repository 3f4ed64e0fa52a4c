package dto

// UpdateProfileRequest carries the fields a user may change on their own record.
// Nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName       *string `json:"first_name" validate:"omitempty,min=2,max=100"`
	PaternalSurname *string `json:"paternal_surname" validate:"omitempty,min=2,max=100"`
	MaternalSurname *string `json:"maternal_surname" validate:"omitempty,max=100"`
	BirthDate       *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Phone           *string `json:"phone" validate:"omitempty,min=6,max=20"`
	Password        *string `json:"password" validate:"omitempty,min=6"`
}

// UpdateUserRequest is the admin edit; it may also change identity fields.
type UpdateUserRequest struct {
	UpdateProfileRequest
	DocumentType   *string `json:"document_type" validate:"omitempty,oneof=dni pasaporte"`
	DocumentNumber *string `json:"document_number" validate:"omitempty,min=8,max=20"`
	VerifierDigit  *string `json:"verifier_digit" validate:"omitempty,len=1"`
	Email          *string `json:"email" validate:"omitempty,email"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin medico paciente"`
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Total int64          `json:"total"`
}
