package converter

import (
	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The role name falls back to the seeded name when Role is not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleNameByID(user.RoleID)
	}

	response := &dto.UserResponse{
		ID:              user.ID,
		DocumentType:    user.DocumentType,
		DocumentNumber:  user.DocumentNumber,
		VerifierDigit:   user.VerifierDigit,
		FirstName:       user.FirstName,
		PaternalSurname: user.PaternalSurname,
		MaternalSurname: user.MaternalSurname,
		FullName:        user.FullName(),
		Email:           user.Email,
		Phone:           user.Phone,
		RoleID:          user.RoleID,
		Role:            role,
		IsActive:        user.Active(),
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}

	if user.BirthDate != nil {
		birth := FormatDate(*user.BirthDate)
		response.BirthDate = &birth
	}

	return response
}

// UsersToResponses converts a slice of User entities to slice of UserResponse DTOs
func UsersToResponses(users []entity.User) []dto.UserResponse {
	responses := make([]dto.UserResponse, len(users))
	for i := range users {
		responses[i] = *UserToResponse(&users[i])
	}
	return responses
}
