package handler

import (
	"encoding/json"
	"net/http"

	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/usecase"
	"medical-appointments/pkg/response"
	"medical-appointments/pkg/validator"
)

const defaultUserPageSize = 20

type UserHandler struct {
	userUsecase usecase.UserUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(userUsecase usecase.UserUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
		validator:   validator,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUsecase.GetProfile(r.Context())
	if err != nil {
		writeUserError(w, err, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", user)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.UpdateProfile(r.Context(), &req)
	if err != nil {
		writeUserError(w, err, "Failed to update profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", user)
}

// ListUsers supports ?role=&search=&page=&limit=.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := entity.UserFilter{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", defaultUserPageSize),
	}
	if role := r.URL.Query().Get("role"); role != "" {
		roleID, ok := entity.RoleIDByName(role)
		if !ok {
			response.Error(w, http.StatusBadRequest, "Invalid role", nil)
			return
		}
		filter.RoleID = roleID
	}

	users, err := h.userUsecase.ListUsers(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get users")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Users retrieved successfully", users,
		response.NewMeta(filter.Page, filter.Limit, users.Total))
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	user, err := h.userUsecase.GetUser(r.Context(), id)
	if err != nil {
		writeUserError(w, err, "Failed to get user")
		return
	}

	response.Success(w, http.StatusOK, "User retrieved successfully", user)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req dto.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.UpdateUser(r.Context(), id, &req)
	if err != nil {
		writeUserError(w, err, "Failed to update user")
		return
	}

	response.Success(w, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req dto.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.ChangeRole(r.Context(), id, &req)
	if err != nil {
		writeUserError(w, err, "Failed to change role")
		return
	}

	response.Success(w, http.StatusOK, "Role updated successfully", user)
}

func (h *UserHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.userUsecase.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		writeUserError(w, err, "Failed to change status")
		return
	}

	response.Success(w, http.StatusOK, "Status updated successfully", user)
}

func writeUserError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "Invalid token")
	case usecase.ErrUserNotFound:
		response.NotFound(w, "User not found")
	case usecase.ErrEmailAlreadyExists:
		response.Conflict(w, "Email already exists")
	case usecase.ErrDocumentAlreadyExists:
		response.Conflict(w, "Document number already exists")
	case usecase.ErrRoleNotFound:
		response.Error(w, http.StatusBadRequest, "Role not found", nil)
	case usecase.ErrInvalidDate:
		response.Error(w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
