package usecase

import (
	"context"
	"strings"

	"medical-appointments/internal/converter"
	"medical-appointments/internal/delivery/dto"
	"medical-appointments/internal/delivery/http/middleware"
	"medical-appointments/internal/domain/entity"
	"medical-appointments/internal/domain/repository"
	"medical-appointments/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const maxUserPageSize = 100

type UserUsecase interface {
	GetProfile(ctx context.Context) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context, filter entity.UserFilter) (*dto.UserListResponse, error)
	GetUser(ctx context.Context, id uint) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	ChangeRole(ctx context.Context, id uint, req *dto.UpdateRoleRequest) (*dto.UserResponse, error)
	ChangeStatus(ctx context.Context, id uint, req *dto.UpdateStatusRequest) (*dto.UserResponse, error)
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	tokenStore   *service.TokenStore
	auditService service.AuditService
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokenStore *service.TokenStore,
	auditService service.AuditService,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		tokenStore:   tokenStore,
		auditService: auditService,
	}
}

func (u *userUsecase) GetProfile(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return u.GetUser(ctx, userID)
}

func (u *userUsecase) UpdateProfile(ctx context.Context, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return u.UpdateUser(ctx, userID, &dto.UpdateUserRequest{UpdateProfileRequest: *req})
}

func (u *userUsecase) ListUsers(ctx context.Context, filter entity.UserFilter) (*dto.UserListResponse, error) {
	if filter.Limit > maxUserPageSize {
		filter.Limit = maxUserPageSize
	}

	users, total, err := u.userRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to find users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: total,
	}, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id uint) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return converter.UserToResponse(user), nil
}

// UpdateUser applies the non-nil fields of req.
func (u *userUsecase) UpdateUser(ctx context.Context, id uint, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	oldValue := converter.UserToResponse(user)

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			other, err := u.userRepo.FindByEmail(tx, email)
			if err != nil {
				u.log.Warnf("Failed to find user by email: %+v", err)
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if req.DocumentNumber != nil {
		number := strings.TrimSpace(*req.DocumentNumber)
		if number != user.DocumentNumber {
			other, err := u.userRepo.FindByDocumentNumber(tx, number)
			if err != nil {
				u.log.Warnf("Failed to find user by document: %+v", err)
				return nil, err
			}
			if other != nil && other.ID != user.ID {
				return nil, ErrDocumentAlreadyExists
			}
			user.DocumentNumber = number
		}
	}
	if req.DocumentType != nil {
		user.DocumentType = *req.DocumentType
	}
	if req.VerifierDigit != nil {
		user.VerifierDigit = *req.VerifierDigit
	}
	if err := applyProfile(user, &req.UpdateProfileRequest); err != nil {
		return nil, err
	}

	if err := u.userRepo.Update(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isDuplicateKeyError(err, "document") {
			return nil, ErrDocumentAlreadyExists
		}
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}

	newValue := converter.UserToResponse(user)
	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), entity.AuditActionUserUpdate, "user", idString(user.ID), oldValue, newValue); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return newValue, nil
}

// ChangeRole revokes every token of the user so the new role applies on next login.
func (u *userUsecase) ChangeRole(ctx context.Context, id uint, req *dto.UpdateRoleRequest) (*dto.UserResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	role, err := u.roleRepo.FindByName(tx, req.Role)
	if err != nil {
		u.log.Warnf("Failed to find role by name: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}
	roleID := role.ID

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	oldRole := entity.RoleNameByID(user.RoleID)

	if _, err := u.userRepo.UpdateRole(tx, id, roleID); err != nil {
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to update role: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), entity.AuditActionUserRoleChange, "user", idString(id),
		map[string]string{"role": oldRole}, map[string]string{"role": req.Role}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.revokeTokens(ctx, id)

	user.RoleID = roleID
	user.Role = entity.Role{}
	return converter.UserToResponse(user), nil
}

// ChangeStatus enables or disables an account. Disabling revokes all tokens.
func (u *userUsecase) ChangeStatus(ctx context.Context, id uint, req *dto.UpdateStatusRequest) (*dto.UserResponse, error) {
	active := *req.IsActive

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.userRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	wasActive := user.Active()

	if _, err := u.userRepo.UpdateStatus(tx, id, active); err != nil {
		u.log.Warnf("Failed to update user status: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogUpdate(ctx, tx, actor(ctx), entity.AuditActionUserStatus, "user", idString(id),
		map[string]bool{"is_active": wasActive}, map[string]bool{"is_active": active}); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	if !active {
		u.revokeTokens(ctx, id)
	}

	user.IsActive = &active
	return converter.UserToResponse(user), nil
}

// revokeTokens runs after commit; a Redis failure is logged and does not undo the change.
func (u *userUsecase) revokeTokens(ctx context.Context, userID uint) {
	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke tokens of user %d: %+v", userID, err)
	}
}

func applyProfile(user *entity.User, req *dto.UpdateProfileRequest) error {
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.PaternalSurname != nil {
		user.PaternalSurname = strings.TrimSpace(*req.PaternalSurname)
	}
	if req.MaternalSurname != nil {
		user.MaternalSurname = strings.TrimSpace(*req.MaternalSurname)
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			user.BirthDate = nil
		} else {
			birth, err := converter.ParseDate(*req.BirthDate)
			if err != nil {
				return err
			}
			user.BirthDate = &birth
		}
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hashed)
	}
	return nil
}
