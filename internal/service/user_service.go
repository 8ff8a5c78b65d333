package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/callcenter-service/internal/auth"
	"github.com/spec-kit/callcenter-service/internal/config"
	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// UserService covers profile management and the admin user directory.
type UserService struct {
	users repository.UserRepository
	stats repository.StatsRepository
	cfg   config.AuthConfig
}

// UserDependencies bundles collaborators.
type UserDependencies struct {
	UserRepo  repository.UserRepository
	StatsRepo repository.StatsRepository
	Auth      config.AuthConfig
}

// ProfileUpdate carries self-service profile changes; nil leaves a field
// untouched.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Address  *string
	Password *string
}

// StaffCreateInput describes an account created by an admin.
type StaffCreateInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
	Role     domain.UserRole
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{users: deps.UserRepo, stats: deps.StatsRepo, cfg: deps.Auth}
}

// Get fetches one user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// List returns the full directory, optionally filtered by role; admin only.
func (s *UserService) List(ctx context.Context, role *domain.UserRole) ([]domain.User, error) {
	if role != nil {
		return s.users.ListByRole(ctx, *role)
	}
	return s.users.ListAll(ctx)
}

// UpdateProfile applies self-service changes to the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name must not be empty", nil)
		}
		user.Name = name
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	if update.Address != nil {
		user.Address = update.Address
	}
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password, s.cfg.BcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStaff provisions an employee or admin account; admin only.
func (s *UserService) CreateStaff(ctx context.Context, input StaffCreateInput) (*domain.User, error) {
	if input.Role != domain.UserRoleEmployee && input.Role != domain.UserRoleAdmin {
		return nil, apperrors.NewValidationError("role must be employee or admin", nil)
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if err != nil && err != pgx.ErrNoRows {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        input.Phone,
		Role:         input.Role,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetStatus suspends or reactivates an account; admin only.
func (s *UserService) SetStatus(ctx context.Context, userID string, status domain.UserStatus) (*domain.User, error) {
	if status != domain.UserStatusActive && status != domain.UserStatusSuspended {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes an account's role; admin only. Admins cannot demote
// themselves, which keeps at least one admin reachable.
func (s *UserService) SetRole(ctx context.Context, actor *domain.User, userID string, role domain.UserRole) (*domain.User, error) {
	switch role {
	case domain.UserRoleCustomer, domain.UserRoleEmployee, domain.UserRoleAdmin:
	default:
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}
	if actor != nil && actor.ID == userID {
		return nil, apperrors.NewValidationError("cannot change your own role", nil)
	}
	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// Delete removes an account; admin only. Self-deletion is rejected.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, userID string) error {
	if actor != nil && actor.ID == userID {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return nil
}

// StatsOverview returns the admin dashboard counters.
func (s *UserService) StatsOverview(ctx context.Context) (*repository.StatsOverview, error) {
	return s.stats.Overview(ctx)
}
