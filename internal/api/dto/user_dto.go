package dto

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Phone     *string           `json:"phone,omitempty"`
	Address   *string           `json:"address,omitempty"`
	Role      domain.UserRole   `json:"role"`
	Status    domain.UserStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// CreateStaffRequest payload; admin only.
type CreateStaffRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Phone    *string         `json:"phone"`
	Role     domain.UserRole `json:"role"`
}

// SetUserStatusRequest payload; admin only.
type SetUserStatusRequest struct {
	Status domain.UserStatus `json:"status"`
}

// SetUserRoleRequest payload; admin only.
type SetUserRoleRequest struct {
	Role domain.UserRole `json:"role"`
}
