package user

import (
	"time"

	"biblioteca/internal/platform/apperr"
	"biblioteca/internal/role"
)

var (
	ErrNotFound      = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrUsernameTaken = apperr.Conflict("USERNAME_TAKEN", "username already exists")
	ErrEmailTaken    = apperr.Conflict("EMAIL_TAKEN", "email already exists")
	ErrInvalidRole   = apperr.Validation("INVALID_ROLE", "role_id does not reference an existing role")
	ErrHasLoans      = apperr.Conflict("USER_HAS_LOANS", "user issued loans and cannot be deleted")
)

// User is the stored account. PasswordHash never leaves the service layer.
type User struct {
	ID              int64
	Username        string
	PasswordHash    string
	Email           string
	RoleID          int64
	RoleName        string
	RoleDescription *string
	CreatedAt       time.Time
}

// DTO is the public representation of a user.
type DTO struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	RoleID    int64     `json:"role_id"`
	Role      role.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) DTO() DTO {
	return DTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		RoleID:   u.RoleID,
		Role: role.Role{
			ID:          u.RoleID,
			Name:        u.RoleName,
			Description: u.RoleDescription,
		},
		CreatedAt: u.CreatedAt,
	}
}

func DTOs(users []User) []DTO {
	out := make([]DTO, 0, len(users))
	for _, u := range users {
		out = append(out, u.DTO())
	}
	return out
}

type CreateInput struct {
	Username string
	Password string
	Email    string
	RoleID   int64
}

// UpdateInput holds a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Username *string
	Password *string
	Email    *string
	RoleID   *int64
}
