package auth

import (
	"context"
	"errors"
	"strings"

	"biblioteca/internal/platform/apperr"
	"biblioteca/internal/platform/crypto"
	"biblioteca/internal/user"
)

var ErrInvalidCredentials = apperr.Unauthenticated("invalid credentials")

type CredentialLookup interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

// LoginUser is the identity returned by a successful login.
type LoginUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	RoleID   int64  `json:"role_id"`
}

type Service struct {
	users CredentialLookup
}

func NewService(users CredentialLookup) *Service {
	return &Service{users: users}
}

func (s *Service) Login(ctx context.Context, username, password string) (LoginUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginUser{}, apperr.Validation("VALIDATION_ERROR", "username and password are required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return LoginUser{}, ErrInvalidCredentials
		}
		return LoginUser{}, err
	}
	if !crypto.VerifyPassword(u.PasswordHash, password) {
		return LoginUser{}, ErrInvalidCredentials
	}

	return LoginUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.RoleName,
		RoleID:   u.RoleID,
	}, nil
}
