package user

import (
	"context"
	"errors"
	"strings"

	"biblioteca/internal/platform/apperr"
	"biblioteca/internal/platform/crypto"
	"biblioteca/internal/role"
)

type Service struct {
	repo  Repository
	roles RoleLookup
}

func NewService(repo Repository, roles RoleLookup) *Service {
	return &Service{repo: repo, roles: roles}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) GetByID(ctx context.Context, id int64) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	ro, err := s.resolveRole(ctx, in.RoleID)
	if err != nil {
		return User{}, err
	}
	if err := s.ensureUnique(ctx, &in.Username, &in.Email, 0); err != nil {
		return User{}, err
	}

	hash, err := crypto.HashPassword(in.Password)
	if err != nil {
		if errors.Is(err, crypto.ErrEmptyPassword) {
			return User{}, apperr.Validation("VALIDATION_ERROR", "password is required")
		}
		return User{}, apperr.Wrap(err, "hash password")
	}

	u := &User{
		Username:        in.Username,
		PasswordHash:    hash,
		Email:           in.Email,
		RoleID:          ro.ID,
		RoleName:        ro.Name,
		RoleDescription: ro.Description,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return *u, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		in.Username = &v
	}
	if in.Email != nil {
		v := strings.TrimSpace(*in.Email)
		in.Email = &v
	}
	if err := s.ensureUnique(ctx, in.Username, in.Email, id); err != nil {
		return User{}, err
	}

	if in.RoleID != nil {
		ro, err := s.resolveRole(ctx, *in.RoleID)
		if err != nil {
			return User{}, err
		}
		u.RoleID, u.RoleName, u.RoleDescription = ro.ID, ro.Name, ro.Description
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	// An empty password in an update means "keep the current one".
	if in.Password != nil && *in.Password != "" {
		hash, err := crypto.HashPassword(*in.Password)
		if err != nil {
			return User{}, apperr.Wrap(err, "hash password")
		}
		u.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, &u); err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if apperr.HasCode(err, "REFERENCE_VIOLATION") {
		return ErrHasLoans
	}
	return err
}

func (s *Service) resolveRole(ctx context.Context, id int64) (role.Role, error) {
	ro, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, role.ErrNotFound) {
			return role.Role{}, ErrInvalidRole
		}
		return role.Role{}, err
	}
	return ro, nil
}

func (s *Service) ensureUnique(ctx context.Context, username, email *string, excludeID int64) error {
	if username != nil {
		taken, err := s.repo.UsernameTaken(ctx, *username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameTaken
		}
	}
	if email != nil {
		taken, err := s.repo.EmailTaken(ctx, *email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
	}
	return nil
}

// mapUniqueViolation covers the race between ensureUnique and the write.
func mapUniqueViolation(err error) error {
	ae, ok := apperr.As(err)
	if !ok || ae.Code != "DUPLICATE_VALUE" {
		return err
	}
	switch ae.Context["constraint"] {
	case "users_username_key":
		return ErrUsernameTaken
	case "users_email_key":
		return ErrEmailTaken
	}
	return err
}
