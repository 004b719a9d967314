package auth

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"biblioteca/internal/platform/apperr"
	"biblioteca/internal/user"
)

//go:generate mockgen -source=gate.go -destination=mock_gate_test.go -package=auth
//go:generate mockgen -source=service.go -destination=mock_service_test.go -package=auth

// UserLookup resolves a user id to the stored user and its role.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (user.User, error)
}

// Principal is the resolved caller of an authorized request.
type Principal struct {
	UserID int64
	Role   string
	Tier   Tier
}

// Gate authorizes callers identified by a numeric user id. Roles are read from
// the store on every call.
type Gate struct {
	users UserLookup
}

func NewGate(users UserLookup) *Gate {
	return &Gate{users: users}
}

// Authorize resolves identity and checks it against the required tier.
func (g *Gate) Authorize(ctx context.Context, identity string, required Tier) (Tier, error) {
	p, err := g.authorize(ctx, identity, required)
	if err != nil {
		return TierDefault, err
	}
	return p.Tier, nil
}

func (g *Gate) authorize(ctx context.Context, identity string, required Tier) (Principal, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return Principal{}, apperr.Unauthenticated("user id required")
	}
	id, err := strconv.ParseInt(identity, 10, 64)
	if err != nil || id <= 0 {
		return Principal{}, apperr.Unauthenticated("invalid user id")
	}

	u, err := g.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Principal{}, apperr.Unauthenticated("unknown user")
		}
		return Principal{}, err
	}

	p := Principal{UserID: u.ID, Role: u.RoleName, Tier: TierForRole(u.RoleName)}
	if !p.Tier.Satisfies(required) {
		return Principal{}, apperr.Forbidden(forbiddenMessage(required)).With("required", required.String())
	}
	return p, nil
}

func forbiddenMessage(required Tier) string {
	if required == TierAdmin {
		return "admin role required"
	}
	return "manager or admin role required"
}
