package auth

import "biblioteca/internal/role"

// Tier is the privilege level derived from a role name.
type Tier int

const (
	TierDefault Tier = iota
	TierManager
	TierAdmin
)

func (t Tier) String() string {
	switch t {
	case TierAdmin:
		return "admin"
	case TierManager:
		return "manager"
	default:
		return "default"
	}
}

// TierForRole maps a role name to its tier. Unknown names are read-only.
func TierForRole(name string) Tier {
	switch name {
	case role.NameAdmin:
		return TierAdmin
	case role.NameGestor:
		return TierManager
	default:
		return TierDefault
	}
}

// Satisfies reports whether t grants at least the required tier.
func (t Tier) Satisfies(required Tier) bool {
	return t >= required
}
