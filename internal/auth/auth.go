package auth

import (
	"context"

	"coinbot/internal/storage"
)

// Capability is a user's privilege level. Levels are ordered: Owner implies
// Admin, Admin implies User.
type Capability int

const (
	User Capability = iota
	Admin
	Owner
)

func (c Capability) String() string {
	switch c {
	case Owner:
		return "owner"
	case Admin:
		return "admin"
	default:
		return "user"
	}
}

// AtLeast reports whether c grants everything the required level does.
func (c Capability) AtLeast(required Capability) bool {
	return c >= required
}

// Gate resolves capabilities from the current roster state. It caches nothing
// beyond the store's own reads, so demotions take effect immediately.
type Gate struct {
	store storage.Store
}

func NewGate(store storage.Store) *Gate {
	return &Gate{store: store}
}

// Capability returns the user's current privilege level.
func (g *Gate) Capability(ctx context.Context, userID int64) (Capability, error) {
	if userID == g.store.OwnerID() {
		return Owner, nil
	}
	isAdmin, err := g.store.IsAdmin(ctx, userID)
	if err != nil {
		return User, err
	}
	if isAdmin {
		return Admin, nil
	}
	return User, nil
}
