package storage

import (
	"context"
	"errors"
	"time"

	"coinbot/internal/models"
)

// Sentinel errors returned by Store implementations. Callers match with errors.Is.
var (
	ErrCodeNotFound  = errors.New("promo code not found")
	ErrCodeExists    = errors.New("promo code already exists")
	ErrCodeExhausted = errors.New("promo code exhausted")
	ErrOnCooldown    = errors.New("luck reward on cooldown")
	ErrNotAdmin      = errors.New("user is not an admin")
	ErrIsOwner       = errors.New("owner cannot be removed")
)

// Store defines the interface for the shared economic state: accounts,
// promo codes and the admin roster. Every mutating operation is atomic with
// respect to concurrent callers on the same key, and is durably persisted
// before it returns success.
type Store interface {
	// Account operations
	GetOrCreateAccount(ctx context.Context, userID int64) (models.Account, error)
	AdjustBalance(ctx context.Context, userID int64, delta int64) (models.Account, error)

	// ClaimLuck atomically checks the cooldown window and, if eligible,
	// records the claim time and credits the payout. On rejection it returns
	// the unmodified account together with ErrOnCooldown so the caller can
	// compute the remaining wait.
	ClaimLuck(ctx context.Context, userID int64, now time.Time, cooldown time.Duration, payout int64) (models.Account, error)

	// Promo code operations
	GetCode(ctx context.Context, code string) (models.PromoCode, error)
	CreateCode(ctx context.Context, code models.PromoCode) error

	// RedeemCode atomically increments the code's use counter and credits its
	// value to the user's account. With one use left, exactly one of two
	// concurrent redemptions succeeds; the other observes ErrCodeExhausted.
	RedeemCode(ctx context.Context, code string, userID int64) (int64, models.Account, error)
	ListCodes(ctx context.Context) ([]models.PromoCode, error)

	// Admin roster operations. The owner is configured at startup, is always
	// a member of the roster and can never be removed.
	AddAdmin(ctx context.Context, userID int64) error
	RemoveAdmin(ctx context.Context, userID int64) error
	IsAdmin(ctx context.Context, userID int64) (bool, error)
	ListAdmins(ctx context.Context) ([]int64, error)
	OwnerID() int64

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
