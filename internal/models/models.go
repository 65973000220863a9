package models

import "time"

// Account holds a user's coin balance and luck-reward cooldown record
type Account struct {
	UserID        int64
	Balance       int64
	LastLuckClaim *time.Time // nil = never claimed
}

// PromoCode is a redeemable code granting a fixed payout up to MaxUses redemptions
type PromoCode struct {
	Code      string // canonical upper-case
	Value     int64
	Uses      int
	MaxUses   int
	CreatedBy int64
	CreatedAt time.Time
}

// Exhausted reports whether the code has reached its use cap
func (c PromoCode) Exhausted() bool {
	return c.Uses >= c.MaxUses
}
