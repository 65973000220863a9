package economy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coinbot/internal/storage"
)

// LuckResult is the outcome of a luck-reward claim. Either Granted is true and
// Amount/NewBalance are set, or the claim was rejected and Remaining holds the
// time left until the next eligible claim.
type LuckResult struct {
	Granted    bool
	Amount     int64
	NewBalance int64
	Remaining  time.Duration
}

// RemainingHoursMinutes decomposes the remaining cooldown into whole hours and
// whole minutes, rounding down, for display.
func (r LuckResult) RemainingHoursMinutes() (int, int) {
	total := int(r.Remaining.Minutes())
	return total / 60, total % 60
}

// ClaimLuck attempts the once-per-24h random payout for the user. The payout
// is uniform in [0, LuckMaxPayout]. A rejected claim mutates nothing.
func (s *Service) ClaimLuck(ctx context.Context, userID int64, now time.Time) (LuckResult, error) {
	payout := int64(s.randInt(LuckMaxPayout + 1))

	acct, err := s.store.ClaimLuck(ctx, userID, now, LuckCooldown, payout)
	if errors.Is(err, storage.ErrOnCooldown) {
		return LuckResult{
			Remaining: LuckCooldown - now.Sub(*acct.LastLuckClaim),
		}, nil
	}
	if err != nil {
		return LuckResult{}, fmt.Errorf("failed to claim luck reward: %w", err)
	}

	return LuckResult{
		Granted:    true,
		Amount:     payout,
		NewBalance: acct.Balance,
	}, nil
}
