package economy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coinbot/internal/storage"
)

// ErrNotAPromoCode marks text that should be silently ignored: empty input,
// commands, or strings matching no known code. Ordinary chat flows through
// the redemption path, so this is not an error to surface to the user.
var ErrNotAPromoCode = errors.New("not a promo code")

// RedeemResult describes a successful redemption.
type RedeemResult struct {
	Code       string
	Payout     int64
	NewBalance int64
	Notify     Notification
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrCodeNotFound)
}

// NormalizeCode canonicalizes promo-code text: trimmed, upper-case.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Redeem applies a promo-code redemption for the user. Unknown text yields
// ErrNotAPromoCode (a no-op for the caller); a recognized but used-up code
// yields storage.ErrCodeExhausted, which is user-visible. On success the
// result carries a notification intent for the code's creator.
func (s *Service) Redeem(ctx context.Context, userID int64, raw string) (RedeemResult, error) {
	code := NormalizeCode(raw)
	if code == "" || strings.HasPrefix(code, "/") {
		return RedeemResult{}, ErrNotAPromoCode
	}

	promo, err := s.store.GetCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return RedeemResult{}, ErrNotAPromoCode
		}
		return RedeemResult{}, fmt.Errorf("failed to look up code: %w", err)
	}

	payout, acct, err := s.store.RedeemCode(ctx, code, userID)
	if err != nil {
		if isNotFound(err) {
			// Deleted between lookup and redeem; treat like unknown text.
			return RedeemResult{}, ErrNotAPromoCode
		}
		return RedeemResult{}, err
	}

	return RedeemResult{
		Code:       code,
		Payout:     payout,
		NewBalance: acct.Balance,
		Notify: Notification{
			UserID:  promo.CreatedBy,
			Kind:    NotifyCodeRedeemed,
			Code:    code,
			Amount:  payout,
			ActorID: userID,
		},
	}, nil
}
