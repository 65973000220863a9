package economy

import (
	"context"
	"time"

	"coinbot/internal/models"
)

// GenerateCode produces a random fixed-length upper-case alphanumeric code.
// Collisions against existing codes are not retried; creation surfaces them.
func (s *Service) GenerateCode() string {
	buf := make([]byte, codeLength)
	for i := range buf {
		buf[i] = codeAlphabet[s.randInt(len(codeAlphabet))]
	}
	return string(buf)
}

// CreatePromo mints a promo code. An empty code means "generate one". A
// collision with an existing code (supplied or generated) surfaces as
// storage.ErrCodeExists and does not alter the existing record.
func (s *Service) CreatePromo(ctx context.Context, creatorID, value int64, maxUses int, code string) (models.PromoCode, error) {
	if code == "" {
		code = s.GenerateCode()
	} else {
		code = NormalizeCode(code)
	}

	promo := models.PromoCode{
		Code:      code,
		Value:     value,
		MaxUses:   maxUses,
		CreatedBy: creatorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateCode(ctx, promo); err != nil {
		return models.PromoCode{}, err
	}
	return promo, nil
}

// Grant adjusts a user's balance by the given amount (negative values are
// penalties), creating the account if it has never been seen. The result
// carries a notification intent for the grant target.
func (s *Service) Grant(ctx context.Context, actorID, userID, amount int64) (models.Account, Notification, error) {
	acct, err := s.store.AdjustBalance(ctx, userID, amount)
	if err != nil {
		return models.Account{}, Notification{}, err
	}
	return acct, Notification{
		UserID:  userID,
		Kind:    NotifyBalanceGranted,
		Amount:  amount,
		ActorID: actorID,
	}, nil
}
