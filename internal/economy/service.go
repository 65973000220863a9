package economy

import (
	"math/rand/v2"
	"time"

	"coinbot/internal/storage"
)

const (
	// LuckCooldown is the window between two luck-reward claims.
	LuckCooldown = 24 * time.Hour
	// LuckMaxPayout bounds the uniformly random luck payout: [0, LuckMaxPayout].
	LuckMaxPayout = 1000

	// Guessing-game stakes.
	GameWinAmount  = 50
	GameLossAmount = 10
	GameChoices    = 3

	codeLength   = 8
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Service implements the economy engines on top of a Store: promo-code
// redemption and creation, the timed luck reward, balance grants and the
// guessing minigame. It is transport-independent; outbound messages to third
// parties are expressed as Notification intents for the caller to deliver.
type Service struct {
	store storage.Store

	// randInt returns a uniform value in [0, n). Overridable in tests.
	randInt func(n int) int
}

// NewService creates an economy service over the given store.
func NewService(store storage.Store) *Service {
	return &Service{
		store:   store,
		randInt: rand.IntN,
	}
}

// NotificationKind identifies what a notification intent is about.
type NotificationKind string

const (
	// NotifyCodeRedeemed targets a promo code's creator after a redemption.
	NotifyCodeRedeemed NotificationKind = "code_redeemed"
	// NotifyBalanceGranted targets the recipient of an admin balance grant.
	NotifyBalanceGranted NotificationKind = "balance_granted"
)

// Notification is a fire-and-forget outbound intent. Delivery is the
// transport adapter's responsibility; its failure never affects the operation
// that produced the intent.
type Notification struct {
	UserID  int64
	Kind    NotificationKind
	Code    string
	Amount  int64
	ActorID int64
}
