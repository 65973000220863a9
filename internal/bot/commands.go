package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/auth"
	"coinbot/internal/economy"
)

// handleStart ensures the user's account exists and shows the main menu.
func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	acct, err := b.store.GetOrCreateAccount(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to ensure account",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.reply(message.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	cap, err := b.gate.Capability(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to resolve capability", zap.Error(err), zap.Int64("user_id", userID))
		cap = auth.User
	}

	text := fmt.Sprintf("Welcome to Coin Bot! 🪙\n\n💰 Your balance: %d coins", acct.Balance)
	b.replyWithKeyboard(message.Chat.ID, text, mainMenuKeyboard(cap.AtLeast(auth.Admin)))
}

func promoRedeemedText(result economy.RedeemResult) string {
	return fmt.Sprintf("🎉 Promo code %s redeemed! +%d coins.\n💰 Your balance: %d coins",
		result.Code, result.Payout, result.NewBalance)
}
