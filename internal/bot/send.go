package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/economy"
)

// sendMessage sends a message, logging failures instead of propagating them.
func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.sendMessage(msg)
}

// notify delivers a notification intent best-effort. A delivery failure is
// logged and swallowed; it never rolls back or fails the operation that
// produced the intent.
func (b *Bot) notify(n economy.Notification) {
	var text string
	switch n.Kind {
	case economy.NotifyCodeRedeemed:
		text = fmt.Sprintf("🎟 Your promo code %s was redeemed by user %d (+%d coins for them).", n.Code, n.ActorID, n.Amount)
	case economy.NotifyBalanceGranted:
		if n.Amount >= 0 {
			text = fmt.Sprintf("💸 An admin credited %d coins to your balance.", n.Amount)
		} else {
			text = fmt.Sprintf("💸 An admin deducted %d coins from your balance.", -n.Amount)
		}
	default:
		return
	}

	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(n.UserID, text)); err != nil {
		b.logger.Warn("Failed to deliver notification",
			zap.Error(err),
			zap.Int64("user_id", n.UserID),
			zap.String("kind", string(n.Kind)),
		)
	}
}
