package bot

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/economy"
	"coinbot/internal/storage"
)

// handleMessage processes a single inbound message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.reply(message.Chat.ID, "An error occurred while processing your request. Please try again.")
		}
	}()

	if message.From == nil {
		return
	}
	userID := message.From.ID
	ctx := context.Background()

	if message.IsCommand() {
		// Any command interrupts a pending dialog
		b.dialogs.Take(userID)

		switch message.Command() {
		case "start":
			b.handleStart(ctx, message)
		default:
			b.reply(message.Chat.ID, "Unknown command. Use /start to open the menu.")
		}
		return
	}

	// A pending dialog consumes the next text message unconditionally
	if state, ok := b.dialogs.Take(userID); ok {
		b.handleDialogInput(ctx, message, state)
		return
	}

	b.handleRedeemAttempt(ctx, message)
}

// handleRedeemAttempt treats free text as an implicit promo-code attempt.
// Text matching no known code is ordinary chat and is silently ignored.
func (b *Bot) handleRedeemAttempt(ctx context.Context, message *tgbotapi.Message) {
	userID := message.From.ID

	result, err := b.economy.Redeem(ctx, userID, message.Text)
	switch {
	case errors.Is(err, economy.ErrNotAPromoCode):
		return
	case errors.Is(err, storage.ErrCodeExhausted):
		b.reply(message.Chat.ID, "😕 This promo code has already been used up.")
		return
	case err != nil:
		b.logger.Error("Failed to redeem promo code",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		b.reply(message.Chat.ID, "Something went wrong, please try again later.")
		return
	}

	b.reply(message.Chat.ID, promoRedeemedText(result))
	b.notify(result.Notify)
}

// handleCallbackQuery processes inline keyboard button presses
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	// Answer the callback query to remove the loading state
	if b.api != nil {
		if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
			b.logger.Warn("Failed to answer callback query", zap.Error(err))
		}
	}

	if query.Message == nil {
		return
	}
	ctx := context.Background()

	data := query.Data
	if strings.HasPrefix(data, gameChoicePrefix) {
		b.handleGameChoice(ctx, query)
		return
	}
	b.handleMenuAction(ctx, query)
}
