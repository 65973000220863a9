package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/auth"
	"coinbot/internal/dialog"
	"coinbot/internal/storage"
)

// handleDialogInput applies the caller's text as the payload of their pending
// dialog state. The state is already consumed by the caller: whatever happens
// below, validation failure included, the admin must reselect the action to
// retry. Authorization is re-checked here, at execution time, so an admin
// demoted mid-dialog cannot have the action applied.
func (b *Bot) handleDialogInput(ctx context.Context, message *tgbotapi.Message, state dialog.State) {
	userID := message.From.ID
	chatID := message.Chat.ID

	required := auth.Admin
	if state == dialog.AwaitingAdminAdd || state == dialog.AwaitingAdminRemove {
		required = auth.Owner
	}

	cap, err := b.gate.Capability(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to resolve capability", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	if !cap.AtLeast(required) {
		b.reply(chatID, "⛔ You are not allowed to do that.")
		return
	}

	switch state {
	case dialog.AwaitingAdminAdd:
		b.applyAdminAdd(ctx, chatID, message.Text)
	case dialog.AwaitingAdminRemove:
		b.applyAdminRemove(ctx, chatID, message.Text)
	case dialog.AwaitingPromoSpec:
		b.applyPromoSpec(ctx, chatID, userID, message.Text)
	case dialog.AwaitingGrantSpec:
		b.applyGrantSpec(ctx, chatID, userID, message.Text)
	}
}

func (b *Bot) applyAdminAdd(ctx context.Context, chatID int64, text string) {
	id, err := dialog.ParseUserID(text)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	if err := b.store.AddAdmin(ctx, id); err != nil {
		b.logger.Error("Failed to add admin", zap.Error(err), zap.Int64("target_id", id))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ User %d is now an admin.", id))
}

func (b *Bot) applyAdminRemove(ctx context.Context, chatID int64, text string) {
	id, err := dialog.ParseUserID(text)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}
	err = b.store.RemoveAdmin(ctx, id)
	switch {
	case errors.Is(err, storage.ErrIsOwner):
		b.reply(chatID, "⛔ The owner cannot be removed.")
	case errors.Is(err, storage.ErrNotAdmin):
		b.reply(chatID, fmt.Sprintf("User %d is not an admin.", id))
	case err != nil:
		b.logger.Error("Failed to remove admin", zap.Error(err), zap.Int64("target_id", id))
		b.reply(chatID, "Something went wrong, please try again later.")
	default:
		b.reply(chatID, fmt.Sprintf("✅ User %d is no longer an admin.", id))
	}
}

func (b *Bot) applyPromoSpec(ctx context.Context, chatID, userID int64, text string) {
	spec, err := dialog.ParsePromoSpec(text)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}

	promo, err := b.economy.CreatePromo(ctx, userID, spec.Value, spec.MaxUses, spec.Code)
	switch {
	case errors.Is(err, storage.ErrCodeExists):
		b.reply(chatID, "❌ A promo code with that name already exists.")
	case err != nil:
		b.logger.Error("Failed to create promo code", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
	default:
		b.reply(chatID, fmt.Sprintf("✅ Promo code created:\n%s — %d coins, %d uses", promo.Code, promo.Value, promo.MaxUses))
	}
}

func (b *Bot) applyGrantSpec(ctx context.Context, chatID, userID int64, text string) {
	spec, err := dialog.ParseGrantSpec(text)
	if err != nil {
		b.reply(chatID, "❌ "+err.Error())
		return
	}

	acct, notification, err := b.economy.Grant(ctx, userID, spec.UserID, spec.Amount)
	if err != nil {
		b.logger.Error("Failed to grant balance",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("target_id", spec.UserID),
		)
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}

	b.reply(chatID, fmt.Sprintf("✅ User %d now has %d coins.", spec.UserID, acct.Balance))
	b.notify(notification)
}
