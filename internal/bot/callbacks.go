package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/auth"
	"coinbot/internal/dialog"
)

const rulesText = `📜 Rules

🍀 Luck — a free random reward of 0..1000 coins, once every 24 hours.
🎮 Game — guess a number from 1 to 3: +50 coins if you win, -10 if you lose.
🎟 Promo code — just send the code as a message to redeem it.`

// handleMenuAction routes a menu button press by its action tag.
func (b *Bot) handleMenuAction(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	switch query.Data {
	case actionGame:
		b.replyWithKeyboard(chatID, "Pick a number from 1 to 3:", gameKeyboard())

	case actionShop:
		acct, err := b.store.GetOrCreateAccount(ctx, userID)
		if err != nil {
			b.logger.Error("Failed to load account for shop", zap.Error(err), zap.Int64("user_id", userID))
			b.reply(chatID, "Something went wrong, please try again later.")
			return
		}
		b.reply(chatID, fmt.Sprintf("🛒 The shop is empty for now.\n💰 Your balance: %d coins", acct.Balance))

	case actionLuck:
		b.handleLuck(ctx, query)

	case actionRules:
		b.reply(chatID, rulesText)

	case actionPromo:
		b.reply(chatID, "🎟 Send me the promo code as a message.")

	case actionAdmin:
		b.showAdminMenu(ctx, query)

	case actionAdminPromo:
		b.beginAdminDialog(ctx, query, auth.Admin, dialog.AwaitingPromoSpec,
			"Send the promo spec: `value maxUses [code]`.\nExample: 500 3 or 1000 1 WIN2025")

	case actionAdminList:
		b.handleListPromos(ctx, query)

	case actionAdminGive:
		b.beginAdminDialog(ctx, query, auth.Admin, dialog.AwaitingGrantSpec,
			"Send the grant spec: `userID amount`.\nAmount may be negative.")

	case actionAdminAdd:
		b.beginAdminDialog(ctx, query, auth.Owner, dialog.AwaitingAdminAdd,
			"Send the user id to add as admin.")

	case actionAdminRm:
		b.beginAdminDialog(ctx, query, auth.Owner, dialog.AwaitingAdminRemove,
			"Send the user id to remove from admins.")

	case actionBackToMain:
		cap, err := b.gate.Capability(ctx, userID)
		if err != nil {
			b.logger.Error("Failed to resolve capability", zap.Error(err), zap.Int64("user_id", userID))
			cap = auth.User
		}
		b.replyWithKeyboard(chatID, "Main menu:", mainMenuKeyboard(cap.AtLeast(auth.Admin)))

	default:
		b.logger.Warn("Unknown callback action",
			zap.String("data", query.Data),
			zap.Int64("user_id", userID),
		)
	}
}

// handleLuck runs the once-per-24h random reward claim.
func (b *Bot) handleLuck(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	result, err := b.economy.ClaimLuck(ctx, userID, time.Now())
	if err != nil {
		b.logger.Error("Failed to claim luck reward", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}

	if !result.Granted {
		hours, minutes := result.RemainingHoursMinutes()
		b.reply(chatID, fmt.Sprintf("⏳ Luck is on cooldown. Try again in %dh %dm.", hours, minutes))
		return
	}
	b.reply(chatID, fmt.Sprintf("🍀 You won %d coins!\n💰 Your balance: %d coins", result.Amount, result.NewBalance))
}

// handleGameChoice settles one round of the guessing game.
func (b *Bot) handleGameChoice(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	choice, err := strconv.Atoi(strings.TrimPrefix(query.Data, gameChoicePrefix))
	if err != nil {
		return
	}

	result, err := b.economy.PlayGame(ctx, userID, choice)
	if err != nil {
		b.logger.Error("Failed to play game round", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}

	if result.Won {
		b.reply(chatID, fmt.Sprintf("🎉 You guessed it! +%d coins.\n💰 Your balance: %d coins", result.Delta, result.NewBalance))
	} else {
		b.reply(chatID, fmt.Sprintf("❌ You lost. The number was %d.\n💰 Your balance: %d coins", result.Number, result.NewBalance))
	}
}

// showAdminMenu displays the admin menu, gated on current capability.
func (b *Bot) showAdminMenu(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	cap, err := b.gate.Capability(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to resolve capability", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	if !cap.AtLeast(auth.Admin) {
		b.reply(chatID, "⛔ You are not an admin.")
		return
	}
	b.replyWithKeyboard(chatID, "🛠 Admin menu:", adminMenuKeyboard(cap.AtLeast(auth.Owner)))
}

// beginAdminDialog records a pending dialog state after checking capability.
// Authorization is re-checked again at execution time: entering a dialog
// grants nothing by itself.
func (b *Bot) beginAdminDialog(ctx context.Context, query *tgbotapi.CallbackQuery, required auth.Capability, state dialog.State, prompt string) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

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

	b.dialogs.Begin(userID, state)
	b.reply(chatID, prompt)
}

// handleListPromos renders all codes, exhausted ones included.
func (b *Bot) handleListPromos(ctx context.Context, query *tgbotapi.CallbackQuery) {
	userID := query.From.ID
	chatID := query.Message.Chat.ID

	cap, err := b.gate.Capability(ctx, userID)
	if err != nil {
		b.logger.Error("Failed to resolve capability", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	if !cap.AtLeast(auth.Admin) {
		b.reply(chatID, "⛔ You are not an admin.")
		return
	}

	codes, err := b.store.ListCodes(ctx)
	if err != nil {
		b.logger.Error("Failed to list codes", zap.Error(err), zap.Int64("user_id", userID))
		b.reply(chatID, "Something went wrong, please try again later.")
		return
	}
	if len(codes) == 0 {
		b.reply(chatID, "No promo codes yet.")
		return
	}

	var text strings.Builder
	text.WriteString("🎟 Promo codes:\n\n")
	for _, promo := range codes {
		text.WriteString(fmt.Sprintf("%s — %d coins, %d/%d used, by %d\n",
			promo.Code, promo.Value, promo.Uses, promo.MaxUses, promo.CreatedBy))
	}
	b.reply(chatID, text.String())
}
