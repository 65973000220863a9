package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback tags for menu actions.
const (
	actionGame       = "game"
	actionShop       = "shop"
	actionLuck       = "luck"
	actionRules      = "rules"
	actionPromo      = "promo"
	actionAdmin      = "admin"
	actionAdminPromo = "admin:create_promo"
	actionAdminList  = "admin:list_promos"
	actionAdminGive  = "admin:give"
	actionAdminAdd   = "admin:add"
	actionAdminRm    = "admin:remove"
	actionBackToMain = "back_to_main"
	gameChoicePrefix = "game:"
)

func mainMenuKeyboard(isAdmin bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎮 Game", actionGame),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Shop", actionShop),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🍀 Luck", actionLuck),
			tgbotapi.NewInlineKeyboardButtonData("📜 Rules", actionRules),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎟 Promo code", actionPromo),
		),
	}
	if isAdmin {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛠 Admin", actionAdmin),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func adminMenuKeyboard(isOwner bool) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Create promo", actionAdminPromo),
			tgbotapi.NewInlineKeyboardButtonData("📋 List promos", actionAdminList),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💸 Give balance", actionAdminGive),
		),
	}
	if isOwner {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👑 Add admin", actionAdminAdd),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Remove admin", actionAdminRm),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", actionBackToMain),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func gameKeyboard() tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 3)
	for i := 1; i <= 3; i++ {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%s%d", gameChoicePrefix, i),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}
