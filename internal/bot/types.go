package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/auth"
	"coinbot/internal/dialog"
	"coinbot/internal/economy"
	"coinbot/internal/storage"
)

// Bot is the Telegram transport adapter. It receives inbound events, invokes
// the economy engines and renders their results; it holds no economic state
// of its own beyond the pending dialog map.
type Bot struct {
	api     *tgbotapi.BotAPI
	store   storage.Store
	economy *economy.Service
	gate    *auth.Gate
	dialogs *dialog.Manager
	logger  *zap.Logger
}
