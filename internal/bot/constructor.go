package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"coinbot/internal/auth"
	"coinbot/internal/dialog"
	"coinbot/internal/economy"
	"coinbot/internal/storage"
)

// NewBot creates a new Telegram bot over the given store.
func NewBot(token string, store storage.Store, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	return &Bot{
		api:     api,
		store:   store,
		economy: economy.NewService(store),
		gate:    auth.NewGate(store),
		dialogs: dialog.NewManager(),
		logger:  logger,
	}, nil
}
