package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backend selectors.
const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMock     = "mock"
)

// Config holds the application configuration
type Config struct {
	TelegramToken string
	OwnerID       int64 // the immutable top-privilege identity
	StartBalance  int64

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // URL for webhook (required if WebhookMode is true)

	// Storage configuration
	StorageBackend string // file (default), postgres or mock
	DataDir        string // data directory for the file backend
	PostgresDSN    string // required for the postgres backend
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Owner ID (required)
	ownerStr := os.Getenv("OWNER_ID")
	if ownerStr == "" {
		return nil, fmt.Errorf("OWNER_ID is required (Telegram user ID of the bot owner)")
	}
	ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OWNER_ID: %s", ownerStr)
	}
	config.OwnerID = ownerID

	// Starting balance for lazily created accounts (default: 0)
	config.StartBalance = 0
	if balStr := os.Getenv("START_BALANCE"); balStr != "" {
		bal, err := strconv.ParseInt(balStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid START_BALANCE: %s", balStr)
		}
		config.StartBalance = bal
	}

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
	}

	// Storage backend (default: file)
	config.StorageBackend = os.Getenv("STORAGE_BACKEND")
	if config.StorageBackend == "" {
		config.StorageBackend = BackendFile
	}

	switch config.StorageBackend {
	case BackendFile:
		config.DataDir = os.Getenv("DATA_DIR")
		if config.DataDir == "" {
			config.DataDir = "data"
		}
	case BackendPostgres:
		config.PostgresDSN = os.Getenv("POSTGRES_DSN")
		if config.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required when STORAGE_BACKEND is postgres")
		}
	case BackendMock:
		// Nothing to configure
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND: %s (expected file, postgres or mock)", config.StorageBackend)
	}

	return config, nil
}
