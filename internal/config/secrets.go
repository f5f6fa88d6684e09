package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Secrets are credentials the config file must never contain.
type Secrets struct {
	KiteAPIKey      string
	KiteAPISecret   string
	KiteAccessToken string
	TelegramToken   string
	TelegramChatID  string
}

// LoadSecrets reads credentials from the environment, after merging an
// optional .env file. Venue credentials are only required for live
// trading; paper mode runs without them.
func LoadSecrets(paper, telegramEnabled bool) (Secrets, error) {
	_ = godotenv.Load() // absent .env is fine, the environment may be set directly

	s := Secrets{
		KiteAPIKey:      os.Getenv("KITE_API_KEY"),
		KiteAPISecret:   os.Getenv("KITE_API_SECRET"),
		KiteAccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:  os.Getenv("TELEGRAM_CHAT_ID"),
	}
	if !paper {
		if s.KiteAPIKey == "" || s.KiteAccessToken == "" {
			return s, fmt.Errorf("live trading requires KITE_API_KEY and KITE_ACCESS_TOKEN")
		}
	}
	if telegramEnabled {
		if s.TelegramToken == "" || s.TelegramChatID == "" {
			return s, fmt.Errorf("telegram notifications require TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
	}
	return s, nil
}
