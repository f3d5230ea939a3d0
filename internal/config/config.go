package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4"
)

// Config — конфигурация бота, читается из окружения один раз при старте
type Config struct {
	BotToken      string
	OpenRouterKey string
	BaseURL       string
	Model         string
}

// Load подхватывает .env (если есть) и читает переменные окружения.
// Без токена бота и ключа OpenRouter запуск невозможен.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:      os.Getenv("BOT_TOKEN"),
		OpenRouterKey: os.Getenv("OPENROUTER_API_KEY"),
		BaseURL:       getEnv("OPENROUTER_BASE_URL", defaultBaseURL),
		Model:         getEnv("OPENROUTER_MODEL", defaultModel),
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN environment variable is required")
	}
	if cfg.OpenRouterKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY environment variable is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
