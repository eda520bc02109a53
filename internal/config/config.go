// Package config loads runtime settings from a .env file (when present)
// and the environment.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	ProviderToken string
	OpenAIKey     string
	OpenAIBaseURL string
	FoodModel     string
	SpeechModel   string
	CoachModel    string
	Backend       string
	DataPath      string
}

// Load reads .env if it exists, then the environment. Validation of what
// is actually required happens where the value is used: only the bot
// runner needs a Telegram token.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		ProviderToken: os.Getenv("PROVIDER_TOKEN"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		FoodModel:     getenv("FOOD_MODEL", "gpt-4.1-mini"),
		SpeechModel:   getenv("SPEECH_MODEL", "gpt-4o-mini-transcribe"),
		CoachModel:    getenv("COACH_MODEL", "gpt-4o-mini"),
		Backend:       getenv("FOODBOT_BACKEND", "json"),
		DataPath:      getenv("FOODBOT_DATA", "users.json"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
