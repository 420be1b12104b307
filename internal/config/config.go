// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LLM providers.
const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config holds all configuration values.
type Config struct {
	// Telegram
	TelegramBotToken string

	// SQLite
	DBPath string

	// LLM
	LLMProvider     string
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// External services
	GoogleMapsAPIKey  string
	OpenWeatherAPIKey string
	WeatherCity       string

	// Conversation history
	SummaryThreshold int
	RecentWindow     int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		DBPath: getEnv("DB_PATH", "./data/concierge.db"),

		LLMProvider:     getEnv("LLM_PROVIDER", ProviderOpenAI),
		LLMModel:        getEnv("LLM_MODEL", "gpt-4o-mini"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),

		GoogleMapsAPIKey:  os.Getenv("GOOGLE_MAPS_API_KEY"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherCity:       getEnv("WEATHER_DEFAULT_CITY", "San Cristóbal de las Casas"),

		SummaryThreshold: getEnvInt("SUMMARY_THRESHOLD", 5),
		RecentWindow:     getEnvInt("RECENT_WINDOW", 5),

		LogFile:  getEnv("LOG_FILE", "./data/concierge.log"),
		LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "INFO")),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	switch c.LLMProvider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for provider %q", c.LLMProvider)
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for provider %q", c.LLMProvider)
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %q", c.LLMProvider)
	}
	if c.SummaryThreshold <= 0 {
		return fmt.Errorf("SUMMARY_THRESHOLD must be > 0")
	}
	if c.RecentWindow <= 0 {
		return fmt.Errorf("RECENT_WINDOW must be > 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
