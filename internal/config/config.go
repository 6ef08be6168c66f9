package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var defaultModels = map[string]string{
	ProviderGemini:    "gemini-2.5-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-haiku-4-5",
}

type Config struct {
	TelegramToken      string
	ChannelID          string
	Topic              string
	FeedURL            string
	NewsLanguage       string
	NewsCountry        string
	MaxItems           int
	HistoryFile        string
	SummarizerProvider string
	SummarizerModel    string
	SummarizerBaseURL  string
	GeminiAPIKey       string
	OpenAIAPIKey       string
	AnthropicAPIKey    string
	RequestTimeout     time.Duration
	LogLevel           string
	LogFormat          string
}

func Load() *Config {
	provider := strings.ToLower(getEnv("SUMMARIZER_PROVIDER", ProviderGemini))

	return &Config{
		TelegramToken:      getEnv("TELEGRAM_TOKEN", getEnv("TELEGRAM_BOT_TOKEN", "")),
		ChannelID:          getEnv("CHANNEL_ID", ""),
		Topic:              getEnv("TOPIC", "Artificial Intelligence"),
		FeedURL:            getEnv("FEED_URL", ""),
		NewsLanguage:       getEnv("NEWS_LANGUAGE", "en-US"),
		NewsCountry:        getEnv("NEWS_COUNTRY", "US"),
		MaxItems:           getEnvAsInt("MAX_ITEMS", 5),
		HistoryFile:        getEnv("HISTORY_FILE", "history.json"),
		SummarizerProvider: provider,
		SummarizerModel:    getEnv("SUMMARIZER_MODEL", defaultModels[provider]),
		SummarizerBaseURL:  getEnv("SUMMARIZER_BASE_URL", ""),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		RequestTimeout:     getEnvAsDuration("REQUEST_TIMEOUT", 30*time.Second),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}
}

// SummarizerAPIKey returns the API key of the selected provider.
func (c *Config) SummarizerAPIKey() string {
	switch c.SummarizerProvider {
	case ProviderGemini:
		return c.GeminiAPIKey
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	}
	return ""
}

// Validate checks the settings a run depends on. Telegram credentials are
// only required when the run is going to publish.
func (c *Config) Validate(publish bool) error {
	var errs []error

	if c.MaxItems < 1 {
		errs = append(errs, fmt.Errorf("MAX_ITEMS must be at least 1, got %d", c.MaxItems))
	}
	if _, ok := defaultModels[c.SummarizerProvider]; !ok {
		errs = append(errs, fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", c.SummarizerProvider))
	}
	if strings.TrimSpace(c.Topic) == "" && c.FeedURL == "" {
		errs = append(errs, errors.New("either TOPIC or FEED_URL must be set"))
	}
	if c.HistoryFile == "" {
		errs = append(errs, errors.New("HISTORY_FILE must not be empty"))
	}
	if publish {
		if c.TelegramToken == "" {
			errs = append(errs, errors.New("TELEGRAM_TOKEN is required"))
		}
		if c.ChannelID == "" {
			errs = append(errs, errors.New("CHANNEL_ID is required"))
		}
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
