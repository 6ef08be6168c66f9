package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ObiAU/newsdigest/internal/config"
	"github.com/ObiAU/newsdigest/internal/models"
)

var (
	ErrNoAPIKey     = errors.New("no summarizer API key configured")
	ErrEmptySummary = errors.New("summarizer returned no text")
)

// Client is a Summarizer that can also answer a connectivity probe.
type Client interface {
	models.Summarizer
	Ping(ctx context.Context) (string, error)
}

// New builds the client for the configured provider. It returns ErrNoAPIKey
// when the provider's key is empty.
func New(cfg *config.Config) (Client, error) {
	apiKey := cfg.SummarizerAPIKey()
	if apiKey == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrNoAPIKey, cfg.SummarizerProvider)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}

	switch cfg.SummarizerProvider {
	case config.ProviderGemini:
		baseURL := cfg.SummarizerBaseURL
		if baseURL == "" {
			baseURL = GeminiOpenAIBaseURL
		}
		return NewOpenAIClient(apiKey, cfg.SummarizerModel,
			WithBaseURL(baseURL),
			WithHTTPClient(httpClient),
			WithName(config.ProviderGemini),
		), nil
	case config.ProviderOpenAI:
		opts := []OpenAIOption{WithHTTPClient(httpClient)}
		if cfg.SummarizerBaseURL != "" {
			opts = append(opts, WithBaseURL(cfg.SummarizerBaseURL))
		}
		return NewOpenAIClient(apiKey, cfg.SummarizerModel, opts...), nil
	case config.ProviderAnthropic:
		opts := []AnthropicOption{WithAnthropicHTTPClient(httpClient)}
		if cfg.SummarizerBaseURL != "" {
			opts = append(opts, WithAnthropicBaseURL(cfg.SummarizerBaseURL))
		}
		return NewAnthropicClient(apiKey, cfg.SummarizerModel, opts...), nil
	}

	return nil, fmt.Errorf("unknown summarizer provider %q", cfg.SummarizerProvider)
}

func checkSummary(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptySummary
	}
	return text, nil
}
