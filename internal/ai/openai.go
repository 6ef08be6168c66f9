package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ObiAU/newsdigest/internal/models"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// GeminiOpenAIBaseURL is Google's OpenAI-compatible endpoint for Gemini.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// OpenAIClient summarizes through any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
	name   string
}

type openAISettings struct {
	name    string
	options []option.RequestOption
}

type OpenAIOption func(*openAISettings)

func WithBaseURL(url string) OpenAIOption {
	return func(s *openAISettings) {
		s.options = append(s.options, option.WithBaseURL(url))
	}
}

func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(s *openAISettings) {
		s.options = append(s.options, option.WithHTTPClient(client))
	}
}

func WithName(name string) OpenAIOption {
	return func(s *openAISettings) {
		s.name = name
	}
}

func NewOpenAIClient(apiKey, model string, opts ...OpenAIOption) *OpenAIClient {
	settings := &openAISettings{name: "openai"}
	for _, opt := range opts {
		opt(settings)
	}

	requestOptions := append([]option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}, settings.options...)

	client := openai.NewClient(requestOptions...)
	return &OpenAIClient{
		client: &client,
		model:  model,
		name:   settings.name,
	}
}

func (c *OpenAIClient) Summarize(ctx context.Context, topic string, items []models.NewsItem) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptySummary
	}

	text, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(BuildDigestPrompt(topic, items)),
	})
	if err != nil {
		return "", err
	}

	return checkSummary(text)
}

func (c *OpenAIClient) Ping(ctx context.Context) (string, error) {
	text, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(pingPrompt),
	})
	if err != nil {
		return "", err
	}

	return checkSummary(text)
}

func (c *OpenAIClient) GetName() string {
	return c.name
}

// complete leaves max_tokens unset: Gemini's thinking models count reasoning
// against it and can come back empty when it is low.
func (c *OpenAIClient) complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion) (string, error) {
	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", c.name, err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response from %s: %w", c.name, ErrEmptySummary)
	}

	return response.Choices[0].Message.Content, nil
}
