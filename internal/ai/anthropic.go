package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ObiAU/newsdigest/internal/models"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const digestMaxTokens = 2000

type AnthropicClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

type AnthropicOption func(*[]option.RequestOption)

func WithAnthropicBaseURL(url string) AnthropicOption {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithBaseURL(url))
	}
}

func WithAnthropicHTTPClient(client *http.Client) AnthropicOption {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithHTTPClient(client))
	}
}

func NewAnthropicClient(apiKey, model string, opts ...AnthropicOption) *AnthropicClient {
	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	for _, opt := range opts {
		opt(&requestOptions)
	}

	client := anthropic.NewClient(requestOptions...)
	return &AnthropicClient{
		client: &client,
		model:  anthropic.Model(model),
	}
}

func (c *AnthropicClient) Summarize(ctx context.Context, topic string, items []models.NewsItem) (string, error) {
	if len(items) == 0 {
		return "", ErrEmptySummary
	}

	text, err := c.complete(ctx, []anthropic.TextBlockParam{{Text: systemPrompt}}, BuildDigestPrompt(topic, items), digestMaxTokens)
	if err != nil {
		return "", err
	}

	return checkSummary(text)
}

func (c *AnthropicClient) Ping(ctx context.Context) (string, error) {
	text, err := c.complete(ctx, nil, pingPrompt, 100)
	if err != nil {
		return "", err
	}

	return checkSummary(text)
}

func (c *AnthropicClient) GetName() string {
	return "anthropic"
}

func (c *AnthropicClient) complete(ctx context.Context, system []anthropic.TextBlockParam, prompt string, maxTokens int64) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    system,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	return sb.String(), nil
}
