package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrEmptyMessage = errors.New("refusing to send an empty message")

// Bot posts digests to a single channel.
type Bot struct {
	api     *tgbotapi.BotAPI
	channel string
	logger  *slog.Logger
}

type settings struct {
	endpoint   string
	httpClient tgbotapi.HTTPClient
	logger     *slog.Logger
}

type Option func(*settings)

// WithEndpoint overrides the Bot API URL template, tgbotapi.APIEndpoint by
// default.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) {
		s.endpoint = endpoint
	}
}

func WithHTTPClient(client tgbotapi.HTTPClient) Option {
	return func(s *settings) {
		s.httpClient = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// NewBot authenticates the token with getMe. channel is either a numeric
// chat id or an @username.
func NewBot(token, channel string, opts ...Option) (*Bot, error) {
	s := &settings{
		endpoint:   tgbotapi.APIEndpoint,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, s.endpoint, s.httpClient)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	s.logger.Debug("telegram bot authorized", "username", api.Self.UserName)

	return &Bot{
		api:     api,
		channel: strings.TrimSpace(channel),
		logger:  s.logger,
	}, nil
}

// Publish sends text as one Markdown message with link previews enabled.
func (b *Bot) Publish(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := b.newMessage(text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = false

	sent, err := b.api.Send(msg)
	if err != nil {
		return fmt.Errorf("send telegram message to %s: %w", b.channel, err)
	}

	b.logger.Debug("telegram message sent", "channel", b.channel, "message_id", sent.MessageID)
	return nil
}

func (b *Bot) newMessage(text string) tgbotapi.MessageConfig {
	if chatID, err := strconv.ParseInt(b.channel, 10, 64); err == nil {
		return tgbotapi.NewMessage(chatID, text)
	}

	channel := b.channel
	if !strings.HasPrefix(channel, "@") {
		channel = "@" + channel
	}
	return tgbotapi.NewMessageToChannel(channel, text)
}
