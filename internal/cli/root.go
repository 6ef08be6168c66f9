package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/ObiAU/newsdigest/internal/aggregator"
	"github.com/ObiAU/newsdigest/internal/ai"
	"github.com/ObiAU/newsdigest/internal/config"
	"github.com/ObiAU/newsdigest/internal/history"
	"github.com/ObiAU/newsdigest/internal/models"
	"github.com/ObiAU/newsdigest/internal/sources"
	"github.com/ObiAU/newsdigest/internal/telegram"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile     string
	topic       string
	historyFile string
	maxItems    int
	dryRun      bool
}

// Dependencies lets tests replace the outbound clients. Zero values build
// the real ones from config.
type Dependencies struct {
	Source     func(cfg *config.Config) models.NewsSource
	Summarizer func(cfg *config.Config) (ai.Client, error)
	Publisher  func(cfg *config.Config, logger *slog.Logger) (models.Publisher, error)
}

func NewRootCommand(deps Dependencies) *cobra.Command {
	deps = deps.withDefaults()
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "newsdigest",
		Short:         "Post an AI-written digest of the latest headlines for a topic to Telegram",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return runDigest(cmd.Context(), cmd.OutOrStdout(), cfg, logger, opts.dryRun, deps)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	cmd.Flags().StringVar(&opts.topic, "topic", "", "news topic (overrides TOPIC)")
	cmd.Flags().StringVar(&opts.historyFile, "history-file", "", "history file path (overrides HISTORY_FILE)")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", 0, "maximum new items per run (overrides MAX_ITEMS)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the digest instead of publishing it")

	cmd.AddCommand(newCheckCommand(opts, deps))

	return cmd
}

func (opts *rootOptions) load(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("load %s: %w", opts.envFile, err)
	}

	cfg := config.Load()
	if opts.topic != "" {
		cfg.Topic = opts.topic
	}
	if opts.historyFile != "" {
		cfg.HistoryFile = opts.historyFile
	}
	if cmd.Flags().Changed("max-items") {
		cfg.MaxItems = opts.maxItems
	}

	logger := NewLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	return cfg, logger, nil
}

func runDigest(ctx context.Context, out io.Writer, cfg *config.Config, logger *slog.Logger, dryRun bool, deps Dependencies) error {
	if err := cfg.Validate(!dryRun); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var summarizer models.Summarizer
	client, err := deps.Summarizer(cfg)
	switch {
	case errors.Is(err, ai.ErrNoAPIKey):
		logger.Warn("summarization disabled", "provider", cfg.SummarizerProvider, "error", err)
	case err != nil:
		return fmt.Errorf("create summarizer: %w", err)
	default:
		summarizer = client
	}

	opts := []aggregator.Option{aggregator.WithLogger(logger)}
	var publisher models.Publisher
	if dryRun {
		opts = append(opts, aggregator.WithDryRun(out))
	} else {
		publisher, err = deps.Publisher(cfg, logger)
		if err != nil {
			return err
		}
	}

	agg := aggregator.New(cfg.Topic, cfg.MaxItems, history.New(cfg.HistoryFile), deps.Source(cfg), summarizer, publisher, opts...)

	result, err := agg.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("run finished", "run_id", result.RunID, "status", result.Status, "fetched", result.Fetched, "selected", result.Selected)
	return nil
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Source == nil {
		d.Source = func(cfg *config.Config) models.NewsSource {
			if cfg.FeedURL != "" {
				return sources.NewFeedClient(cfg.FeedURL, cfg.RequestTimeout)
			}
			return sources.NewGoogleNewsClient(cfg.Topic, cfg.NewsLanguage, cfg.NewsCountry, cfg.RequestTimeout)
		}
	}
	if d.Summarizer == nil {
		d.Summarizer = ai.New
	}
	if d.Publisher == nil {
		d.Publisher = func(cfg *config.Config, logger *slog.Logger) (models.Publisher, error) {
			return telegram.NewBot(cfg.TelegramToken, cfg.ChannelID, telegram.WithLogger(logger))
		}
	}
	return d
}

// NewLogger builds the process logger. Unknown levels fall back to info.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
