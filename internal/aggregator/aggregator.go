package aggregator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ObiAU/newsdigest/internal/history"
	"github.com/ObiAU/newsdigest/internal/models"
	"github.com/ObiAU/newsdigest/internal/sources"
	"github.com/google/uuid"
)

type Status string

const (
	StatusNoNewItems         Status = "no_new_items"
	StatusSummaryUnavailable Status = "summary_unavailable"
	StatusPublishFailed      Status = "publish_failed"
	StatusPublished          Status = "published"
	StatusDryRun             Status = "dry_run"
)

// Result describes how a run ended. Every status is a normal outcome; Run
// only returns an error when the feed or the history file fails.
type Result struct {
	RunID    string
	Fetched  int
	Selected int
	Summary  string
	Status   Status
}

type Aggregator struct {
	topic      string
	maxItems   int
	store      *history.Store
	source     models.NewsSource
	summarizer models.Summarizer
	publisher  models.Publisher
	dryRun     bool
	out        io.Writer
	logger     *slog.Logger
}

type Option func(*Aggregator)

func WithDryRun(out io.Writer) Option {
	return func(a *Aggregator) {
		a.dryRun = true
		a.out = out
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New wires a pipeline. A nil summarizer disables summarization, so runs end
// with StatusSummaryUnavailable. The publisher may be nil in dry-run mode.
func New(topic string, maxItems int, store *history.Store, source models.NewsSource, summarizer models.Summarizer, publisher models.Publisher, opts ...Option) *Aggregator {
	a := &Aggregator{
		topic:      topic,
		maxItems:   maxItems,
		store:      store,
		source:     source,
		summarizer: summarizer,
		publisher:  publisher,
		out:        os.Stdout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Aggregator) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := a.logger.With("run_id", result.RunID)

	logger.Info("loading history", "path", a.store.Path())
	if err := a.store.Load(); err != nil {
		if !errors.Is(err, history.ErrCorrupt) {
			return result, fmt.Errorf("load history: %w", err)
		}
		logger.Warn("history unreadable, starting with an empty set", "error", err)
	}
	logger.Debug("history loaded", "known_items", a.store.Len())

	logger.Info("fetching news", "source", a.source.GetName(), "topic", a.topic)
	items, err := a.source.FetchItems(ctx)
	if err != nil {
		return result, fmt.Errorf("fetch news from %s: %w", a.source.GetName(), err)
	}
	result.Fetched = len(items)

	selected := sources.SelectUnseen(items, a.store.Has, a.maxItems)
	result.Selected = len(selected)
	if len(selected) == 0 {
		logger.Info("no new news found", "fetched", result.Fetched)
		result.Status = StatusNoNewItems
		return result, nil
	}
	logger.Info("found new articles", "count", len(selected), "fetched", result.Fetched)

	summary, ok := a.summarize(ctx, logger, selected)
	if !ok {
		result.Status = StatusSummaryUnavailable
		return result, nil
	}
	result.Summary = summary

	if a.dryRun {
		fmt.Fprintln(a.out, summary)
		logger.Info("dry run, skipping publish and history update")
		result.Status = StatusDryRun
		return result, nil
	}

	if err := a.publisher.Publish(ctx, summary); err != nil {
		logger.Error("failed to send digest", "error", err)
		result.Status = StatusPublishFailed
		return result, nil
	}
	logger.Info("news sent successfully")

	if err := a.recordPublished(selected); err != nil {
		result.Status = StatusPublished
		return result, err
	}
	logger.Info("history updated", "known_items", a.store.Len())

	result.Status = StatusPublished
	return result, nil
}

func (a *Aggregator) summarize(ctx context.Context, logger *slog.Logger, items []models.NewsItem) (string, bool) {
	if a.summarizer == nil {
		logger.Warn("no summarizer API key found, skipping summarization")
		return "", false
	}

	logger.Info("summarizing", "summarizer", a.summarizer.GetName())
	summary, err := a.summarizer.Summarize(ctx, a.topic, items)
	if err != nil {
		logger.Error("summarizer failed", "summarizer", a.summarizer.GetName(), "error", err)
		return "", false
	}
	if strings.TrimSpace(summary) == "" {
		logger.Warn("summarizer returned no text", "summarizer", a.summarizer.GetName())
		return "", false
	}

	return summary, true
}

// recordPublished folds the published links into history and saves it. On a
// failed save the in-memory set is rolled back to match the file.
func (a *Aggregator) recordPublished(items []models.NewsItem) error {
	links := make([]string, 0, len(items))
	for _, item := range items {
		links = append(links, item.Link)
	}

	a.store.Add(links...)
	if err := a.store.Save(); err != nil {
		a.store.Remove(links...)
		return fmt.Errorf("save history after publish: %w", err)
	}

	return nil
}
