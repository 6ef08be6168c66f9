package models

import "context"

// NewsItem is one headline taken from the feed. Link doubles as its
// identifier in the history store.
type NewsItem struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
}

type NewsSource interface {
	FetchItems(ctx context.Context) ([]NewsItem, error)
	GetName() string
}

type Summarizer interface {
	Summarize(ctx context.Context, topic string, items []NewsItem) (string, error)
	GetName() string
}

type Publisher interface {
	Publish(ctx context.Context, text string) error
}
