package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ObiAU/newsdigest/internal/models"
	"github.com/mmcdole/gofeed"
)

const userAgent = "newsdigest/1.0 (+https://github.com/ObiAU/newsdigest)"

// FeedClient reads one RSS/Atom feed.
type FeedClient struct {
	name   string
	url    string
	parser *gofeed.Parser
}

type Option func(*FeedClient)

func WithHTTPClient(client *http.Client) Option {
	return func(c *FeedClient) {
		c.parser.Client = client
	}
}

func WithName(name string) Option {
	return func(c *FeedClient) {
		c.name = name
	}
}

func NewFeedClient(feedURL string, timeout time.Duration, opts ...Option) *FeedClient {
	parser := gofeed.NewParser()
	parser.UserAgent = userAgent
	parser.Client = &http.Client{Timeout: timeout}

	c := &FeedClient{
		name:   "feed",
		url:    feedURL,
		parser: parser,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGoogleNewsClient returns a FeedClient for the Google News search feed
// of a topic.
func NewGoogleNewsClient(topic, language, country string, timeout time.Duration, opts ...Option) *FeedClient {
	opts = append([]Option{WithName("googlenews")}, opts...)
	return NewFeedClient(GoogleNewsURL(topic, language, country), timeout, opts...)
}

func (c *FeedClient) URL() string {
	return c.url
}

// FetchItems returns every feed entry that has a link, in feed order.
func (c *FeedClient) FetchItems(ctx context.Context) ([]models.NewsItem, error) {
	feed, err := c.parser.ParseURLWithContext(c.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", c.url, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		link := strings.TrimSpace(entry.Link)
		if link == "" {
			continue
		}

		items = append(items, models.NewsItem{
			Title:     strings.TrimSpace(entry.Title),
			Link:      link,
			Published: entry.Published,
		})
	}

	return items, nil
}

func (c *FeedClient) GetName() string {
	return c.name
}

// SelectUnseen keeps feed order, skips links for which seen returns true and
// links repeated within the same feed, and stops once limit items are kept.
func SelectUnseen(items []models.NewsItem, seen func(link string) bool, limit int) []models.NewsItem {
	if limit <= 0 {
		return nil
	}

	selected := make([]models.NewsItem, 0, limit)
	picked := make(map[string]struct{}, limit)

	for _, item := range items {
		if len(selected) >= limit {
			break
		}
		if seen(item.Link) {
			continue
		}
		if _, dup := picked[item.Link]; dup {
			continue
		}

		picked[item.Link] = struct{}{}
		selected = append(selected, item)
	}

	return selected
}
