// Package collector provides reference collectors producing story candidates from RSS/Atom feeds
// and the Hacker News API.
package collector

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"github.com/umputun/storydesk/pkg/domain"
)

const (
	feedAccept        = "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5"
	defaultUserAgent  = "Mozilla/5.0 (compatible; Storydesk/1.0)"
	maxExcerptRunes   = 500
	defaultRSSTimeout = 30 * time.Second
)

// RSS collects candidates from one RSS/Atom feed
type RSS struct {
	name      string
	url       string
	kind      domain.SourceKind
	maxItems  int
	userAgent string
	client    *http.Client
	policy    *bluemonday.Policy
}

// RSSConfig defines an RSS collector
type RSSConfig struct {
	Name      string
	URL       string
	Kind      domain.SourceKind // defaults to rss
	MaxItems  int               // 0 means all items
	Timeout   time.Duration
	UserAgent string
}

// NewRSS makes an RSS collector
func NewRSS(cfg RSSConfig) *RSS {
	if cfg.Kind == "" {
		cfg.Kind = domain.KindRSS
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultRSSTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Name == "" {
		cfg.Name = cfg.URL
	}
	return &RSS{
		name:      cfg.Name,
		url:       cfg.URL,
		kind:      cfg.Kind,
		maxItems:  cfg.MaxItems,
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		policy: bluemonday.StrictPolicy(),
	}
}

// Name returns the collector name, used as the story source
func (r *RSS) Name() string { return r.name }

// Collect fetches and parses the feed, items without title or link are skipped
func (r *RSS) Collect(ctx context.Context) ([]domain.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	addBrowserHeaders(req, feedAccept)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: unexpected status code: %d", r.url, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", r.url, err)
	}

	res := make([]domain.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if r.maxItems > 0 && len(res) >= r.maxItems {
			break
		}
		title, link := strings.TrimSpace(item.Title), strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		c := domain.Candidate{
			Headline:  r.plain(title),
			SourceURL: link,
			Sources:   []string{r.name},
			Kind:      r.kind,
			Excerpt:   r.excerpt(item),
		}
		switch {
		case item.PublishedParsed != nil:
			c.FirstSeenAt = item.PublishedParsed.UTC()
		case item.UpdatedParsed != nil:
			c.FirstSeenAt = item.UpdatedParsed.UTC()
		}
		res = append(res, c)
	}
	return res, nil
}

// excerpt returns plain text of the item description, falling back to content
func (r *RSS) excerpt(item *gofeed.Item) string {
	src := item.Description
	if strings.TrimSpace(src) == "" {
		src = item.Content
	}
	text := strings.Join(strings.Fields(r.plain(src)), " ")
	if runes := []rune(text); len(runes) > maxExcerptRunes {
		text = string(runes[:maxExcerptRunes]) + "..."
	}
	return text
}

// plain strips all markup and decodes entities
func (r *RSS) plain(s string) string {
	return html.UnescapeString(r.policy.Sanitize(s))
}
