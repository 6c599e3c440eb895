package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/storydesk/pkg/domain"
)

const (
	hnDefaultBaseURL   = "https://hacker-news.firebaseio.com/v0"
	hnDefaultMaxItems  = 30
	hnMaxResponseBytes = 1 << 20
	hnConcurrency      = 10
	hnScoreNormalizer  = 500.0
	hnCommentsNorm     = 200.0
)

// HackerNews collects top stories from the Hacker News Firebase API as aggregator candidates
type HackerNews struct {
	baseURL  string
	maxItems int
	client   *http.Client
}

// HackerNewsConfig defines the Hacker News collector
type HackerNewsConfig struct {
	BaseURL  string // defaults to the public Firebase API
	MaxItems int    // top stories to fetch, default 30
	Timeout  time.Duration
}

type hnItem struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

// NewHackerNews makes a Hacker News collector
func NewHackerNews(cfg HackerNewsConfig) *HackerNews {
	if cfg.BaseURL == "" {
		cfg.BaseURL = hnDefaultBaseURL
	}
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = hnDefaultMaxItems
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HackerNews{baseURL: cfg.BaseURL, maxItems: cfg.MaxItems, client: &http.Client{Timeout: cfg.Timeout}}
}

// Name returns the collector name, used as the story source
func (h *HackerNews) Name() string { return "hackernews" }

// Collect fetches top story ids and then the stories concurrently.
// Items failing to load or not being stories are skipped, candidates keep the top stories order.
func (h *HackerNews) Collect(ctx context.Context) ([]domain.Candidate, error) {
	var ids []int
	if err := h.getJSON(ctx, h.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("hackernews top stories: %w", err)
	}
	if len(ids) > h.maxItems {
		ids = ids[:h.maxItems]
	}

	type ranked struct {
		rank int
		item hnItem
	}
	var mu sync.Mutex
	items := make([]ranked, 0, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hnConcurrency)
	for rank, id := range ids {
		g.Go(func() error {
			var it hnItem
			if err := h.getJSON(gctx, fmt.Sprintf("%s/item/%d.json", h.baseURL, id), &it); err != nil {
				lgr.Printf("[DEBUG] hackernews item %d: %v", id, err)
				return nil
			}
			if it.Title == "" || it.Type != "story" {
				return nil
			}
			mu.Lock()
			items = append(items, ranked{rank: rank, item: it})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("hackernews: %w", err)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].rank < items[j].rank })
	res := make([]domain.Candidate, 0, len(items))
	for _, r := range items {
		it := r.item
		link := it.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", it.ID)
		}
		c := domain.Candidate{
			Headline:  it.Title,
			SourceURL: link,
			Sources:   []string{h.Name()},
			Kind:      domain.KindAggregator,
			PlatformSignals: &domain.PlatformSignals{
				AggregatorScore:    math.Min(float64(it.Score)/hnScoreNormalizer, 1),
				AggregatorVelocity: math.Min(float64(it.Descendants)/hnCommentsNorm, 1),
			},
		}
		if it.Time > 0 {
			c.FirstSeenAt = time.Unix(it.Time, 0).UTC()
		}
		res = append(res, c)
	}
	return res, nil
}

func (h *HackerNews) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	addBrowserHeaders(req, "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status code: %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, hnMaxResponseBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
