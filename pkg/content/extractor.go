// Package content fetches web pages and extracts their main article text with trafilatura.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/markusmobius/go-trafilatura"
)

const (
	defaultUserAgent = "Mozilla/5.0 (compatible; Storydesk/1.0)"
	maxPageBytes     = 10 << 20
)

// Article is the extracted main content of a page
type Article struct {
	Title string
	Text  string
}

// HTTPExtractor downloads pages and extracts article content using trafilatura
type HTTPExtractor struct {
	client    *http.Client
	userAgent string
}

// NewHTTPExtractor creates a content extractor with the given request timeout
func NewHTTPExtractor(timeout time.Duration) *HTTPExtractor {
	return &HTTPExtractor{client: &http.Client{Timeout: timeout}, userAgent: defaultUserAgent}
}

// Extract retrieves the page at rawURL and returns its title and plain text.
// Pages without any extractable text are reported as errors.
func (e *HTTPExtractor) Extract(ctx context.Context, rawURL string) (*Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("invalid URL: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	addBrowserHeaders(req)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch URL %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, rawURL)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}
	result, err := trafilatura.Extract(io.LimitReader(resp.Body, maxPageBytes), opts)
	if err != nil {
		return nil, fmt.Errorf("extract content from %s: %w", rawURL, err)
	}
	if result == nil {
		return nil, fmt.Errorf("no content extracted from %s", rawURL)
	}

	text := strings.TrimSpace(result.ContentText)
	if text == "" {
		return nil, fmt.Errorf("no text content extracted from %s", rawURL)
	}
	return &Article{Title: strings.TrimSpace(result.Metadata.Title), Text: text}, nil
}
