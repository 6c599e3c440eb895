// Package signals queries an external trend service for platform metrics of story keywords.
package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/umputun/storydesk/pkg/domain"
)

const maxResponseBytes = 64 << 10

// Client looks up heat, volume and velocity for keywords over HTTP.
// The service is called as GET <endpoint>?q=kw1,kw2 and answers with a JSON object of signals,
// 404 means the service knows nothing about the keywords.
type Client struct {
	endpoint string
	token    string
	client   *http.Client
}

// Config defines the signal lookup client
type Config struct {
	Endpoint string
	Token    string // optional bearer token
	Timeout  time.Duration
}

type lookupResponse struct {
	Heat           float64 `json:"heat"`
	Volume         int64   `json:"volume"`
	Velocity       string  `json:"velocity"`
	TrendMagnitude float64 `json:"trend_magnitude"`
}

// New makes a signal lookup client, Timeout defaults to 5s
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{endpoint: cfg.Endpoint, token: cfg.Token, client: &http.Client{Timeout: cfg.Timeout}}
}

// Lookup returns platform signals for keywords. Returns nil signals without error
// if there are no keywords or the service has no data for them.
func (c *Client) Lookup(ctx context.Context, keywords []string) (*domain.PlatformSignals, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse signals endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", strings.Join(keywords, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create signals request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("signals lookup: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("signals lookup: unexpected status code %d", resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&lr); err != nil {
		return nil, fmt.Errorf("decode signals response: %w", err)
	}

	return &domain.PlatformSignals{
		Heat:           min(max(lr.Heat, 0), 100),
		Volume:         max(lr.Volume, 0),
		Velocity:       normalizeVelocity(lr.Velocity),
		TrendMagnitude: lr.TrendMagnitude,
	}, nil
}

// normalizeVelocity keeps known velocity labels, anything else is dropped
func normalizeVelocity(v string) string {
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case domain.VelocityRising, domain.VelocityNew, domain.VelocitySteady, domain.VelocityFalling:
		return v
	}
	return ""
}
