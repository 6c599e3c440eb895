// Package drafts creates article drafts for claimed stories, either in an external
// editorial system over HTTP or locally with generated ids.
package drafts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const maxResponseBytes = 64 << 10

// Local issues draft ids without an external editorial system
type Local struct {
	Prefix string
}

// CreateDraft returns a new unique article id
func (l Local) CreateDraft(_ context.Context, storyID int64, _ string) (string, error) {
	prefix := l.Prefix
	if prefix == "" {
		prefix = "draft"
	}
	return fmt.Sprintf("%s-%d-%s", prefix, storyID, uuid.NewString()), nil
}

// HTTPCreator creates drafts by POSTing to an editorial system endpoint.
// Requests are not retried, a repeated request could create a second draft.
type HTTPCreator struct {
	endpoint string
	token    string
	client   *http.Client
}

// HTTPConfig defines the HTTP draft creator
type HTTPConfig struct {
	Endpoint string
	Token    string // optional bearer token
	Timeout  time.Duration
}

type draftRequest struct {
	StoryID       int64  `json:"story_id"`
	ActorID       string `json:"actor_id"`
	IdempotencyID string `json:"idempotency_id"`
}

type draftResponse struct {
	ArticleID string `json:"article_id"`
}

// NewHTTPCreator makes an HTTP draft creator, Timeout defaults to 10s
func NewHTTPCreator(cfg HTTPConfig) *HTTPCreator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &HTTPCreator{endpoint: cfg.Endpoint, token: cfg.Token, client: &http.Client{Timeout: cfg.Timeout}}
}

// CreateDraft asks the editorial system for a new draft and returns its article id
func (h *HTTPCreator) CreateDraft(ctx context.Context, storyID int64, actorID string) (string, error) {
	body, err := json.Marshal(draftRequest{StoryID: storyID, ActorID: actorID, IdempotencyID: uuid.NewString()})
	if err != nil {
		return "", fmt.Errorf("marshal draft request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create draft request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("create draft: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("create draft: unexpected status code %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var dr draftResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&dr); err != nil {
		return "", fmt.Errorf("decode draft response: %w", err)
	}
	if dr.ArticleID == "" {
		return "", errors.New("create draft: empty article id in response")
	}
	return dr.ArticleID, nil
}
