package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/feed"
)

// rssHandler serves dashboard stories as an RSS feed.
// Supports /rss/{category} and /rss?category=..., ?level=dashboard|telegram limits alert tiers.
// Reading the feed surfaces stories the same way the dashboard does.
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if category == "" {
		category = r.URL.Query().Get("category")
	}
	level, err := parseLevel(r.URL.Query().Get("level"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	stories, err := s.desk.Dashboard(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to get stories for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := s.feeds.GenerateRSS(stories, feed.Filter{Category: category, MinLevel: level}, s.now())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		lgr.Printf("[WARN] failed to write RSS response: %v", err)
	}
}

// opmlHandler exports configured collector feeds as OPML
func (s *Server) opmlHandler(w http.ResponseWriter, r *http.Request) {
	opml, err := s.feeds.GenerateOPML(s.sources, s.now())
	if err != nil {
		lgr.Printf("[ERROR] failed to generate OPML: %v", err)
		http.Error(w, "Failed to generate OPML", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="storydesk-sources.opml"`)
	if _, err := w.Write([]byte(opml)); err != nil {
		lgr.Printf("[WARN] failed to write OPML response: %v", err)
	}
}

// parseLevel maps the level query value to an alert tier, empty means dashboard
func parseLevel(v string) (domain.AlertLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "", string(domain.AlertDashboard):
		return domain.AlertDashboard, nil
	case string(domain.AlertTelegram):
		return domain.AlertTelegram, nil
	case "ALL", string(domain.AlertNone):
		return domain.AlertNone, nil
	}
	return "", fmt.Errorf("unknown alert level %q", v)
}
