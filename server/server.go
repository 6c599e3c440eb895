// Package server exposes the editorial JSON API (ingestion trigger, dashboard, claims, dismissals,
// feedback, exemplar registration, job status) and the RSS alert feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/feed"
	"github.com/umputun/storydesk/pkg/ingest"
	"github.com/umputun/storydesk/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/ingester.go -pkg mocks -skip-ensure -fmt goimports . Ingester
//go:generate moq -out mocks/desk.go -pkg mocks -skip-ensure -fmt goimports . Desk
//go:generate moq -out mocks/exemplar_store.go -pkg mocks -skip-ensure -fmt goimports . ExemplarStore
//go:generate moq -out mocks/jobs.go -pkg mocks -skip-ensure -fmt goimports . Jobs

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	ingester  Ingester
	desk      Desk
	exemplars ExemplarStore
	jobs      Jobs
	feeds     *feed.Generator
	sources   []feed.Source
	version   string
	debug     bool
	now       func() time.Time

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Ingester runs one ingestion pass on demand
type Ingester interface {
	Ingest(ctx context.Context) (ingest.Result, error)
}

// Desk is the editorial side of the story lifecycle
type Desk interface {
	Dashboard(ctx context.Context) ([]domain.DashboardStory, error)
	Claim(ctx context.Context, storyID int64, actorID string) (string, error)
	Dismiss(ctx context.Context, storyID int64) error
	Feedback(ctx context.Context, fb domain.StoryFeedback) (domain.FeedbackSummary, error)
}

// ExemplarStore registers and lists reference articles
type ExemplarStore interface {
	CreateExemplar(ctx context.Context, url string, now time.Time) (*domain.ArticleExemplar, error)
	ListExemplars(ctx context.Context, statuses ...domain.ExemplarStatus) ([]domain.ArticleExemplar, error)
}

// Jobs reports and triggers periodic jobs
type Jobs interface {
	Status() []scheduler.JobStatus
	RunNow(ctx context.Context, name string) (string, error)
}

// Params holds server dependencies
type Params struct {
	Config    ConfigProvider
	Ingester  Ingester
	Desk      Desk
	Exemplars ExemplarStore
	Jobs      Jobs // optional, job endpoints respond 503 without it
	BaseURL   string
	Sources   []feed.Source // collector feeds exported to OPML
	Version   string
	Debug     bool
	Now       func() time.Time
}

// New initializes a new server instance
func New(p Params) *Server {
	if p.Now == nil {
		p.Now = time.Now
	}
	s := &Server{
		config:    p.Config,
		ingester:  p.Ingester,
		desk:      p.Desk,
		exemplars: p.Exemplars,
		jobs:      p.Jobs,
		feeds:     feed.NewGenerator(p.BaseURL),
		sources:   p.Sources,
		version:   p.Version,
		debug:     p.Debug,
		now:       p.Now,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	httpServer := s.httpServer
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("storydesk", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("POST /ingest", s.ingestHandler)
		r.HandleFunc("GET /dashboard", s.dashboardHandler)

		r.HandleFunc("POST /stories/{id}/claim", s.claimHandler)
		r.HandleFunc("POST /stories/{id}/dismiss", s.dismissHandler)
		r.HandleFunc("POST /stories/{id}/feedback", s.feedbackHandler)

		r.HandleFunc("GET /exemplars", s.listExemplarsHandler)
		r.HandleFunc("POST /exemplars", s.createExemplarHandler)

		r.HandleFunc("GET /jobs", s.jobsHandler)
		r.HandleFunc("POST /jobs/{name}", s.runJobHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}
