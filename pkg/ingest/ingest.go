// Package ingest runs one ingestion pass: collectors are polled concurrently, every candidate is
// enriched with platform signals, scored against the cached topic profiles and exemplars, and
// upserted by its source url. Failures of a single collector or candidate never abort the pass.
package ingest

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/keywords"
	"github.com/umputun/storydesk/pkg/scoring"
)

//go:generate moq -out mocks/collector.go -pkg mocks -skip-ensure -fmt goimports . Collector
//go:generate moq -out mocks/signal_lookup.go -pkg mocks -skip-ensure -fmt goimports . SignalLookup
//go:generate moq -out mocks/story_store.go -pkg mocks -skip-ensure -fmt goimports . StoryStore
//go:generate moq -out mocks/profile_cache.go -pkg mocks -skip-ensure -fmt goimports . ProfileCache
//go:generate moq -out mocks/exemplar_cache.go -pkg mocks -skip-ensure -fmt goimports . ExemplarCache

// Collector produces candidates from one external feed
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]domain.Candidate, error)
}

// SignalLookup returns platform metrics for a set of keywords
type SignalLookup interface {
	Lookup(ctx context.Context, keywords []string) (*domain.PlatformSignals, error)
}

// StoryStore persists scored stories
type StoryStore interface {
	GetStoryBySourceURL(ctx context.Context, sourceURL string) (*domain.Story, error)
	UpsertStory(ctx context.Context, story *domain.Story, now time.Time) (domain.UpsertResult, error)
	AddVerificationSource(ctx context.Context, src domain.VerificationSource, now time.Time) error
}

// ProfileCache provides the current topic profiles snapshot
type ProfileCache interface {
	GetOrReload(ctx context.Context, now time.Time) ([]domain.TopicProfile, error)
}

// ExemplarCache provides the current exemplars snapshot
type ExemplarCache interface {
	GetOrReload(ctx context.Context, now time.Time) ([]domain.ArticleExemplar, error)
}

// Result summarizes one ingestion pass
type Result struct {
	Created   int            `json:"created"`
	Updated   int            `json:"updated"`
	Failed    int            `json:"failed"`
	PerSource map[string]int `json:"per_source"`
}

// Ingester orchestrates collectors, signal lookup, scoring and persistence
type Ingester struct {
	collectors []Collector
	signals    SignalLookup
	store      StoryStore
	profiles   ProfileCache
	exemplars  ExemplarCache
	scorer     *scoring.Scorer
	maxWorkers int
	now        func() time.Time
}

// Config holds dependencies and parameters of Ingester
type Config struct {
	Collectors []Collector
	Signals    SignalLookup // optional
	Store      StoryStore
	Profiles   ProfileCache
	Exemplars  ExemplarCache
	Scorer     *scoring.Scorer
	MaxWorkers int
	Now        func() time.Time // defaults to time.Now
}

// New makes an Ingester. Scorer defaults to scoring.DefaultConfig with phrase stance,
// MaxWorkers defaults to 5.
func New(cfg Config) *Ingester {
	if cfg.Scorer == nil {
		cfg.Scorer = scoring.NewScorer(scoring.DefaultConfig(), nil)
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 5
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Ingester{
		collectors: cfg.Collectors,
		signals:    cfg.Signals,
		store:      cfg.Store,
		profiles:   cfg.Profiles,
		exemplars:  cfg.Exemplars,
		scorer:     cfg.Scorer,
		maxWorkers: cfg.MaxWorkers,
		now:        cfg.Now,
	}
}

// Ingest runs all collectors, scores and upserts every candidate and returns the pass summary.
// Only context cancellation is returned as an error, everything else is counted and logged.
func (i *Ingester) Ingest(ctx context.Context) (Result, error) {
	now := i.now().UTC()
	res := Result{PerSource: make(map[string]int, len(i.collectors))}

	profiles, exemplars := i.scoringInputs(ctx, now)
	candidates := i.collect(ctx, res.PerSource)
	lgr.Printf("[INFO] ingest: %d candidates from %d collectors", len(candidates), len(i.collectors))

	var mu sync.Mutex
	g := errgroup.Group{}
	g.SetLimit(i.maxWorkers)
	for _, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			created, err := i.process(ctx, c, profiles, exemplars, now)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				lgr.Printf("[WARN] ingest candidate %s: %v", c.SourceURL, err)
			case created:
				res.Created++
			default:
				res.Updated++
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("ingest canceled: %w", err)
	}
	lgr.Printf("[INFO] ingest completed: created %d, updated %d, failed %d", res.Created, res.Updated, res.Failed)
	return res, nil
}

// collect runs all collectors concurrently, failed or panicking collectors contribute no candidates
func (i *Ingester) collect(ctx context.Context, perSource map[string]int) []domain.Candidate {
	results := make([][]domain.Candidate, len(i.collectors))
	g := errgroup.Group{}
	for idx, c := range i.collectors {
		g.Go(func() error {
			results[idx] = i.runCollector(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	var all []domain.Candidate
	for idx, c := range i.collectors {
		perSource[c.Name()] += len(results[idx])
		all = append(all, results[idx]...)
	}
	return all
}

func (i *Ingester) runCollector(ctx context.Context, c Collector) (res []domain.Candidate) {
	name := c.Name()
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] collector %s panicked: %v\n%s", name, r, debug.Stack())
			res = nil
		}
	}()

	st := time.Now()
	candidates, err := c.Collect(ctx)
	if err != nil {
		lgr.Printf("[WARN] collector %s failed: %v", name, err)
		return nil
	}
	for idx := range candidates {
		if len(candidates[idx].Sources) == 0 {
			candidates[idx].Sources = []string{name}
		}
	}
	lgr.Printf("[DEBUG] collector %s returned %d candidates in %v", name, len(candidates), time.Since(st))
	return candidates
}

// scoringInputs reads both caches, an unavailable cache degrades to an empty input set
func (i *Ingester) scoringInputs(ctx context.Context, now time.Time) ([]domain.TopicProfile, []domain.ArticleExemplar) {
	var profiles []domain.TopicProfile
	var exemplars []domain.ArticleExemplar
	if i.profiles != nil {
		p, err := i.profiles.GetOrReload(ctx, now)
		if err != nil {
			lgr.Printf("[WARN] topic profiles unavailable, scoring without them: %v", err)
		}
		profiles = p
	}
	if i.exemplars != nil {
		e, err := i.exemplars.GetOrReload(ctx, now)
		if err != nil {
			lgr.Printf("[WARN] exemplars unavailable, scoring without them: %v", err)
		}
		exemplars = e
	}
	return profiles, exemplars
}

// process enriches, scores and persists one candidate, returns true if a new story was created
func (i *Ingester) process(ctx context.Context, c domain.Candidate, profiles []domain.TopicProfile,
	exemplars []domain.ArticleExemplar, now time.Time) (bool, error) {
	if c.SourceURL == "" || c.Headline == "" {
		return false, fmt.Errorf("candidate without url or headline: %w", domain.ErrInvalidInput)
	}
	name := sourceName(c)

	if i.signals != nil && needsSignals(c.Kind) {
		sig, err := i.signals.Lookup(ctx, keywords.Extract(c.Headline))
		if err != nil {
			lgr.Printf("[DEBUG] signal lookup for %s failed: %v", c.SourceURL, err)
		} else {
			c.PlatformSignals = c.PlatformSignals.Merge(sig)
		}
	}

	existing, err := i.store.GetStoryBySourceURL(ctx, c.SourceURL)
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	if existing != nil {
		c.Sources = mergeSources(existing.Sources, c.Sources)
		if !existing.FirstSeenAt.IsZero() {
			c.FirstSeenAt = existing.FirstSeenAt
		}
	}

	b := i.scorer.Score(c, profiles, exemplars, now)
	story := &domain.Story{
		Headline:        c.Headline,
		SourceURL:       c.SourceURL,
		Sources:         c.Sources,
		Category:        b.MatchedCategory,
		TopicClusterID:  b.TopicClusterID,
		RelevanceScore:  b.RelevanceScore,
		VelocityScore:   b.VelocityScore,
		TotalScore:      b.TotalScore,
		AlertLevel:      b.AlertLevel,
		FirstSeenAt:     c.FirstSeenAt,
		PlatformSignals: c.PlatformSignals,
	}
	if story.FirstSeenAt.IsZero() {
		story.FirstSeenAt = now
	}

	res, err := i.store.UpsertStory(ctx, story, now)
	if err != nil {
		return false, fmt.Errorf("persist: %w", err)
	}

	src := domain.VerificationSource{
		StoryID:      res.ID,
		SourceName:   name,
		SourceURL:    c.SourceURL,
		Corroborates: true,
		Excerpt:      c.Excerpt,
	}
	if err := i.store.AddVerificationSource(ctx, src, now); err != nil {
		lgr.Printf("[WARN] verification source for story %d: %v", res.ID, err)
	}

	lgr.Printf("[DEBUG] scored %q: relevance %.1f, velocity %.1f, total %.1f, alert %s", c.Headline,
		b.RelevanceScore, b.VelocityScore, b.TotalScore, b.AlertLevel)
	return res.Created, nil
}

func needsSignals(kind domain.SourceKind) bool {
	switch kind {
	case domain.KindRSS, domain.KindAggregator, domain.KindSocial:
		return true
	}
	return false
}

func sourceName(c domain.Candidate) string {
	if len(c.Sources) > 0 && c.Sources[0] != "" {
		return c.Sources[0]
	}
	return string(c.Kind)
}

// mergeSources returns the union of both lists, prior entries first
func mergeSources(prior, current []string) []string {
	seen := make(map[string]struct{}, len(prior)+len(current))
	res := make([]string, 0, len(prior)+len(current))
	for _, list := range [][]string{prior, current} {
		for _, s := range list {
			if _, ok := seen[s]; ok || s == "" {
				continue
			}
			seen[s] = struct{}{}
			res = append(res, s)
		}
	}
	return res
}
