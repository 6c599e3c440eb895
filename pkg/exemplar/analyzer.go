// Package exemplar fingerprints vetted reference articles. A fingerprint holds the article's
// most frequent keywords, its top topics and the profile categories it resembles, scoring
// uses analyzed fingerprints to bias candidates toward topics that worked before.
package exemplar

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/storydesk/pkg/content"
	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/keywords"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor
//go:generate moq -out mocks/profile_source.go -pkg mocks -skip-ensure -fmt goimports . ProfileSource

const (
	fingerprintKeywords = 20
	fingerprintTopics   = 5
	minCategoryOverlap  = 2
)

// Store persists exemplars and their analysis outcome
type Store interface {
	ListExemplars(ctx context.Context, statuses ...domain.ExemplarStatus) ([]domain.ArticleExemplar, error)
	SavePreview(ctx context.Context, id int64, title string, now time.Time) error
	SaveAnalysis(ctx context.Context, id int64, title string, fp domain.Fingerprint, now time.Time) error
	MarkFailed(ctx context.Context, id int64, errMsg string, now time.Time) error
}

// Extractor fetches a page and returns its main article content
type Extractor interface {
	Extract(ctx context.Context, url string) (*content.Article, error)
}

// ProfileSource provides current topic profiles
type ProfileSource interface {
	GetOrReload(ctx context.Context, now time.Time) ([]domain.TopicProfile, error)
}

// Result counts exemplars processed by one analysis pass
type Result struct {
	Analyzed int `json:"analyzed"`
	Failed   int `json:"failed"`
}

// Analyzer moves pending exemplars through PREVIEW_READY to ANALYZED, or to FAILED
type Analyzer struct {
	store      Store
	extractor  Extractor
	profiles   ProfileSource
	maxWorkers int
	now        func() time.Time
}

// Config holds dependencies of Analyzer
type Config struct {
	Store      Store
	Extractor  Extractor
	Profiles   ProfileSource
	MaxWorkers int // concurrent page extractions, default 3
	Now        func() time.Time
}

// NewAnalyzer makes an exemplar analyzer
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 3
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Analyzer{store: cfg.Store, extractor: cfg.Extractor, profiles: cfg.Profiles,
		maxWorkers: cfg.MaxWorkers, now: cfg.Now}
}

// AnalyzePending extracts and fingerprints all pending exemplars, including previews left by an
// interrupted pass. A failure of one exemplar marks it FAILED and doesn't stop the others.
func (a *Analyzer) AnalyzePending(ctx context.Context) (Result, error) {
	pending, err := a.store.ListExemplars(ctx, domain.ExemplarPending, domain.ExemplarPreviewReady)
	if err != nil {
		return Result{}, fmt.Errorf("list pending exemplars: %w", err)
	}
	if len(pending) == 0 {
		return Result{}, nil
	}

	profiles, err := a.profiles.GetOrReload(ctx, a.now().UTC())
	if err != nil {
		lgr.Printf("[WARN] profiles unavailable, exemplars analyzed without category similarity: %v", err)
		profiles = nil
	}

	var analyzed, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxWorkers)
	for _, ex := range pending {
		g.Go(func() error {
			if err := a.analyze(gctx, ex, profiles); err != nil {
				lgr.Printf("[WARN] exemplar %d (%s) analysis failed: %v", ex.ID, ex.URL, err)
				failed.Add(1)
				return nil
			}
			analyzed.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	res := Result{Analyzed: int(analyzed.Load()), Failed: int(failed.Load())}
	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("exemplar analysis interrupted: %w", err)
	}
	lgr.Printf("[INFO] exemplar analysis: %d analyzed, %d failed", res.Analyzed, res.Failed)
	return res, nil
}

func (a *Analyzer) analyze(ctx context.Context, ex domain.ArticleExemplar, profiles []domain.TopicProfile) error {
	article, err := a.extractor.Extract(ctx, ex.URL)
	if err != nil {
		if ctx.Err() != nil {
			return err // leave it pending for the next pass
		}
		if mErr := a.store.MarkFailed(ctx, ex.ID, err.Error(), a.now().UTC()); mErr != nil {
			return fmt.Errorf("mark failed: %w (extract: %v)", mErr, err)
		}
		return err
	}

	title := article.Title
	if title == "" {
		title = ex.Title
	}
	if err := a.store.SavePreview(ctx, ex.ID, title, a.now().UTC()); err != nil {
		return fmt.Errorf("save preview: %w", err)
	}

	fp := Fingerprint(article.Title+"\n"+article.Text, profiles)
	if err := a.store.SaveAnalysis(ctx, ex.ID, title, fp, a.now().UTC()); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	lgr.Printf("[DEBUG] exemplar %d analyzed, topics %v, similar to %v", ex.ID, fp.Topics, fp.SimilarToCategories)
	return nil
}

// Fingerprint derives a fingerprint from article text. Keywords are the most frequent
// significant terms with their counts as deltas, topics are the leading keywords, and
// similar categories are profiles sharing at least two of the keywords.
func Fingerprint(text string, profiles []domain.TopicProfile) domain.Fingerprint {
	freq := keywords.Frequency(text)
	top := keywords.Top(freq, fingerprintKeywords)

	fp := domain.Fingerprint{
		Topics:              []string{},
		Keywords:            make(map[string]float64, len(top)),
		SimilarToCategories: []string{},
	}
	for i, kw := range top {
		fp.Keywords[kw] = float64(freq[kw])
		if i < fingerprintTopics {
			fp.Topics = append(fp.Topics, kw)
		}
	}

	for _, p := range profiles {
		overlap := 0
		for kw := range fp.Keywords {
			if _, ok := p.KeywordWeights[kw]; ok {
				overlap++
			}
		}
		if overlap >= minCategoryOverlap {
			fp.SimilarToCategories = append(fp.SimilarToCategories, p.Category)
		}
	}
	sort.Strings(fp.SimilarToCategories)
	return fp
}
