package ingest

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/ingest/mocks"
	"github.com/umputun/storydesk/pkg/repository"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func staticCollector(name string, candidates ...domain.Candidate) *mocks.CollectorMock {
	return &mocks.CollectorMock{
		NameFunc: func() string { return name },
		CollectFunc: func(context.Context) ([]domain.Candidate, error) {
			return candidates, nil
		},
	}
}

func politicsProfiles() *mocks.ProfileCacheMock {
	return &mocks.ProfileCacheMock{GetOrReloadFunc: func(context.Context, time.Time) ([]domain.TopicProfile, error) {
		return []domain.TopicProfile{{Category: "politics",
			KeywordWeights: map[string]float64{"trump": 5, "economy": 4, "record": 2, "highs": 1}}}, nil
	}}
}

func noExemplars() *mocks.ExemplarCacheMock {
	return &mocks.ExemplarCacheMock{GetOrReloadFunc: func(context.Context, time.Time) ([]domain.ArticleExemplar, error) {
		return nil, nil
	}}
}

// memStore is a StoryStore mock keeping upserted stories by source url
type memStore struct {
	mu      sync.Mutex
	stories map[string]*domain.Story
	nextID  int64
}

func newMemStore() (*memStore, *mocks.StoryStoreMock) {
	ms := &memStore{stories: map[string]*domain.Story{}}
	mock := &mocks.StoryStoreMock{
		GetStoryBySourceURLFunc: func(_ context.Context, url string) (*domain.Story, error) {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			s, ok := ms.stories[url]
			if !ok {
				return nil, nil
			}
			cp := *s
			return &cp, nil
		},
		UpsertStoryFunc: func(_ context.Context, story *domain.Story, _ time.Time) (domain.UpsertResult, error) {
			ms.mu.Lock()
			defer ms.mu.Unlock()
			if s, ok := ms.stories[story.SourceURL]; ok {
				cp := *story
				cp.ID = s.ID
				ms.stories[story.SourceURL] = &cp
				return domain.UpsertResult{ID: s.ID}, nil
			}
			ms.nextID++
			cp := *story
			cp.ID = ms.nextID
			ms.stories[story.SourceURL] = &cp
			return domain.UpsertResult{ID: cp.ID, Created: true}, nil
		},
		AddVerificationSourceFunc: func(context.Context, domain.VerificationSource, time.Time) error {
			return nil
		},
	}
	return ms, mock
}

func TestIngester_Ingest(t *testing.T) {
	rss := staticCollector("bbc",
		domain.Candidate{Headline: "Trump economy soars to record highs", SourceURL: "https://bbc.example/1",
			Kind: domain.KindRSS, Excerpt: "markets rally", FirstSeenAt: testNow.Add(-time.Hour)},
		domain.Candidate{Headline: "Local weather remains calm", SourceURL: "https://bbc.example/2", Kind: domain.KindRSS},
	)
	hn := staticCollector("hackernews",
		domain.Candidate{Headline: "New compiler released", SourceURL: "https://hn.example/1", Kind: domain.KindAggregator,
			PlatformSignals: &domain.PlatformSignals{AggregatorScore: 0.5}},
	)
	failing := &mocks.CollectorMock{
		NameFunc:    func() string { return "broken" },
		CollectFunc: func(context.Context) ([]domain.Candidate, error) { return nil, errors.New("timeout") },
	}
	panicking := &mocks.CollectorMock{
		NameFunc:    func() string { return "panicky" },
		CollectFunc: func(context.Context) ([]domain.Candidate, error) { panic("boom") },
	}

	ms, store := newMemStore()
	ing := New(Config{
		Collectors: []Collector{rss, hn, failing, panicking},
		Store:      store,
		Profiles:   politicsProfiles(),
		Exemplars:  noExemplars(),
		MaxWorkers: 2,
		Now:        fixedNow,
	})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, map[string]int{"bbc": 2, "hackernews": 1, "broken": 0, "panicky": 0}, res.PerSource)

	top := ms.stories["https://bbc.example/1"]
	require.NotNil(t, top)
	assert.Equal(t, "politics", top.Category)
	assert.Equal(t, "politics/economy+highs", top.TopicClusterID)
	assert.Equal(t, []string{"bbc"}, top.Sources, "collector name used as source")
	assert.True(t, top.FirstSeenAt.Equal(testNow.Add(-time.Hour)))
	assert.Greater(t, top.RelevanceScore, 50.0)

	calm := ms.stories["https://bbc.example/2"]
	require.NotNil(t, calm)
	assert.Empty(t, calm.Category)
	assert.True(t, calm.FirstSeenAt.Equal(testNow), "missing first-seen defaults to now")

	require.Len(t, store.AddVerificationSourceCalls(), 3)
	names := map[string]bool{}
	for _, c := range store.AddVerificationSourceCalls() {
		assert.True(t, c.Src.Corroborates)
		names[c.Src.SourceName] = true
	}
	assert.Equal(t, map[string]bool{"bbc": true, "hackernews": true}, names)

	// second pass updates the same stories
	res, err = ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Updated)
	assert.Len(t, ms.stories, 3)
}

func TestIngester_PersistFailureCounted(t *testing.T) {
	_, store := newMemStore()
	upsert := store.UpsertStoryFunc
	store.UpsertStoryFunc = func(ctx context.Context, story *domain.Story, now time.Time) (domain.UpsertResult, error) {
		if story.SourceURL == "https://x.example/bad" {
			return domain.UpsertResult{}, errors.New("disk full")
		}
		return upsert(ctx, story, now)
	}

	ing := New(Config{
		Collectors: []Collector{staticCollector("wire",
			domain.Candidate{Headline: "Good story here", SourceURL: "https://x.example/good", Kind: domain.KindWire},
			domain.Candidate{Headline: "Bad story here", SourceURL: "https://x.example/bad", Kind: domain.KindWire},
			domain.Candidate{Headline: "", SourceURL: "https://x.example/empty", Kind: domain.KindWire},
		)},
		Store: store,
		Now:   fixedNow,
	})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, map[string]int{"wire": 3}, res.PerSource)
	assert.Len(t, store.AddVerificationSourceCalls(), 1, "no verification source for failed writes")
}

func TestIngester_SignalLookup(t *testing.T) {
	_, store := newMemStore()
	signals := &mocks.SignalLookupMock{LookupFunc: func(_ context.Context, kws []string) (*domain.PlatformSignals, error) {
		if len(kws) > 0 && kws[0] == "failing" {
			return nil, errors.New("signals down")
		}
		return &domain.PlatformSignals{Heat: 90, Volume: 20000, Velocity: domain.VelocityRising, AggregatorScore: 0.9}, nil
	}}

	ing := New(Config{
		Collectors: []Collector{staticCollector("mixed",
			domain.Candidate{Headline: "Social buzz about launch", SourceURL: "https://s.example/1", Kind: domain.KindSocial,
				PlatformSignals: &domain.PlatformSignals{AggregatorScore: 0.2}},
			domain.Candidate{Headline: "Failing lookup story", SourceURL: "https://s.example/2", Kind: domain.KindRSS},
			domain.Candidate{Headline: "Wire report from agency", SourceURL: "https://s.example/3", Kind: domain.KindWire},
		)},
		Signals: signals,
		Store:   store,
		Now:     fixedNow,
	})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Failed, "lookup errors are swallowed")
	assert.Len(t, signals.LookupCalls(), 2, "wire candidates skip signal lookup")

	var social *domain.Story
	for _, c := range store.UpsertStoryCalls() {
		if c.Story.SourceURL == "https://s.example/1" {
			social = c.Story
		}
	}
	require.NotNil(t, social)
	require.NotNil(t, social.PlatformSignals)
	assert.InDelta(t, 90, social.PlatformSignals.Heat, 0.001, "missing field filled from lookup")
	assert.InDelta(t, 0.2, social.PlatformSignals.AggregatorScore, 0.001, "own field kept")
	assert.Equal(t, domain.AlertNone, social.AlertLevel)
	assert.Greater(t, social.VelocityScore, 10.0)
}

func TestIngester_MergesPriorSources(t *testing.T) {
	prior := &domain.Story{ID: 7, SourceURL: "https://m.example/1", Sources: []string{"reuters", "ap"},
		FirstSeenAt: testNow.Add(-5 * time.Hour)}
	store := &mocks.StoryStoreMock{
		GetStoryBySourceURLFunc: func(context.Context, string) (*domain.Story, error) { return prior, nil },
		UpsertStoryFunc: func(context.Context, *domain.Story, time.Time) (domain.UpsertResult, error) {
			return domain.UpsertResult{ID: 7}, nil
		},
		AddVerificationSourceFunc: func(context.Context, domain.VerificationSource, time.Time) error { return nil },
	}

	ing := New(Config{
		Collectors: []Collector{staticCollector("bbc",
			domain.Candidate{Headline: "Storm hits coast", SourceURL: "https://m.example/1", Sources: []string{"bbc", "ap"},
				Kind: domain.KindWire, FirstSeenAt: testNow})},
		Store: store,
		Now:   fixedNow,
	})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	require.Len(t, store.UpsertStoryCalls(), 1)
	story := store.UpsertStoryCalls()[0].Story
	assert.Equal(t, []string{"reuters", "ap", "bbc"}, story.Sources)
	assert.True(t, story.FirstSeenAt.Equal(testNow.Add(-5*time.Hour)), "recency measured from the first sighting")

	require.Len(t, store.AddVerificationSourceCalls(), 1)
	src := store.AddVerificationSourceCalls()[0].Src
	assert.Equal(t, int64(7), src.StoryID)
	assert.Equal(t, "bbc", src.SourceName)
}

func TestIngester_CacheUnavailable(t *testing.T) {
	ms, store := newMemStore()
	profiles := &mocks.ProfileCacheMock{GetOrReloadFunc: func(context.Context, time.Time) ([]domain.TopicProfile, error) {
		return nil, errors.New("db down")
	}}
	exemplars := &mocks.ExemplarCacheMock{GetOrReloadFunc: func(context.Context, time.Time) ([]domain.ArticleExemplar, error) {
		return nil, errors.New("db down")
	}}

	ing := New(Config{
		Collectors: []Collector{staticCollector("bbc",
			domain.Candidate{Headline: "Trump economy soars", SourceURL: "https://c.example/1", Kind: domain.KindWire})},
		Store:     store,
		Profiles:  profiles,
		Exemplars: exemplars,
		Now:       fixedNow,
	})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	story := ms.stories["https://c.example/1"]
	require.NotNil(t, story)
	assert.Empty(t, story.Category, "no profiles, no category")
	assert.Len(t, profiles.GetOrReloadCalls(), 1)
	assert.Len(t, exemplars.GetOrReloadCalls(), 1)
}

func TestIngester_WorkerLimit(t *testing.T) {
	var inFlight, maxInFlight int32
	store := &mocks.StoryStoreMock{
		GetStoryBySourceURLFunc: func(context.Context, string) (*domain.Story, error) { return nil, nil },
		UpsertStoryFunc: func(context.Context, *domain.Story, time.Time) (domain.UpsertResult, error) {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				prev := atomic.LoadInt32(&maxInFlight)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxInFlight, prev, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			return domain.UpsertResult{ID: 1, Created: true}, nil
		},
		AddVerificationSourceFunc: func(context.Context, domain.VerificationSource, time.Time) error { return nil },
	}

	var candidates []domain.Candidate
	for _, u := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		candidates = append(candidates, domain.Candidate{Headline: "Story " + u, SourceURL: "https://w.example/" + u,
			Kind: domain.KindWire})
	}
	ing := New(Config{Collectors: []Collector{staticCollector("wire", candidates...)}, Store: store, MaxWorkers: 3, Now: fixedNow})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, res.Created)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxInFlight), int32(3))
}

func TestIngester_Canceled(t *testing.T) {
	_, store := newMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ing := New(Config{Collectors: []Collector{staticCollector("wire",
		domain.Candidate{Headline: "Story one", SourceURL: "https://z.example/1", Kind: domain.KindWire})},
		Store: store, Now: fixedNow})
	_, err := ing.Ingest(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestIngester_IdempotentWithRepository(t *testing.T) {
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	defer repos.Close()

	c := domain.Candidate{Headline: "Storm hits coast", SourceURL: "https://r.example/storm", Kind: domain.KindWire,
		Excerpt: "heavy rain"}
	ing := New(Config{
		Collectors: []Collector{staticCollector("reuters", c), staticCollector("ap", c)},
		Store:      repos.Story,
		MaxWorkers: 4,
		Now:        fixedNow,
	})

	res, err := ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Updated)

	res, err = ing.Ingest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Updated)

	count, err := repos.Story.CountStories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	story, err := repos.Story.GetStoryBySourceURL(context.Background(), "https://r.example/storm")
	require.NoError(t, err)
	require.NotNil(t, story)
	assert.ElementsMatch(t, []string{"reuters", "ap"}, story.Sources)
	assert.Equal(t, domain.VerificationCorroborated, story.VerificationStatus)

	verifications, err := repos.Story.GetVerificationSources(context.Background(), []int64{story.ID})
	require.NoError(t, err)
	assert.Len(t, verifications[story.ID], 2, "one per source, repeated passes add nothing")
}
