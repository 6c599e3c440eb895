package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/lifecycle/mocks"
	"github.com/umputun/storydesk/pkg/repository"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func setupRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func setupFileRepos(t *testing.T) *repository.Repositories {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "storydesk.db") + "?mode=rwc&_txlock=immediate&_pragma=busy_timeout(5000)"
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: dsn, MaxOpenConns: 10})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

func addStory(t *testing.T, repos *repository.Repositories, url string, relevance float64, firstSeen time.Time) int64 {
	t.Helper()
	res, err := repos.Story.UpsertStory(context.Background(), &domain.Story{
		Headline:       "Trump economy soars " + url,
		SourceURL:      url,
		Sources:        []string{"reuters"},
		Category:       "politics",
		RelevanceScore: relevance,
		TotalScore:     relevance,
		AlertLevel:     domain.AlertDashboard,
		FirstSeenAt:    firstSeen,
	}, testNow)
	require.NoError(t, err)
	return res.ID
}

func countingDrafts() *mocks.DraftCreatorMock {
	var n int32
	return &mocks.DraftCreatorMock{CreateDraftFunc: func(_ context.Context, storyID int64, actorID string) (string, error) {
		return fmt.Sprintf("article-%d-%d", storyID, atomic.AddInt32(&n, 1)), nil
	}}
}

func newTestManager(repos *repository.Repositories, drafts DraftCreator) *Manager {
	return NewManager(Config{
		Stories:     repos.Story,
		Feedback:    repos.Feedback,
		Profiles:    repos.Profile,
		Drafts:      drafts,
		SweepOnRead: true,
		Now:         fixedNow,
	})
}

func TestStateOf(t *testing.T) {
	actor, article := "editor", "article"
	surfaced := testNow
	tbl := []struct {
		name  string
		story domain.Story
		want  State
	}{
		{"fresh", domain.Story{}, StateFresh},
		{"surfaced", domain.Story{SurfacedAt: &surfaced}, StateSurfaced},
		{"claimed", domain.Story{ClaimedByID: &actor, ArticleID: &article, Outcome: domain.OutcomeClaimed}, StateClaimed},
		{"stale", domain.Story{Dismissed: true, DismissReason: domain.DismissStale}, StateStaleDismissed},
		{"manual", domain.Story{Dismissed: true, DismissReason: domain.DismissManual}, StateManuallyDismissed},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			got := StateOf(&tt.story)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want != StateFresh && tt.want != StateSurfaced, got.Terminal())
		})
	}
}

func TestManager_DashboardSweepsStale(t *testing.T) {
	repos := setupRepos(t)
	staleID := addStory(t, repos, "https://example.com/stale", 95, testNow.Add(-19*time.Hour))
	freshID := addStory(t, repos, "https://example.com/fresh", 50, testNow.Add(-time.Hour))

	m := newTestManager(repos, countingDrafts())
	stories, err := m.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, freshID, stories[0].ID)

	stale, err := repos.Story.GetStory(context.Background(), staleID)
	require.NoError(t, err)
	assert.True(t, stale.Dismissed)
	assert.Equal(t, domain.OutcomeIgnored, stale.Outcome)
	assert.Equal(t, StateStaleDismissed, StateOf(stale))
}

func TestManager_DashboardWithoutSweep(t *testing.T) {
	repos := setupRepos(t)
	staleID := addStory(t, repos, "https://example.com/stale", 95, testNow.Add(-19*time.Hour))

	m := NewManager(Config{Stories: repos.Story, Feedback: repos.Feedback, Drafts: countingDrafts(), Now: fixedNow})
	stories, err := m.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, 1, "sweep runs separately")
	assert.Equal(t, staleID, stories[0].ID)

	n, err := m.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	stories, err = m.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestManager_DashboardRankingAndSurfacing(t *testing.T) {
	repos := setupRepos(t)
	var ids []int64
	for i := 0; i < 12; i++ {
		ids = append(ids, addStory(t, repos, fmt.Sprintf("https://example.com/%d", i), float64(10+i*5), testNow.Add(-time.Hour)))
	}
	require.NoError(t, repos.Story.AddVerificationSource(context.Background(), domain.VerificationSource{
		StoryID: ids[11], SourceName: "reuters", SourceURL: "https://example.com/11", Corroborates: true}, testNow))

	m := newTestManager(repos, countingDrafts())
	articleID, err := m.Claim(context.Background(), ids[10], "editor-1")
	require.NoError(t, err)

	stories, err := m.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, 10)
	assert.Equal(t, ids[11], stories[0].ID, "highest relevance first")
	for i := 1; i < len(stories); i++ {
		assert.GreaterOrEqual(t, stories[i-1].RelevanceScore, stories[i].RelevanceScore)
	}
	require.Len(t, stories[0].Verification, 1)
	assert.Equal(t, "reuters", stories[0].Verification[0].SourceName)
	assert.Nil(t, stories[0].Claim)

	require.NotNil(t, stories[1].Claim, "claimed stories stay on the dashboard with claim summary")
	assert.Equal(t, "editor-1", stories[1].Claim.ClaimedByID)
	assert.Equal(t, articleID, stories[1].Claim.ArticleID)

	for _, s := range stories {
		require.NotNil(t, s.SurfacedAt)
	}
	got, err := repos.Story.GetStory(context.Background(), ids[11])
	require.NoError(t, err)
	require.NotNil(t, got.SurfacedAt)
	assert.Equal(t, StateSurfaced, StateOf(got))

	low, err := repos.Story.GetStory(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, StateFresh, StateOf(low), "not returned, not surfaced")
}

func TestManager_Claim(t *testing.T) {
	repos := setupRepos(t)
	id := addStory(t, repos, "https://example.com/claim", 50, testNow)
	drafts := countingDrafts()
	m := newTestManager(repos, drafts)

	articleID, err := m.Claim(context.Background(), id, "editor-1")
	require.NoError(t, err)
	assert.NotEmpty(t, articleID)

	story, err := repos.Story.GetStory(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateClaimed, StateOf(story))
	assert.Equal(t, articleID, *story.ArticleID)

	_, err = m.Claim(context.Background(), id, "editor-2")
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Len(t, drafts.CreateDraftCalls(), 1, "no draft for a rejected claim")

	_, err = m.Claim(context.Background(), 999, "editor-2")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = m.Claim(context.Background(), id, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestManager_ClaimDismissedConflict(t *testing.T) {
	repos := setupRepos(t)
	id := addStory(t, repos, "https://example.com/dismissed", 50, testNow)
	m := newTestManager(repos, countingDrafts())

	require.NoError(t, m.Dismiss(context.Background(), id))
	_, err := m.Claim(context.Background(), id, "editor-1")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestManager_ClaimDraftFailureLeavesStoryUntouched(t *testing.T) {
	repos := setupRepos(t)
	id := addStory(t, repos, "https://example.com/draft-fail", 50, testNow)
	drafts := &mocks.DraftCreatorMock{CreateDraftFunc: func(context.Context, int64, string) (string, error) {
		return "", errors.New("cms unavailable")
	}}
	m := newTestManager(repos, drafts)

	_, err := m.Claim(context.Background(), id, "editor-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cms unavailable")

	story, err := repos.Story.GetStory(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, story.IsClaimed())
	assert.Nil(t, story.ArticleID)
	assert.Equal(t, domain.OutcomeNone, story.Outcome)
}

func TestManager_ConcurrentClaims(t *testing.T) {
	repos := setupFileRepos(t)
	id := addStory(t, repos, "https://example.com/race", 50, testNow)
	m := newTestManager(repos, countingDrafts())

	var wins, conflicts int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.Claim(context.Background(), id, fmt.Sprintf("editor-%d", i))
			switch {
			case err == nil:
				atomic.AddInt32(&wins, 1)
			case errors.Is(err, domain.ErrConflict):
				atomic.AddInt32(&conflicts, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&wins))
	assert.Equal(t, int32(9), atomic.LoadInt32(&conflicts))

	story, err := repos.Story.GetStory(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, story.ClaimedByID)
	require.NotNil(t, story.ArticleID)
}

func TestManager_ClaimLostRaceReportsConflict(t *testing.T) {
	story := &domain.Story{ID: 5}
	stories := &mocks.StoryStoreMock{
		GetStoryFunc: func(context.Context, int64) (*domain.Story, error) { return story, nil },
		ClaimStoryFunc: func(context.Context, int64, string, string, time.Time) error {
			return fmt.Errorf("story 5 already claimed or dismissed: %w", domain.ErrConflict)
		},
	}
	m := NewManager(Config{Stories: stories, Drafts: countingDrafts(), Now: fixedNow})

	_, err := m.Claim(context.Background(), 5, "editor-1")
	require.ErrorIs(t, err, domain.ErrConflict)
	require.Len(t, stories.ClaimStoryCalls(), 1)
	assert.Equal(t, "article-5-1", stories.ClaimStoryCalls()[0].ArticleID)
	assert.True(t, stories.ClaimStoryCalls()[0].Now.Equal(testNow))
}

func TestManager_Dismiss(t *testing.T) {
	repos := setupRepos(t)
	id := addStory(t, repos, "https://example.com/dismiss", 50, testNow)
	claimedID := addStory(t, repos, "https://example.com/dismiss-claimed", 50, testNow)
	m := newTestManager(repos, countingDrafts())

	require.NoError(t, m.Dismiss(context.Background(), id))
	require.NoError(t, m.Dismiss(context.Background(), id), "idempotent")
	story, err := repos.Story.GetStory(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StateManuallyDismissed, StateOf(story))
	assert.Equal(t, domain.OutcomeIgnored, story.Outcome)

	_, err = m.Claim(context.Background(), claimedID, "editor-1")
	require.NoError(t, err)
	require.ErrorIs(t, m.Dismiss(context.Background(), claimedID), domain.ErrConflict)
	require.ErrorIs(t, m.Dismiss(context.Background(), 999), domain.ErrNotFound)

	stories, err := m.Dashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, claimedID, stories[0].ID)
}

func TestManager_Feedback(t *testing.T) {
	repos := setupRepos(t)
	ctx := context.Background()
	_, err := repos.Profile.SeedProfile(ctx, domain.TopicProfile{Category: "politics",
		KeywordWeights: map[string]float64{"trump": 5, "economy": 9.8, "soars": 0.7}}, testNow)
	require.NoError(t, err)
	id := addStory(t, repos, "https://example.com/fb", 50, testNow)
	m := newTestManager(repos, countingDrafts())

	summary, err := m.Feedback(ctx, domain.StoryFeedback{StoryID: id, UserID: "u1", Rating: 5,
		Tags: []domain.FeedbackTag{domain.TagRelevant, domain.TagGreatAngle}, Action: domain.ActionReviewed})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRatings)
	assert.InDelta(t, 5, summary.AvgRating, 0.001)

	profiles, err := repos.Profile.LoadProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.InDelta(t, 5.5, profiles[0].KeywordWeights["trump"], 0.001)
	assert.InDelta(t, 10, profiles[0].KeywordWeights["economy"], 0.001, "clamped")
	assert.InDelta(t, 1.2, profiles[0].KeywordWeights["soars"], 0.001)

	summary, err = m.Feedback(ctx, domain.StoryFeedback{StoryID: id, UserID: "u2", Rating: 1,
		Tags: []domain.FeedbackTag{domain.TagRelevant}, Action: domain.ActionDismissed})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalRatings)
	assert.InDelta(t, 3, summary.AvgRating, 0.001)
	assert.Equal(t, 2, summary.TagCounts[domain.TagRelevant])

	profiles, err = repos.Profile.LoadProfiles(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 5, profiles[0].KeywordWeights["trump"], 0.001)
	assert.InDelta(t, 0.7, profiles[0].KeywordWeights["soars"], 0.001)

	// neutral rating leaves weights alone
	_, err = m.Feedback(ctx, domain.StoryFeedback{StoryID: id, UserID: "u3", Rating: 3, Action: domain.ActionClaimed})
	require.NoError(t, err)
	profiles, err = repos.Profile.LoadProfiles(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 5, profiles[0].KeywordWeights["trump"], 0.001)
}

func TestManager_FeedbackValidation(t *testing.T) {
	feedback := &mocks.FeedbackStoreMock{}
	stories := &mocks.StoryStoreMock{GetStoryFunc: func(context.Context, int64) (*domain.Story, error) {
		return nil, fmt.Errorf("story 1: %w", domain.ErrNotFound)
	}}
	m := NewManager(Config{Stories: stories, Feedback: feedback, Now: fixedNow})

	tbl := []struct {
		name string
		fb   domain.StoryFeedback
	}{
		{"no user", domain.StoryFeedback{StoryID: 1, Rating: 3, Action: domain.ActionReviewed}},
		{"rating low", domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 0, Action: domain.ActionReviewed}},
		{"rating high", domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 6, Action: domain.ActionReviewed}},
		{"bad action", domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 3, Action: "liked"}},
		{"bad tag", domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 3, Action: domain.ActionReviewed,
			Tags: []domain.FeedbackTag{domain.TagRelevant, "awesome"}}},
		{"duplicate tag", domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 4, Action: domain.ActionReviewed,
			Tags: []domain.FeedbackTag{domain.TagRelevant, domain.TagRelevant}}},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Feedback(context.Background(), tt.fb)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, stories.GetStoryCalls())

	_, err := m.Feedback(context.Background(), domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 3,
		Action: domain.ActionReviewed})
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, feedback.AddFeedbackCalls())
}

func TestManager_FeedbackProfileFailureNotFatal(t *testing.T) {
	stories := &mocks.StoryStoreMock{GetStoryFunc: func(context.Context, int64) (*domain.Story, error) {
		return &domain.Story{ID: 1, Headline: "Trump economy", Category: "politics"}, nil
	}}
	feedback := &mocks.FeedbackStoreMock{
		AddFeedbackFunc: func(context.Context, *domain.StoryFeedback) error { return nil },
		SummaryFunc: func(context.Context, int64) (domain.FeedbackSummary, error) {
			return domain.FeedbackSummary{TotalRatings: 1, AvgRating: 5}, nil
		},
	}
	profiles := &mocks.ProfileStoreMock{AdjustKeywordWeightsFunc: func(context.Context, string, []string, float64, time.Time) (int, error) {
		return 0, errors.New("locked")
	}}
	m := NewManager(Config{Stories: stories, Feedback: feedback, Profiles: profiles, Now: fixedNow})

	summary, err := m.Feedback(context.Background(), domain.StoryFeedback{StoryID: 1, UserID: "u", Rating: 5,
		Action: domain.ActionReviewed})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRatings)

	require.Len(t, profiles.AdjustKeywordWeightsCalls(), 1)
	call := profiles.AdjustKeywordWeightsCalls()[0]
	assert.Equal(t, "politics", call.Category)
	assert.Equal(t, []string{"trump", "economy"}, call.Keywords)
	assert.InDelta(t, 0.5, call.Delta, 0.001)

	require.Len(t, feedback.AddFeedbackCalls(), 1)
	assert.True(t, feedback.AddFeedbackCalls()[0].Fb.CreatedAt.Equal(testNow))
}
