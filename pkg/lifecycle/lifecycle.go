// Package lifecycle drives stories from first sighting to a terminal editorial state.
//
// States are FRESH, SURFACED, CLAIMED, STALE_DISMISSED and MANUALLY_DISMISSED. A story becomes
// SURFACED the first time the dashboard returns it. Claimed and dismissed states are terminal.
// All mutations are conditional updates in the store, concurrent editors can't both win a claim.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/keywords"
)

//go:generate moq -out mocks/story_store.go -pkg mocks -skip-ensure -fmt goimports . StoryStore
//go:generate moq -out mocks/feedback_store.go -pkg mocks -skip-ensure -fmt goimports . FeedbackStore
//go:generate moq -out mocks/profile_store.go -pkg mocks -skip-ensure -fmt goimports . ProfileStore
//go:generate moq -out mocks/draft_creator.go -pkg mocks -skip-ensure -fmt goimports . DraftCreator

// StoryStore reads and conditionally mutates stories
type StoryStore interface {
	GetStory(ctx context.Context, id int64) (*domain.Story, error)
	ListDashboard(ctx context.Context, since time.Time, limit int) ([]*domain.Story, error)
	GetVerificationSources(ctx context.Context, storyIDs []int64) (map[int64][]domain.VerificationSource, error)
	MarkSurfaced(ctx context.Context, ids []int64, now time.Time) error
	SweepStale(ctx context.Context, cutoff, now time.Time) (int64, error)
	ClaimStory(ctx context.Context, id int64, actorID, articleID string, now time.Time) error
	DismissStory(ctx context.Context, id int64, now time.Time) error
}

// FeedbackStore appends and aggregates editor ratings
type FeedbackStore interface {
	AddFeedback(ctx context.Context, fb *domain.StoryFeedback) error
	Summary(ctx context.Context, storyID int64) (domain.FeedbackSummary, error)
}

// ProfileStore adjusts learned keyword weights
type ProfileStore interface {
	AdjustKeywordWeights(ctx context.Context, category string, keywords []string, delta float64, now time.Time) (int, error)
}

// DraftCreator creates the article draft a claimed story is linked to
type DraftCreator interface {
	CreateDraft(ctx context.Context, storyID int64, actorID string) (articleID string, err error)
}

// State is the lifecycle state of a story
type State string

// lifecycle states
const (
	StateFresh             State = "FRESH"
	StateSurfaced          State = "SURFACED"
	StateClaimed           State = "CLAIMED"
	StateStaleDismissed    State = "STALE_DISMISSED"
	StateManuallyDismissed State = "MANUALLY_DISMISSED"
)

// StateOf derives the lifecycle state from stored fields
func StateOf(s *domain.Story) State {
	switch {
	case s.IsClaimed():
		return StateClaimed
	case s.Dismissed && s.DismissReason == domain.DismissStale:
		return StateStaleDismissed
	case s.Dismissed:
		return StateManuallyDismissed
	case s.SurfacedAt != nil:
		return StateSurfaced
	default:
		return StateFresh
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateClaimed || s == StateStaleDismissed || s == StateManuallyDismissed
}

// Manager implements dashboard reads, staleness sweeps, claims, dismissals and feedback
type Manager struct {
	stories       StoryStore
	feedback      FeedbackStore
	profiles      ProfileStore
	drafts        DraftCreator
	staleAfter    time.Duration
	window        time.Duration
	limit         int
	sweepOnRead   bool
	feedbackDelta float64
	now           func() time.Time
}

// Config holds dependencies and parameters of Manager
type Config struct {
	Stories       StoryStore
	Feedback      FeedbackStore
	Profiles      ProfileStore
	Drafts        DraftCreator
	StaleAfter    time.Duration // unclaimed stories older than this are dismissed, default 18h
	Window        time.Duration // dashboard shows stories younger than this, default 24h
	Limit         int           // dashboard size, default 10
	SweepOnRead   bool          // sweep before every dashboard read
	FeedbackDelta float64       // keyword weight step applied by ratings, default 0.5
	Now           func() time.Time
}

// NewManager makes a lifecycle manager
func NewManager(cfg Config) *Manager {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 18 * time.Hour
	}
	if cfg.Window <= 0 {
		cfg.Window = 24 * time.Hour
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.FeedbackDelta <= 0 {
		cfg.FeedbackDelta = 0.5
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{
		stories:       cfg.Stories,
		feedback:      cfg.Feedback,
		profiles:      cfg.Profiles,
		drafts:        cfg.Drafts,
		staleAfter:    cfg.StaleAfter,
		window:        cfg.Window,
		limit:         cfg.Limit,
		sweepOnRead:   cfg.SweepOnRead,
		feedbackDelta: cfg.FeedbackDelta,
		now:           cfg.Now,
	}
}

// Dashboard sweeps stale stories if configured, then returns the top ranked non-dismissed stories
// with their verification sources and claim summary. Returned stories are marked surfaced.
func (m *Manager) Dashboard(ctx context.Context) ([]domain.DashboardStory, error) {
	now := m.now().UTC()
	if m.sweepOnRead {
		if _, err := m.sweep(ctx, now); err != nil {
			return nil, err
		}
	}

	stories, err := m.stories.ListDashboard(ctx, now.Add(-m.window), m.limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	ids := make([]int64, 0, len(stories))
	var fresh []int64
	for _, s := range stories {
		ids = append(ids, s.ID)
		if s.SurfacedAt == nil {
			fresh = append(fresh, s.ID)
		}
	}

	verification, err := m.stories.GetVerificationSources(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("dashboard verification sources: %w", err)
	}

	if err := m.stories.MarkSurfaced(ctx, fresh, now); err != nil {
		lgr.Printf("[WARN] failed to mark %d stories surfaced: %v", len(fresh), err)
	}

	res := make([]domain.DashboardStory, 0, len(stories))
	for _, s := range stories {
		if s.SurfacedAt == nil {
			surfaced := now
			s.SurfacedAt = &surfaced
		}
		ds := domain.DashboardStory{Story: s, Verification: verification[s.ID]}
		if s.IsClaimed() {
			ds.Claim = &domain.ClaimSummary{ClaimedByID: *s.ClaimedByID}
			if s.ClaimedAt != nil {
				ds.Claim.ClaimedAt = *s.ClaimedAt
			}
			if s.ArticleID != nil {
				ds.Claim.ArticleID = *s.ArticleID
			}
		}
		res = append(res, ds)
	}
	return res, nil
}

// Sweep dismisses unclaimed, outcome-less stories older than the stale threshold.
// Returns the number of dismissed stories.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	return m.sweep(ctx, m.now().UTC())
}

func (m *Manager) sweep(ctx context.Context, now time.Time) (int64, error) {
	n, err := m.stories.SweepStale(ctx, now.Add(-m.staleAfter), now)
	if err != nil {
		return 0, fmt.Errorf("staleness sweep: %w", err)
	}
	if n > 0 {
		lgr.Printf("[INFO] staleness sweep dismissed %d stories", n)
	}
	return n, nil
}

// Claim creates a draft for the story and marks it claimed by actorID, returns the draft article id.
// The draft is created before the story changes, a failed draft leaves the story untouched.
// Returns domain.ErrNotFound for unknown stories and domain.ErrConflict for claimed or dismissed ones.
func (m *Manager) Claim(ctx context.Context, storyID int64, actorID string) (string, error) {
	if actorID == "" {
		return "", fmt.Errorf("claim story %d: empty actor: %w", storyID, domain.ErrInvalidInput)
	}

	story, err := m.stories.GetStory(ctx, storyID)
	if err != nil {
		return "", fmt.Errorf("claim story %d: %w", storyID, err)
	}
	if story.IsClaimed() || story.Dismissed {
		return "", fmt.Errorf("claim story %d in state %s: %w", storyID, StateOf(story), domain.ErrConflict)
	}

	articleID, err := m.drafts.CreateDraft(ctx, storyID, actorID)
	if err != nil {
		return "", fmt.Errorf("create draft for story %d: %w", storyID, err)
	}

	if err := m.stories.ClaimStory(ctx, storyID, actorID, articleID, m.now().UTC()); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			lgr.Printf("[WARN] story %d claimed concurrently, draft %s by %s is orphaned", storyID, articleID, actorID)
		}
		return "", fmt.Errorf("claim story %d: %w", storyID, err)
	}

	lgr.Printf("[INFO] story %d claimed by %s, article %s", storyID, actorID, articleID)
	return articleID, nil
}

// Dismiss manually dismisses a story. Dismissing an already dismissed story succeeds,
// dismissing a claimed one returns domain.ErrConflict.
func (m *Manager) Dismiss(ctx context.Context, storyID int64) error {
	if err := m.stories.DismissStory(ctx, storyID, m.now().UTC()); err != nil {
		return fmt.Errorf("dismiss story %d: %w", storyID, err)
	}
	lgr.Printf("[INFO] story %d dismissed", storyID)
	return nil
}

// Feedback validates and records an editor rating and returns the story's rating summary.
// High ratings raise and low ratings lower the weights of the story's keywords in its category profile,
// scoring sees the change once the profile cache refreshes.
func (m *Manager) Feedback(ctx context.Context, fb domain.StoryFeedback) (domain.FeedbackSummary, error) {
	if err := validateFeedback(fb); err != nil {
		return domain.FeedbackSummary{}, err
	}

	story, err := m.stories.GetStory(ctx, fb.StoryID)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("feedback: %w", err)
	}

	now := m.now().UTC()
	fb.CreatedAt = now
	if err := m.feedback.AddFeedback(ctx, &fb); err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("feedback: %w", err)
	}

	if delta := m.weightDelta(fb.Rating); delta != 0 && story.Category != "" && m.profiles != nil {
		n, err := m.profiles.AdjustKeywordWeights(ctx, story.Category, keywords.Extract(story.Headline), delta, now)
		if err != nil {
			lgr.Printf("[WARN] failed to adjust %s profile from feedback on story %d: %v", story.Category, story.ID, err)
		} else {
			lgr.Printf("[DEBUG] feedback on story %d adjusted %d %s keywords by %+.1f", story.ID, n, story.Category, delta)
		}
	}

	summary, err := m.feedback.Summary(ctx, fb.StoryID)
	if err != nil {
		return domain.FeedbackSummary{}, fmt.Errorf("feedback summary: %w", err)
	}
	return summary, nil
}

func (m *Manager) weightDelta(rating int) float64 {
	switch {
	case rating >= 4:
		return m.feedbackDelta
	case rating <= 2:
		return -m.feedbackDelta
	}
	return 0
}

func validateFeedback(fb domain.StoryFeedback) error {
	if fb.UserID == "" {
		return fmt.Errorf("feedback: empty user: %w", domain.ErrInvalidInput)
	}
	if fb.Rating < 1 || fb.Rating > 5 {
		return fmt.Errorf("feedback: rating %d out of 1..5: %w", fb.Rating, domain.ErrInvalidInput)
	}
	if !fb.Action.IsValid() {
		return fmt.Errorf("feedback: unknown action %q: %w", fb.Action, domain.ErrInvalidInput)
	}
	seen := make(map[domain.FeedbackTag]bool, len(fb.Tags))
	for _, t := range fb.Tags {
		if !t.IsValid() {
			return fmt.Errorf("feedback: unknown tag %q: %w", t, domain.ErrInvalidInput)
		}
		if seen[t] {
			return fmt.Errorf("feedback: duplicate tag %q: %w", t, domain.ErrInvalidInput)
		}
		seen[t] = true
	}
	return nil
}
