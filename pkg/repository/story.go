package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/storydesk/pkg/domain"
)

// StoryRepository handles story and verification source persistence
type StoryRepository struct {
	db *sqlx.DB
}

// storySQL represents a story for SQL operations
type storySQL struct {
	ID                 int64                           `db:"id"`
	Headline           string                          `db:"headline"`
	SourceURL          string                          `db:"source_url"`
	Sources            stringsSQL                      `db:"sources"`
	Category           string                          `db:"category"`
	TopicClusterID     string                          `db:"topic_cluster_id"`
	RelevanceScore     float64                         `db:"relevance_score"`
	VelocityScore      float64                         `db:"velocity_score"`
	TotalScore         float64                         `db:"total_score"`
	AlertLevel         string                          `db:"alert_level"`
	VerificationStatus string                          `db:"verification_status"`
	Dismissed          bool                            `db:"dismissed"`
	DismissReason      string                          `db:"dismiss_reason"`
	ClaimedByID        *string                         `db:"claimed_by_id"`
	ClaimedAt          *time.Time                      `db:"claimed_at"`
	ArticleID          *string                         `db:"article_id"`
	Outcome            string                          `db:"outcome"`
	FirstSeenAt        time.Time                       `db:"first_seen_at"`
	SurfacedAt         *time.Time                      `db:"surfaced_at"`
	PlatformSignals    jsonSQL[domain.PlatformSignals] `db:"platform_signals"`
	SuggestedAngles    stringsSQL                      `db:"suggested_angles"`
	Revision           int64                           `db:"revision"`
	CreatedAt          time.Time                       `db:"created_at"`
	UpdatedAt          time.Time                       `db:"updated_at"`
}

// verificationSQL represents a verification source for SQL operations
type verificationSQL struct {
	ID           int64     `db:"id"`
	StoryID      int64     `db:"story_id"`
	SourceName   string    `db:"source_name"`
	SourceURL    string    `db:"source_url"`
	Corroborates bool      `db:"corroborates"`
	Excerpt      string    `db:"excerpt"`
	CreatedAt    time.Time `db:"created_at"`
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(database *sqlx.DB) *StoryRepository {
	return &StoryRepository{db: database}
}

// UpsertStory inserts the story or, when source_url already exists, refreshes its scores and merges sources.
// Claim, dismiss and first-seen fields of an existing row are never touched by the update.
// Concurrent upserts of the same source_url produce exactly one row.
func (r *StoryRepository) UpsertStory(ctx context.Context, story *domain.Story, now time.Time) (domain.UpsertResult, error) {
	if story.SourceURL == "" {
		return domain.UpsertResult{}, fmt.Errorf("upsert story: empty source url: %w", domain.ErrInvalidInput)
	}

	now = utc(now)
	firstSeen := story.FirstSeenAt
	if firstSeen.IsZero() {
		firstSeen = now
	}

	var signals jsonSQL[domain.PlatformSignals]
	if story.PlatformSignals != nil {
		signals = jsonSQL[domain.PlatformSignals]{V: *story.PlatformSignals, Valid: true}
	}

	verification := domain.VerificationUnverified
	if len(uniqueStrings(story.Sources)) >= 2 {
		verification = domain.VerificationCorroborated
	}

	query := `
		INSERT INTO stories (
			headline, source_url, sources, category, topic_cluster_id,
			relevance_score, velocity_score, total_score, alert_level, verification_status,
			first_seen_at, platform_signals, suggested_angles, revision, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			headline = excluded.headline,
			sources = (
				SELECT json_group_array(value) FROM (
					SELECT value FROM json_each(stories.sources)
					UNION
					SELECT value FROM json_each(excluded.sources)
				)
			),
			category = excluded.category,
			topic_cluster_id = excluded.topic_cluster_id,
			relevance_score = excluded.relevance_score,
			velocity_score = excluded.velocity_score,
			total_score = excluded.total_score,
			alert_level = excluded.alert_level,
			verification_status = CASE
				WHEN (
					SELECT COUNT(*) FROM (
						SELECT value FROM json_each(stories.sources)
						UNION
						SELECT value FROM json_each(excluded.sources)
					)
				) >= 2 THEN 'CORROBORATED'
				ELSE 'UNVERIFIED'
			END,
			platform_signals = COALESCE(excluded.platform_signals, stories.platform_signals),
			suggested_angles = excluded.suggested_angles,
			revision = stories.revision + 1,
			updated_at = excluded.updated_at
		RETURNING id, revision
	`

	var res struct {
		ID       int64 `db:"id"`
		Revision int64 `db:"revision"`
	}
	err := withLockRetry(ctx, func() error {
		return r.db.GetContext(ctx, &res, query,
			story.Headline, story.SourceURL, stringsSQL(story.Sources), story.Category, story.TopicClusterID,
			clampScore(story.RelevanceScore), clampScore(story.VelocityScore), clampScore(story.TotalScore),
			string(story.AlertLevel), string(verification),
			utc(firstSeen), signals, stringsSQL(story.SuggestedAngles), now, now)
	})
	if err != nil {
		return domain.UpsertResult{}, fmt.Errorf("upsert story %s: %w", story.SourceURL, err)
	}

	return domain.UpsertResult{ID: res.ID, Created: res.Revision == 0}, nil
}

// GetStory retrieves a story by ID
func (r *StoryRepository) GetStory(ctx context.Context, id int64) (*domain.Story, error) {
	var s storySQL
	if err := r.db.GetContext(ctx, &s, "SELECT * FROM stories WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("story %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}
	return s.toDomain(), nil
}

// GetStoryBySourceURL retrieves a story by its dedup key, returns nil without error if absent
func (r *StoryRepository) GetStoryBySourceURL(ctx context.Context, sourceURL string) (*domain.Story, error) {
	var s storySQL
	if err := r.db.GetContext(ctx, &s, "SELECT * FROM stories WHERE source_url = ?", sourceURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get story by source url: %w", err)
	}
	return s.toDomain(), nil
}

// AddVerificationSource appends a verification source, duplicates of the same name and url are ignored
func (r *StoryRepository) AddVerificationSource(ctx context.Context, src domain.VerificationSource, now time.Time) error {
	query := `
		INSERT INTO verification_sources (story_id, source_name, source_url, corroborates, excerpt, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(story_id, source_name, source_url) DO NOTHING
	`
	err := withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, src.StoryID, src.SourceName, src.SourceURL,
			src.Corroborates, src.Excerpt, utc(now))
		return err
	})
	if err != nil {
		return fmt.Errorf("add verification source for story %d: %w", src.StoryID, err)
	}
	return nil
}

// GetVerificationSources returns verification sources grouped by story id
func (r *StoryRepository) GetVerificationSources(ctx context.Context, storyIDs []int64) (map[int64][]domain.VerificationSource, error) {
	res := make(map[int64][]domain.VerificationSource, len(storyIDs))
	if len(storyIDs) == 0 {
		return res, nil
	}

	query, args, err := sqlx.In("SELECT * FROM verification_sources WHERE story_id IN (?) ORDER BY id", storyIDs)
	if err != nil {
		return nil, fmt.Errorf("build verification query: %w", err)
	}

	var rows []verificationSQL
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get verification sources: %w", err)
	}

	for _, v := range rows {
		res[v.StoryID] = append(res[v.StoryID], domain.VerificationSource{
			ID:           v.ID,
			StoryID:      v.StoryID,
			SourceName:   v.SourceName,
			SourceURL:    v.SourceURL,
			Corroborates: v.Corroborates,
			Excerpt:      v.Excerpt,
			CreatedAt:    v.CreatedAt,
		})
	}
	return res, nil
}

// ListDashboard returns non-dismissed stories first seen after since,
// ordered by relevance desc then first-seen desc
func (r *StoryRepository) ListDashboard(ctx context.Context, since time.Time, limit int) ([]*domain.Story, error) {
	query := `
		SELECT * FROM stories
		WHERE dismissed = 0 AND first_seen_at > ?
		ORDER BY relevance_score DESC, first_seen_at DESC, id DESC
		LIMIT ?
	`
	var rows []storySQL
	if err := r.db.SelectContext(ctx, &rows, query, utc(since), limit); err != nil {
		return nil, fmt.Errorf("list dashboard: %w", err)
	}

	stories := make([]*domain.Story, len(rows))
	for i := range rows {
		stories[i] = rows[i].toDomain()
	}
	return stories, nil
}

// MarkSurfaced sets surfaced_at for stories shown for the first time
func (r *StoryRepository) MarkSurfaced(ctx context.Context, ids []int64, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("UPDATE stories SET surfaced_at = ? WHERE surfaced_at IS NULL AND id IN (?)", utc(now), ids)
	if err != nil {
		return fmt.Errorf("build surfaced query: %w", err)
	}
	err = withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
		return err
	})
	if err != nil {
		return fmt.Errorf("mark surfaced: %w", err)
	}
	return nil
}

// SweepStale dismisses unclaimed stories without outcome first seen strictly before cutoff.
// Returns the number of stories dismissed, repeated sweeps are no-ops.
func (r *StoryRepository) SweepStale(ctx context.Context, cutoff, now time.Time) (int64, error) {
	query := `
		UPDATE stories
		SET dismissed = 1, dismiss_reason = ?, outcome = ?, updated_at = ?
		WHERE dismissed = 0 AND claimed_by_id IS NULL AND outcome = '' AND first_seen_at < ?
	`
	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, string(domain.DismissStale), string(domain.OutcomeIgnored),
			utc(now), utc(cutoff))
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("sweep stale stories: %w", err)
	}
	return affected, nil
}

// ClaimStory marks the story claimed iff it is neither claimed nor dismissed.
// Returns domain.ErrNotFound for unknown stories and domain.ErrConflict when the condition fails.
func (r *StoryRepository) ClaimStory(ctx context.Context, id int64, actorID, articleID string, now time.Time) error {
	if actorID == "" || articleID == "" {
		return fmt.Errorf("claim story %d: actor and article required: %w", id, domain.ErrInvalidInput)
	}
	query := `
		UPDATE stories
		SET claimed_by_id = ?, claimed_at = ?, article_id = ?, outcome = ?, updated_at = ?
		WHERE id = ? AND claimed_by_id IS NULL AND dismissed = 0
	`
	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, actorID, utc(now), articleID, string(domain.OutcomeClaimed), utc(now), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("claim story %d: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	if _, err := r.GetStory(ctx, id); err != nil {
		return err
	}
	return fmt.Errorf("story %d already claimed or dismissed: %w", id, domain.ErrConflict)
}

// DismissStory manually dismisses an unclaimed story, dismissing an already dismissed story succeeds.
// Returns domain.ErrNotFound for unknown stories and domain.ErrConflict for claimed ones.
func (r *StoryRepository) DismissStory(ctx context.Context, id int64, now time.Time) error {
	query := `
		UPDATE stories
		SET dismissed = 1, dismiss_reason = ?, outcome = ?, updated_at = ?
		WHERE id = ? AND claimed_by_id IS NULL AND dismissed = 0
	`
	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, string(domain.DismissManual), string(domain.OutcomeIgnored), utc(now), id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("dismiss story %d: %w", id, err)
	}
	if affected > 0 {
		return nil
	}

	story, err := r.GetStory(ctx, id)
	if err != nil {
		return err
	}
	if story.IsClaimed() {
		return fmt.Errorf("story %d is claimed: %w", id, domain.ErrConflict)
	}
	return nil // already dismissed
}

// CountStories returns the number of stored stories, dismissed included
func (r *StoryRepository) CountStories(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM stories"); err != nil {
		return 0, fmt.Errorf("count stories: %w", err)
	}
	return count, nil
}

func (s *storySQL) toDomain() *domain.Story {
	story := &domain.Story{
		ID:                 s.ID,
		Headline:           s.Headline,
		SourceURL:          s.SourceURL,
		Sources:            []string(s.Sources),
		Category:           s.Category,
		TopicClusterID:     s.TopicClusterID,
		RelevanceScore:     s.RelevanceScore,
		VelocityScore:      s.VelocityScore,
		TotalScore:         s.TotalScore,
		AlertLevel:         domain.AlertLevel(s.AlertLevel),
		VerificationStatus: domain.VerificationStatus(s.VerificationStatus),
		Dismissed:          s.Dismissed,
		DismissReason:      domain.DismissReason(s.DismissReason),
		ClaimedByID:        s.ClaimedByID,
		ClaimedAt:          s.ClaimedAt,
		ArticleID:          s.ArticleID,
		Outcome:            domain.Outcome(s.Outcome),
		FirstSeenAt:        s.FirstSeenAt,
		SurfacedAt:         s.SurfacedAt,
		SuggestedAngles:    []string(s.SuggestedAngles),
		Revision:           s.Revision,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
	if s.PlatformSignals.Valid {
		sig := s.PlatformSignals.V
		story.PlatformSignals = &sig
	}
	return story
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	res := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		res = append(res, s)
	}
	return res
}
