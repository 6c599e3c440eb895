package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/storydesk/pkg/domain"
)

// FeedbackRepository handles append-only story feedback
type FeedbackRepository struct {
	db *sqlx.DB
}

type feedbackSQL struct {
	ID        int64      `db:"id"`
	StoryID   int64      `db:"story_id"`
	UserID    string     `db:"user_id"`
	Rating    int        `db:"rating"`
	Tags      stringsSQL `db:"tags"`
	Action    string     `db:"action"`
	CreatedAt time.Time  `db:"created_at"`
}

// NewFeedbackRepository creates a new feedback repository
func NewFeedbackRepository(database *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: database}
}

// AddFeedback appends a rating and sets its ID
func (r *FeedbackRepository) AddFeedback(ctx context.Context, fb *domain.StoryFeedback) error {
	tags := make(stringsSQL, len(fb.Tags))
	for i, t := range fb.Tags {
		tags[i] = string(t)
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO story_feedback (story_id, user_id, rating, tags, action, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, fb.StoryID, fb.UserID, fb.Rating, tags, string(fb.Action), utc(fb.CreatedAt))
		if err != nil {
			return err
		}
		fb.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return fmt.Errorf("add feedback for story %d: %w", fb.StoryID, err)
	}
	return nil
}

// listFeedback returns all feedback of a story in insertion order
func (r *FeedbackRepository) listFeedback(ctx context.Context, storyID int64) ([]domain.StoryFeedback, error) {
	var rows []feedbackSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM story_feedback WHERE story_id = ? ORDER BY id", storyID); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	res := make([]domain.StoryFeedback, len(rows))
	for i, f := range rows {
		tags := make([]domain.FeedbackTag, len(f.Tags))
		for j, t := range f.Tags {
			tags[j] = domain.FeedbackTag(t)
		}
		res[i] = domain.StoryFeedback{ID: f.ID, StoryID: f.StoryID, UserID: f.UserID, Rating: f.Rating,
			Tags: tags, Action: domain.FeedbackAction(f.Action), CreatedAt: f.CreatedAt}
	}
	return res, nil
}

// Summary aggregates ratings and tag counts of a story
func (r *FeedbackRepository) Summary(ctx context.Context, storyID int64) (domain.FeedbackSummary, error) {
	res := domain.FeedbackSummary{TagCounts: map[domain.FeedbackTag]int{}}

	var agg struct {
		Total int     `db:"total"`
		Avg   float64 `db:"avg"`
	}
	err := r.db.GetContext(ctx, &agg,
		"SELECT COUNT(*) AS total, COALESCE(AVG(rating), 0) AS avg FROM story_feedback WHERE story_id = ?", storyID)
	if err != nil {
		return res, fmt.Errorf("feedback summary: %w", err)
	}
	res.TotalRatings, res.AvgRating = agg.Total, agg.Avg

	var tags []struct {
		Tag   string `db:"tag"`
		Count int    `db:"cnt"`
	}
	query := `
		SELECT j.value AS tag, COUNT(*) AS cnt
		FROM story_feedback f, json_each(f.tags) j
		WHERE f.story_id = ?
		GROUP BY j.value
	`
	if err := r.db.SelectContext(ctx, &tags, query, storyID); err != nil {
		return res, fmt.Errorf("feedback tag counts: %w", err)
	}
	for _, t := range tags {
		res.TagCounts[domain.FeedbackTag(t.Tag)] = t.Count
	}
	return res, nil
}
