package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/umputun/storydesk/pkg/domain"
)

// ProfileRepository handles topic profile persistence
type ProfileRepository struct {
	db *sqlx.DB
}

type profileSQL struct {
	Category       string     `db:"category"`
	KeywordWeights weightsSQL `db:"keyword_weights"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// NewProfileRepository creates a new topic profile repository
func NewProfileRepository(database *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// LoadProfiles returns all topic profiles ordered by category
func (r *ProfileRepository) LoadProfiles(ctx context.Context) ([]domain.TopicProfile, error) {
	var rows []profileSQL
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM topic_profiles ORDER BY category"); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	res := make([]domain.TopicProfile, len(rows))
	for i, p := range rows {
		res[i] = domain.TopicProfile{Category: p.Category, KeywordWeights: map[string]float64(p.KeywordWeights), UpdatedAt: p.UpdatedAt}
	}
	return res, nil
}

// SeedProfile creates the profile if the category is not stored yet, learned weights are kept otherwise.
// Returns true if the profile was created.
func (r *ProfileRepository) SeedProfile(ctx context.Context, profile domain.TopicProfile, now time.Time) (bool, error) {
	if profile.Category == "" {
		return false, fmt.Errorf("seed profile: empty category: %w", domain.ErrInvalidInput)
	}

	weights := make(weightsSQL, len(profile.KeywordWeights))
	for k, w := range profile.KeywordWeights {
		weights[k] = domain.ClampKeywordWeight(w)
	}

	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx,
			"INSERT INTO topic_profiles (category, keyword_weights, updated_at) VALUES (?, ?, ?) ON CONFLICT(category) DO NOTHING",
			profile.Category, weights, utc(now))
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("seed profile %s: %w", profile.Category, err)
	}
	return affected > 0, nil
}

// AdjustKeywordWeights adds delta to the weights of keywords already present in the category profile,
// results are clamped to [domain.MinKeywordWeight, domain.MaxKeywordWeight]. Unknown keywords are skipped.
// Returns the number of adjusted keywords.
func (r *ProfileRepository) AdjustKeywordWeights(ctx context.Context, category string, keywords []string, delta float64, now time.Time) (int, error) {
	if category == "" || len(keywords) == 0 || delta == 0 {
		return 0, nil
	}

	var adjusted int
	err := withLockRetry(ctx, func() error {
		adjusted = 0
		tx, err := r.db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		var p profileSQL
		if err := tx.GetContext(ctx, &p, "SELECT * FROM topic_profiles WHERE category = ?", category); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}

		for _, kw := range keywords {
			w, ok := p.KeywordWeights[kw]
			if !ok {
				continue
			}
			p.KeywordWeights[kw] = domain.ClampKeywordWeight(w + delta)
			adjusted++
		}
		if adjusted == 0 {
			return nil
		}

		if _, err := tx.ExecContext(ctx, "UPDATE topic_profiles SET keyword_weights = ?, updated_at = ? WHERE category = ?",
			p.KeywordWeights, utc(now), category); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return 0, fmt.Errorf("adjust keyword weights for %s: %w", category, err)
	}
	return adjusted, nil
}
