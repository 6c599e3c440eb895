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

// ExemplarRepository handles exemplar article persistence
type ExemplarRepository struct {
	db *sqlx.DB
}

type exemplarSQL struct {
	ID          int64                       `db:"id"`
	URL         string                      `db:"url"`
	Title       string                      `db:"title"`
	Fingerprint jsonSQL[domain.Fingerprint] `db:"fingerprint"`
	Status      string                      `db:"status"`
	Error       string                      `db:"error"`
	CreatedAt   time.Time                   `db:"created_at"`
	AnalyzedAt  *time.Time                  `db:"analyzed_at"`
}

// NewExemplarRepository creates a new exemplar repository
func NewExemplarRepository(database *sqlx.DB) *ExemplarRepository {
	return &ExemplarRepository{db: database}
}

// CreateExemplar registers a new exemplar url in PENDING state.
// Registering a known url returns the stored exemplar unchanged.
func (r *ExemplarRepository) CreateExemplar(ctx context.Context, url string, now time.Time) (*domain.ArticleExemplar, error) {
	if url == "" {
		return nil, fmt.Errorf("create exemplar: empty url: %w", domain.ErrInvalidInput)
	}

	err := withLockRetry(ctx, func() error {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO exemplars (url, status, created_at) VALUES (?, ?, ?) ON CONFLICT(url) DO NOTHING",
			url, string(domain.ExemplarPending), utc(now))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create exemplar %s: %w", url, err)
	}

	var row exemplarSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM exemplars WHERE url = ?", url); err != nil {
		return nil, fmt.Errorf("get exemplar %s: %w", url, err)
	}
	return row.toDomain(), nil
}

// GetExemplar retrieves an exemplar by ID
func (r *ExemplarRepository) GetExemplar(ctx context.Context, id int64) (*domain.ArticleExemplar, error) {
	var row exemplarSQL
	if err := r.db.GetContext(ctx, &row, "SELECT * FROM exemplars WHERE id = ?", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("exemplar %d: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get exemplar: %w", err)
	}
	return row.toDomain(), nil
}

// ListExemplars returns exemplars, filtered by status if any given, newest first
func (r *ExemplarRepository) ListExemplars(ctx context.Context, statuses ...domain.ExemplarStatus) ([]domain.ArticleExemplar, error) {
	query := "SELECT * FROM exemplars"
	var args []any
	if len(statuses) > 0 {
		strs := make([]string, len(statuses))
		for i, s := range statuses {
			strs[i] = string(s)
		}
		q, a, err := sqlx.In(query+" WHERE status IN (?)", strs)
		if err != nil {
			return nil, fmt.Errorf("build exemplars query: %w", err)
		}
		query, args = r.db.Rebind(q), a
	}
	query += " ORDER BY created_at DESC, id DESC"

	var rows []exemplarSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list exemplars: %w", err)
	}

	res := make([]domain.ArticleExemplar, len(rows))
	for i := range rows {
		res[i] = *rows[i].toDomain()
	}
	return res, nil
}

// LoadAnalyzed returns exemplars usable for scoring
func (r *ExemplarRepository) LoadAnalyzed(ctx context.Context) ([]domain.ArticleExemplar, error) {
	return r.ListExemplars(ctx, domain.ExemplarAnalyzed)
}

// SavePreview stores the extracted title and marks the exemplar PREVIEW_READY
func (r *ExemplarRepository) SavePreview(ctx context.Context, id int64, title string, now time.Time) error {
	query := "UPDATE exemplars SET title = ?, status = ?, error = '', analyzed_at = ? WHERE id = ?"
	return r.update(ctx, id, query, title, string(domain.ExemplarPreviewReady), utc(now), id)
}

// SaveAnalysis stores the fingerprint and marks the exemplar ANALYZED
func (r *ExemplarRepository) SaveAnalysis(ctx context.Context, id int64, title string, fp domain.Fingerprint, now time.Time) error {
	query := "UPDATE exemplars SET title = ?, fingerprint = ?, status = ?, error = '', analyzed_at = ? WHERE id = ?"
	return r.update(ctx, id, query, title, jsonSQL[domain.Fingerprint]{V: fp, Valid: true},
		string(domain.ExemplarAnalyzed), utc(now), id)
}

// MarkFailed records an analysis failure
func (r *ExemplarRepository) MarkFailed(ctx context.Context, id int64, errMsg string, now time.Time) error {
	query := "UPDATE exemplars SET status = ?, error = ?, analyzed_at = ? WHERE id = ?"
	return r.update(ctx, id, query, string(domain.ExemplarFailed), errMsg, utc(now), id)
}

func (r *ExemplarRepository) update(ctx context.Context, id int64, query string, args ...any) error {
	var affected int64
	err := withLockRetry(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("update exemplar %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("exemplar %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (e *exemplarSQL) toDomain() *domain.ArticleExemplar {
	return &domain.ArticleExemplar{
		ID:          e.ID,
		URL:         e.URL,
		Title:       e.Title,
		Fingerprint: e.Fingerprint.V,
		Status:      domain.ExemplarStatus(e.Status),
		Error:       e.Error,
		CreatedAt:   e.CreatedAt,
		AnalyzedAt:  e.AnalyzedAt,
	}
}
