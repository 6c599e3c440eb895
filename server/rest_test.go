package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/ingest"
	"github.com/umputun/storydesk/pkg/lifecycle"
	"github.com/umputun/storydesk/pkg/scheduler"
	"github.com/umputun/storydesk/server/mocks"
)

func TestServer_statusHandler(t *testing.T) {
	jobs := &mocks.JobsMock{
		StatusFunc: func() []scheduler.JobStatus {
			return []scheduler.JobStatus{{Name: scheduler.JobIngest, Spec: "*/15 * * * *", Runs: 3}}
		},
	}
	srv := testServer(t, Params{Jobs: jobs})

	w := serve(t, srv, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var status struct {
		Status  string                `json:"status"`
		Version string                `json:"version"`
		Time    time.Time             `json:"time"`
		Jobs    []scheduler.JobStatus `json:"jobs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.True(t, status.Time.Equal(testNow))
	require.Len(t, status.Jobs, 1)
	assert.Equal(t, 3, status.Jobs[0].Runs)
}

func TestServer_ingestHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ingester := &mocks.IngesterMock{
			IngestFunc: func(ctx context.Context) (ingest.Result, error) {
				return ingest.Result{Created: 2, Updated: 1, Failed: 1, PerSource: map[string]int{"wire": 3, "hackernews": 1}}, nil
			},
		}
		srv := testServer(t, Params{Ingester: ingester})

		w := serve(t, srv, http.MethodPost, "/api/v1/ingest", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"created":2,"updated":1,"failed":1,"per_source":{"wire":3,"hackernews":1}}`, w.Body.String())
		assert.Len(t, ingester.IngestCalls(), 1)
	})

	t.Run("failure", func(t *testing.T) {
		ingester := &mocks.IngesterMock{
			IngestFunc: func(ctx context.Context) (ingest.Result, error) {
				return ingest.Result{}, errors.New("profiles unavailable")
			},
		}
		srv := testServer(t, Params{Ingester: ingester})

		w := serve(t, srv, http.MethodPost, "/api/v1/ingest", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"profiles unavailable"}`, w.Body.String())
	})

	t.Run("get not routed", func(t *testing.T) {
		srv := testServer(t, Params{Ingester: &mocks.IngesterMock{}})
		w := serve(t, srv, http.MethodGet, "/api/v1/ingest", "")
		assert.NotEqual(t, http.StatusOK, w.Code)
	})
}

func TestServer_dashboardHandler(t *testing.T) {
	surfaced := testNow.Add(-time.Hour)
	claimedBy, article := "ed-1", "draft-7"
	desk := &mocks.DeskMock{
		DashboardFunc: func(ctx context.Context) ([]domain.DashboardStory, error) {
			return []domain.DashboardStory{
				{
					Story: &domain.Story{ID: 7, Headline: "Senate passes budget", SourceURL: "https://wire.example/budget",
						Sources: []string{"wire", "hackernews"}, Category: "politics", TopicClusterID: "abc",
						RelevanceScore: 80, VelocityScore: 60, TotalScore: 74, AlertLevel: domain.AlertDashboard,
						VerificationStatus: domain.VerificationCorroborated, FirstSeenAt: testNow.Add(-2 * time.Hour),
						SurfacedAt: &surfaced, ClaimedByID: &claimedBy, ClaimedAt: &surfaced, ArticleID: &article,
						PlatformSignals: &domain.PlatformSignals{Heat: 55, Velocity: domain.VelocityRising}},
					Verification: []domain.VerificationSource{
						{StoryID: 7, SourceName: "wire", SourceURL: "https://wire.example/budget", Corroborates: true},
						{StoryID: 7, SourceName: "hackernews", SourceURL: "https://hn.example/1", Corroborates: true},
					},
					Claim: &domain.ClaimSummary{ClaimedByID: claimedBy, ClaimedAt: surfaced, ArticleID: article},
				},
				{
					Story: &domain.Story{ID: 9, Headline: "Storm warning", SourceURL: "https://rss.example/storm",
						AlertLevel: domain.AlertNone, VerificationStatus: domain.VerificationUnverified, SurfacedAt: &surfaced},
				},
			}, nil
		},
	}
	srv := testServer(t, Params{Desk: desk})

	w := serve(t, srv, http.MethodGet, "/api/v1/dashboard", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stories []storyView `json:"stories"`
		Count   int         `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Stories, 2)

	first := resp.Stories[0]
	assert.Equal(t, int64(7), first.ID)
	assert.Equal(t, lifecycle.StateClaimed, first.State)
	assert.Equal(t, domain.VerificationCorroborated, first.VerificationStatus)
	assert.Equal(t, []string{"wire", "hackernews"}, first.Sources)
	require.Len(t, first.Verification, 2)
	assert.Equal(t, "hackernews", first.Verification[1].SourceName)
	require.NotNil(t, first.Claim)
	assert.Equal(t, "ed-1", first.Claim.ClaimedByID)
	assert.Equal(t, "draft-7", first.Claim.ArticleID)
	require.NotNil(t, first.PlatformSignals)
	assert.Equal(t, domain.VelocityRising, first.PlatformSignals.Velocity)

	second := resp.Stories[1]
	assert.Equal(t, lifecycle.StateSurfaced, second.State)
	assert.Nil(t, second.Claim)
	assert.Empty(t, second.Verification)
	assert.NotNil(t, second.Sources, "empty sources rendered as list")
	assert.NotNil(t, second.SuggestedAngles)

	t.Run("failure", func(t *testing.T) {
		desk := &mocks.DeskMock{
			DashboardFunc: func(ctx context.Context) ([]domain.DashboardStory, error) {
				return nil, errors.New("staleness sweep: database is locked")
			},
		}
		w := serve(t, testServer(t, Params{Desk: desk}), http.MethodGet, "/api/v1/dashboard", "")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "database is locked")
	})
}

func TestServer_claimHandler(t *testing.T) {
	tbl := []struct {
		name     string
		path     string
		body     string
		claimErr error
		wantCode int
		wantBody string
	}{
		{name: "claimed", path: "/api/v1/stories/7/claim", body: `{"actor_id":" ed-1 "}`,
			wantCode: http.StatusOK, wantBody: `{"success":true,"article_id":"draft-7-ed-1"}`},
		{name: "already claimed", path: "/api/v1/stories/7/claim", body: `{"actor_id":"ed-1"}`,
			claimErr: fmt.Errorf("claim story 7 in state CLAIMED: %w", domain.ErrConflict), wantCode: http.StatusConflict},
		{name: "unknown story", path: "/api/v1/stories/7/claim", body: `{"actor_id":"ed-1"}`,
			claimErr: fmt.Errorf("claim story 7: %w", domain.ErrNotFound), wantCode: http.StatusNotFound},
		{name: "empty actor", path: "/api/v1/stories/7/claim", body: `{}`,
			claimErr: fmt.Errorf("claim story 7: empty actor: %w", domain.ErrInvalidInput), wantCode: http.StatusBadRequest},
		{name: "draft failure", path: "/api/v1/stories/7/claim", body: `{"actor_id":"ed-1"}`,
			claimErr: errors.New("create draft for story 7: unexpected status code 502"), wantCode: http.StatusInternalServerError},
		{name: "bad id", path: "/api/v1/stories/abc/claim", body: `{"actor_id":"ed-1"}`, wantCode: http.StatusBadRequest,
			wantBody: `{"error":"invalid story ID \"abc\""}`},
		{name: "negative id", path: "/api/v1/stories/-1/claim", body: `{"actor_id":"ed-1"}`, wantCode: http.StatusBadRequest},
		{name: "bad body", path: "/api/v1/stories/7/claim", body: `{"actor_id":`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			desk := &mocks.DeskMock{
				ClaimFunc: func(ctx context.Context, storyID int64, actorID string) (string, error) {
					if tt.claimErr != nil {
						return "", tt.claimErr
					}
					return fmt.Sprintf("draft-%d-%s", storyID, actorID), nil
				},
			}
			w := serve(t, testServer(t, Params{Desk: desk}), http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
		})
	}

	t.Run("actor trimmed", func(t *testing.T) {
		desk := &mocks.DeskMock{
			ClaimFunc: func(ctx context.Context, storyID int64, actorID string) (string, error) {
				return "a-1", nil
			},
		}
		serve(t, testServer(t, Params{Desk: desk}), http.MethodPost, "/api/v1/stories/12/claim", `{"actor_id":"  ed-2 "}`)
		require.Len(t, desk.ClaimCalls(), 1)
		assert.Equal(t, int64(12), desk.ClaimCalls()[0].StoryID)
		assert.Equal(t, "ed-2", desk.ClaimCalls()[0].ActorID)
	})
}

func TestServer_dismissHandler(t *testing.T) {
	desk := &mocks.DeskMock{
		DismissFunc: func(ctx context.Context, storyID int64) error {
			if storyID == 8 {
				return fmt.Errorf("dismiss story 8: story 8 is claimed: %w", domain.ErrConflict)
			}
			return nil
		},
	}
	srv := testServer(t, Params{Desk: desk})

	w := serve(t, srv, http.MethodPost, "/api/v1/stories/7/dismiss", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = serve(t, srv, http.MethodPost, "/api/v1/stories/8/dismiss", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(t, srv, http.MethodPost, "/api/v1/stories/x/dismiss", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Len(t, desk.DismissCalls(), 2)
}

func TestServer_feedbackHandler(t *testing.T) {
	desk := &mocks.DeskMock{
		FeedbackFunc: func(ctx context.Context, fb domain.StoryFeedback) (domain.FeedbackSummary, error) {
			if fb.Rating > 5 {
				return domain.FeedbackSummary{}, fmt.Errorf("feedback: rating %d out of 1..5: %w", fb.Rating, domain.ErrInvalidInput)
			}
			return domain.FeedbackSummary{TotalRatings: 2, AvgRating: 4.5,
				TagCounts: map[domain.FeedbackTag]int{domain.TagRelevant: 2}}, nil
		},
	}
	srv := testServer(t, Params{Desk: desk})

	w := serve(t, srv, http.MethodPost, "/api/v1/stories/7/feedback",
		`{"user_id":"ed-1","rating":5,"tags":["relevant","great_angle"],"action":"claimed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_ratings":2,"avg_rating":4.5,"tag_counts":{"relevant":2}}`, w.Body.String())

	require.Len(t, desk.FeedbackCalls(), 1)
	fb := desk.FeedbackCalls()[0].Fb
	assert.Equal(t, int64(7), fb.StoryID)
	assert.Equal(t, "ed-1", fb.UserID)
	assert.Equal(t, []domain.FeedbackTag{domain.TagRelevant, domain.TagGreatAngle}, fb.Tags)
	assert.Equal(t, domain.ActionClaimed, fb.Action)

	w = serve(t, srv, http.MethodPost, "/api/v1/stories/7/feedback", `{"user_id":"ed-1","rating":9,"action":"claimed"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "out of 1..5")

	w = serve(t, srv, http.MethodPost, "/api/v1/stories/7/feedback", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, desk.FeedbackCalls(), 2)
}

func TestServer_listExemplarsHandler(t *testing.T) {
	analyzed := testNow.Add(-time.Minute)
	store := &mocks.ExemplarStoreMock{
		ListExemplarsFunc: func(ctx context.Context, statuses ...domain.ExemplarStatus) ([]domain.ArticleExemplar, error) {
			return []domain.ArticleExemplar{
				{ID: 1, URL: "https://news.example/a", Title: "Budget", Status: domain.ExemplarAnalyzed, AnalyzedAt: &analyzed,
					Fingerprint: domain.Fingerprint{Topics: []string{"budget"}, Keywords: map[string]float64{"budget": 3},
						SimilarToCategories: []string{"economy"}}},
				{ID: 2, URL: "https://news.example/b", Status: domain.ExemplarFailed, Error: "unexpected status code: 404"},
			}, nil
		},
	}
	srv := testServer(t, Params{Exemplars: store})

	w := serve(t, srv, http.MethodGet, "/api/v1/exemplars?status=analyzed,%20failed", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []exemplarView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	require.NotNil(t, resp[0].Fingerprint)
	assert.Equal(t, []string{"economy"}, resp[0].Fingerprint.SimilarToCategories)
	assert.Nil(t, resp[1].Fingerprint, "fingerprint only for analyzed exemplars")
	assert.Equal(t, "unexpected status code: 404", resp[1].Error)

	require.Len(t, store.ListExemplarsCalls(), 1)
	assert.Equal(t, []domain.ExemplarStatus{domain.ExemplarAnalyzed, domain.ExemplarFailed}, store.ListExemplarsCalls()[0].Statuses)

	w = serve(t, srv, http.MethodGet, "/api/v1/exemplars", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, store.ListExemplarsCalls(), 2)
	assert.Empty(t, store.ListExemplarsCalls()[1].Statuses)
}

func TestServer_createExemplarHandler(t *testing.T) {
	store := &mocks.ExemplarStoreMock{
		CreateExemplarFunc: func(ctx context.Context, url string, now time.Time) (*domain.ArticleExemplar, error) {
			if url == "https://news.example/broken" {
				return nil, errors.New("database is locked")
			}
			return &domain.ArticleExemplar{ID: 5, URL: url, Status: domain.ExemplarPending, CreatedAt: now}, nil
		},
	}
	srv := testServer(t, Params{Exemplars: store})

	w := serve(t, srv, http.MethodPost, "/api/v1/exemplars", `{"url":" https://news.example/story "}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp exemplarView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, "https://news.example/story", resp.URL)
	assert.Equal(t, domain.ExemplarPending, resp.Status)
	assert.True(t, resp.CreatedAt.Equal(testNow))

	for _, body := range []string{`{"url":""}`, `{"url":"ftp://news.example/a"}`, `{"url":"not a url"}`, `{"url":"https://"}`, `[`} {
		w := serve(t, srv, http.MethodPost, "/api/v1/exemplars", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w = serve(t, srv, http.MethodPost, "/api/v1/exemplars", `{"url":"https://news.example/broken"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Len(t, store.CreateExemplarCalls(), 2, "invalid urls never reach the store")
}

func TestServer_jobHandlers(t *testing.T) {
	t.Run("without scheduler", func(t *testing.T) {
		srv := testServer(t, Params{})
		w := serve(t, srv, http.MethodGet, "/api/v1/jobs", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		w = serve(t, srv, http.MethodPost, "/api/v1/jobs/sweep", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	jobs := &mocks.JobsMock{
		StatusFunc: func() []scheduler.JobStatus {
			return []scheduler.JobStatus{{Name: scheduler.JobExemplar}, {Name: scheduler.JobIngest}, {Name: scheduler.JobSweep}}
		},
		RunNowFunc: func(ctx context.Context, name string) (string, error) {
			switch name {
			case scheduler.JobSweep:
				return "dismissed 4 stale stories", nil
			case scheduler.JobIngest:
				return "", errors.New("ingest job: context deadline exceeded")
			}
			return "", fmt.Errorf("unknown job %q: %w", name, domain.ErrNotFound)
		},
	}
	srv := testServer(t, Params{Jobs: jobs})

	w := serve(t, srv, http.MethodGet, "/api/v1/jobs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status []scheduler.JobStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Len(t, status, 3)

	w = serve(t, srv, http.MethodPost, "/api/v1/jobs/sweep", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"job":"sweep","summary":"dismissed 4 stale stories"}`, w.Body.String())

	w = serve(t, srv, http.MethodPost, "/api/v1/jobs/ingest", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = serve(t, srv, http.MethodPost, "/api/v1/jobs/reindex", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorCode(t *testing.T) {
	tbl := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("wrap: %w", domain.ErrConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.code, errorCode(tt.err), tt.err.Error())
	}
}

func TestRenderError(t *testing.T) {
	srv := testServer(t, Params{Desk: &mocks.DeskMock{
		DismissFunc: func(ctx context.Context, storyID int64) error { return nil },
	}})
	w := serve(t, srv, http.MethodPost, "/api/v1/stories/0/dismiss", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"invalid story ID \"0\""}`, w.Body.String())
}
