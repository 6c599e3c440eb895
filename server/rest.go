package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/lifecycle"
)

// storyView is a dashboard story as rendered to editors
type storyView struct {
	ID                 int64                     `json:"id"`
	Headline           string                    `json:"headline"`
	SourceURL          string                    `json:"source_url"`
	Sources            []string                  `json:"sources"`
	Category           string                    `json:"category,omitempty"`
	TopicClusterID     string                    `json:"topic_cluster_id"`
	RelevanceScore     float64                   `json:"relevance_score"`
	VelocityScore      float64                   `json:"velocity_score"`
	TotalScore         float64                   `json:"total_score"`
	AlertLevel         domain.AlertLevel         `json:"alert_level"`
	VerificationStatus domain.VerificationStatus `json:"verification_status"`
	State              lifecycle.State           `json:"state"`
	FirstSeenAt        time.Time                 `json:"first_seen_at"`
	SurfacedAt         *time.Time                `json:"surfaced_at,omitempty"`
	PlatformSignals    *domain.PlatformSignals   `json:"platform_signals,omitempty"`
	SuggestedAngles    []string                  `json:"suggested_angles"`
	Verification       []verificationView        `json:"verification"`
	Claim              *claimView                `json:"claim,omitempty"`
}

type verificationView struct {
	SourceName   string    `json:"source_name"`
	SourceURL    string    `json:"source_url"`
	Corroborates bool      `json:"corroborates"`
	Excerpt      string    `json:"excerpt,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type claimView struct {
	ClaimedByID string    `json:"claimed_by_id"`
	ClaimedAt   time.Time `json:"claimed_at"`
	ArticleID   string    `json:"article_id"`
}

type exemplarView struct {
	ID          int64                 `json:"id"`
	URL         string                `json:"url"`
	Title       string                `json:"title,omitempty"`
	Status      domain.ExemplarStatus `json:"status"`
	Fingerprint *domain.Fingerprint   `json:"fingerprint,omitempty"`
	Error       string                `json:"error,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	AnalyzedAt  *time.Time            `json:"analyzed_at,omitempty"`
}

type claimRequest struct {
	ActorID string `json:"actor_id"`
}

type feedbackRequest struct {
	UserID string                `json:"user_id"`
	Rating int                   `json:"rating"`
	Tags   []domain.FeedbackTag  `json:"tags"`
	Action domain.FeedbackAction `json:"action"`
}

type exemplarRequest struct {
	URL string `json:"url"`
}

// statusHandler returns server status with the state of periodic jobs
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    s.now().UTC(),
	}
	if s.jobs != nil {
		status["jobs"] = s.jobs.Status()
	}
	renderJSON(w, r, http.StatusOK, status)
}

// ingestHandler runs one ingestion pass and returns its counts
func (s *Server) ingestHandler(w http.ResponseWriter, r *http.Request) {
	res, err := s.ingester.Ingest(r.Context())
	if err != nil {
		lgr.Printf("[WARN] ingestion failed: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, res)
}

// dashboardHandler returns the ranked stories for editors
func (s *Server) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	stories, err := s.desk.Dashboard(r.Context())
	if err != nil {
		lgr.Printf("[WARN] failed to build dashboard: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	res := make([]storyView, 0, len(stories))
	for _, ds := range stories {
		res = append(res, newStoryView(ds))
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"stories": res, "count": len(res)})
}

// claimHandler claims a story for an editor and returns the draft article id
func (s *Server) claimHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	var req claimRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	articleID, err := s.desk.Claim(r.Context(), id, strings.TrimSpace(req.ActorID))
	if err != nil {
		lgr.Printf("[WARN] claim of story %d by %q rejected: %v", id, req.ActorID, err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true, "article_id": articleID})
}

// dismissHandler manually dismisses a story
func (s *Server) dismissHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	if err := s.desk.Dismiss(r.Context(), id); err != nil {
		lgr.Printf("[WARN] dismiss of story %d rejected: %v", id, err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]interface{}{"success": true})
}

// feedbackHandler records an editor rating and returns the rating summary of the story
func (s *Server) feedbackHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := storyID(w, r)
	if !ok {
		return
	}
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	summary, err := s.desk.Feedback(r.Context(), domain.StoryFeedback{
		StoryID: id,
		UserID:  strings.TrimSpace(req.UserID),
		Rating:  req.Rating,
		Tags:    req.Tags,
		Action:  req.Action,
	})
	if err != nil {
		lgr.Printf("[WARN] feedback on story %d rejected: %v", id, err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, summary)
}

// listExemplarsHandler lists exemplars, optionally filtered by ?status=PENDING,FAILED
func (s *Server) listExemplarsHandler(w http.ResponseWriter, r *http.Request) {
	var statuses []domain.ExemplarStatus
	if v := r.URL.Query().Get("status"); v != "" {
		for _, st := range strings.Split(v, ",") {
			statuses = append(statuses, domain.ExemplarStatus(strings.ToUpper(strings.TrimSpace(st))))
		}
	}

	exemplars, err := s.exemplars.ListExemplars(r.Context(), statuses...)
	if err != nil {
		lgr.Printf("[WARN] failed to list exemplars: %v", err)
		renderError(w, r, err, errorCode(err))
		return
	}

	res := make([]exemplarView, 0, len(exemplars))
	for _, e := range exemplars {
		res = append(res, newExemplarView(e))
	}
	renderJSON(w, r, http.StatusOK, res)
}

// createExemplarHandler registers an exemplar url for analysis by the next exemplar job
func (s *Server) createExemplarHandler(w http.ResponseWriter, r *http.Request) {
	var req exemplarRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	link := strings.TrimSpace(req.URL)
	if u, err := url.Parse(link); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		renderError(w, r, fmt.Errorf("invalid exemplar url %q", req.URL), http.StatusBadRequest)
		return
	}

	e, err := s.exemplars.CreateExemplar(r.Context(), link, s.now().UTC())
	if err != nil {
		lgr.Printf("[WARN] failed to register exemplar %s: %v", link, err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusCreated, newExemplarView(*e))
}

// jobsHandler returns the state of periodic jobs
func (s *Server) jobsHandler(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		renderError(w, r, errors.New("scheduler is not running"), http.StatusServiceUnavailable)
		return
	}
	renderJSON(w, r, http.StatusOK, s.jobs.Status())
}

// runJobHandler runs a periodic job right away, waiting for an active run to finish first
func (s *Server) runJobHandler(w http.ResponseWriter, r *http.Request) {
	if s.jobs == nil {
		renderError(w, r, errors.New("scheduler is not running"), http.StatusServiceUnavailable)
		return
	}
	name := r.PathValue("name")
	summary, err := s.jobs.RunNow(r.Context(), name)
	if err != nil {
		lgr.Printf("[WARN] job %s failed: %v", name, err)
		renderError(w, r, err, errorCode(err))
		return
	}
	renderJSON(w, r, http.StatusOK, map[string]string{"job": name, "summary": summary})
}

func newStoryView(ds domain.DashboardStory) storyView {
	s := ds.Story
	v := storyView{
		ID:                 s.ID,
		Headline:           s.Headline,
		SourceURL:          s.SourceURL,
		Sources:            s.Sources,
		Category:           s.Category,
		TopicClusterID:     s.TopicClusterID,
		RelevanceScore:     s.RelevanceScore,
		VelocityScore:      s.VelocityScore,
		TotalScore:         s.TotalScore,
		AlertLevel:         s.AlertLevel,
		VerificationStatus: s.VerificationStatus,
		State:              lifecycle.StateOf(s),
		FirstSeenAt:        s.FirstSeenAt,
		SurfacedAt:         s.SurfacedAt,
		PlatformSignals:    s.PlatformSignals,
		SuggestedAngles:    s.SuggestedAngles,
		Verification:       make([]verificationView, 0, len(ds.Verification)),
	}
	if v.Sources == nil {
		v.Sources = []string{}
	}
	if v.SuggestedAngles == nil {
		v.SuggestedAngles = []string{}
	}
	for _, vs := range ds.Verification {
		v.Verification = append(v.Verification, verificationView{SourceName: vs.SourceName, SourceURL: vs.SourceURL,
			Corroborates: vs.Corroborates, Excerpt: vs.Excerpt, CreatedAt: vs.CreatedAt})
	}
	if ds.Claim != nil {
		v.Claim = &claimView{ClaimedByID: ds.Claim.ClaimedByID, ClaimedAt: ds.Claim.ClaimedAt, ArticleID: ds.Claim.ArticleID}
	}
	return v
}

func newExemplarView(e domain.ArticleExemplar) exemplarView {
	v := exemplarView{ID: e.ID, URL: e.URL, Title: e.Title, Status: e.Status, Error: e.Error,
		CreatedAt: e.CreatedAt, AnalyzedAt: e.AnalyzedAt}
	if e.Status == domain.ExemplarAnalyzed {
		fp := e.Fingerprint
		v.Fingerprint = &fp
	}
	return v
}

// storyID parses the story id path value, responds 400 on failure
func storyID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(w, r, fmt.Errorf("invalid story ID %q", r.PathValue("id")), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeJSON reads the request body into v, responds 400 on failure
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		renderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return false
	}
	return true
}

// errorCode maps domain errors to http status codes
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}
