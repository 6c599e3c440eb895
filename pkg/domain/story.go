package domain

import "time"

// SourceKind identifies the type of feed a candidate came from
type SourceKind string

// source kinds
const (
	KindRSS        SourceKind = "rss"
	KindAggregator SourceKind = "aggregator"
	KindSocial     SourceKind = "social"
	KindWire       SourceKind = "wire"
)

// IsValid reports whether k is a known source kind
func (k SourceKind) IsValid() bool {
	switch k {
	case KindRSS, KindAggregator, KindSocial, KindWire:
		return true
	}
	return false
}

// Velocity trend values reported by platforms
const (
	VelocityRising  = "rising"
	VelocityNew     = "new"
	VelocitySteady  = "steady"
	VelocityFalling = "falling"
)

// PlatformSignals carries social and aggregator metrics used for velocity scoring
type PlatformSignals struct {
	Heat               float64 `json:"heat,omitempty"`                // 0..100 social heat
	Volume             int64   `json:"volume,omitempty"`              // mention volume
	Velocity           string  `json:"velocity,omitempty"`            // rising, new, steady, falling
	AggregatorScore    float64 `json:"aggregator_score,omitempty"`    // 0..1 normalized
	AggregatorVelocity float64 `json:"aggregator_velocity,omitempty"` // 0..1 normalized
	TrendMagnitude     float64 `json:"trend_magnitude,omitempty"`     // percent growth
}

// Merge fills zero fields of s from other and returns the result. Nil receivers are allowed.
func (s *PlatformSignals) Merge(other *PlatformSignals) *PlatformSignals {
	switch {
	case s == nil && other == nil:
		return nil
	case s == nil:
		res := *other
		return &res
	case other == nil:
		res := *s
		return &res
	}

	res := *s
	if res.Heat == 0 {
		res.Heat = other.Heat
	}
	if res.Volume == 0 {
		res.Volume = other.Volume
	}
	if res.Velocity == "" {
		res.Velocity = other.Velocity
	}
	if res.AggregatorScore == 0 {
		res.AggregatorScore = other.AggregatorScore
	}
	if res.AggregatorVelocity == 0 {
		res.AggregatorVelocity = other.AggregatorVelocity
	}
	if res.TrendMagnitude == 0 {
		res.TrendMagnitude = other.TrendMagnitude
	}
	return &res
}

// Candidate is an unpersisted story produced by a collector during one ingestion pass
type Candidate struct {
	Headline        string
	SourceURL       string
	Sources         []string
	Kind            SourceKind
	Excerpt         string
	PlatformSignals *PlatformSignals
	FirstSeenAt     time.Time // zero means unknown
}

// AlertLevel defines how prominently a story is surfaced
type AlertLevel string

// alert tiers, from quiet to loud
const (
	AlertNone      AlertLevel = "NONE"
	AlertDashboard AlertLevel = "DASHBOARD"
	AlertTelegram  AlertLevel = "TELEGRAM"
)

// VerificationStatus reflects corroboration state of a story
type VerificationStatus string

// verification statuses
const (
	VerificationUnverified   VerificationStatus = "UNVERIFIED"
	VerificationCorroborated VerificationStatus = "CORROBORATED"
)

// Outcome is the final editorial decision on a story
type Outcome string

// story outcomes
const (
	OutcomeNone    Outcome = ""
	OutcomeClaimed Outcome = "CLAIMED"
	OutcomeIgnored Outcome = "IGNORED"
)

// DismissReason tells stale sweeps apart from editor dismissals
type DismissReason string

// dismiss reasons
const (
	DismissStale  DismissReason = "stale"
	DismissManual DismissReason = "manual"
)

// Story is a persisted, scored story. Stories are never physically deleted.
type Story struct {
	ID                 int64
	Headline           string
	SourceURL          string
	Sources            []string
	Category           string
	TopicClusterID     string
	RelevanceScore     float64
	VelocityScore      float64
	TotalScore         float64
	AlertLevel         AlertLevel
	VerificationStatus VerificationStatus
	Dismissed          bool
	DismissReason      DismissReason
	ClaimedByID        *string
	ClaimedAt          *time.Time
	ArticleID          *string
	Outcome            Outcome
	FirstSeenAt        time.Time
	SurfacedAt         *time.Time
	PlatformSignals    *PlatformSignals
	SuggestedAngles    []string
	Revision           int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsClaimed reports whether the story was claimed by an editor
func (s *Story) IsClaimed() bool {
	return s.ClaimedByID != nil
}

// VerificationSource is an append-only record of a source reporting the story
type VerificationSource struct {
	ID           int64
	StoryID      int64
	SourceName   string
	SourceURL    string
	Corroborates bool
	Excerpt      string
	CreatedAt    time.Time
}

// UpsertResult reports what a story upsert did
type UpsertResult struct {
	ID      int64
	Created bool
}

// ClaimSummary describes who claimed a story and which article was drafted for it
type ClaimSummary struct {
	ClaimedByID string
	ClaimedAt   time.Time
	ArticleID   string
}

// DashboardStory is a story as shown to editors, with its sources and claim state
type DashboardStory struct {
	*Story
	Verification []VerificationSource
	Claim        *ClaimSummary
}
