package domain

import "time"

// keyword weight bounds for topic profiles
const (
	MinKeywordWeight = 0.5
	MaxKeywordWeight = 10.0
)

// TopicProfile holds learned keyword weights for one editorial category
type TopicProfile struct {
	Category       string
	KeywordWeights map[string]float64
	UpdatedAt      time.Time
}

// ClampKeywordWeight keeps a weight within profile bounds
func ClampKeywordWeight(w float64) float64 {
	if w < MinKeywordWeight {
		return MinKeywordWeight
	}
	if w > MaxKeywordWeight {
		return MaxKeywordWeight
	}
	return w
}

// ExemplarStatus is the analysis state of an exemplar article
type ExemplarStatus string

// exemplar statuses
const (
	ExemplarPending      ExemplarStatus = "PENDING"
	ExemplarPreviewReady ExemplarStatus = "PREVIEW_READY"
	ExemplarAnalyzed     ExemplarStatus = "ANALYZED"
	ExemplarFailed       ExemplarStatus = "FAILED"
)

// Fingerprint is the derived topic/keyword profile of an exemplar
type Fingerprint struct {
	Topics              []string           `json:"topics"`
	Keywords            map[string]float64 `json:"keywords"`
	SimilarToCategories []string           `json:"similar_to_categories"`
}

// ArticleExemplar is a vetted reference article biasing scoring toward successful topics
type ArticleExemplar struct {
	ID          int64
	URL         string
	Title       string
	Fingerprint Fingerprint
	Status      ExemplarStatus
	Error       string
	CreatedAt   time.Time
	AnalyzedAt  *time.Time
}
