package domain

import (
	"errors"
	"time"
)

// common errors returned by repositories and the lifecycle manager
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// FeedbackTag is one of the fixed tags an editor can attach to a rating
type FeedbackTag string

// allowed feedback tags
const (
	TagRelevant      FeedbackTag = "relevant"
	TagOffTopic      FeedbackTag = "off_topic"
	TagTooLate       FeedbackTag = "too_late"
	TagDuplicate     FeedbackTag = "duplicate"
	TagLowQuality    FeedbackTag = "low_quality"
	TagGreatAngle    FeedbackTag = "great_angle"
	TagWrongCategory FeedbackTag = "wrong_category"
)

// FeedbackTags lists every valid tag
var FeedbackTags = []FeedbackTag{TagRelevant, TagOffTopic, TagTooLate, TagDuplicate, TagLowQuality,
	TagGreatAngle, TagWrongCategory}

// IsValid reports whether the tag belongs to the fixed enum
func (t FeedbackTag) IsValid() bool {
	for _, v := range FeedbackTags {
		if v == t {
			return true
		}
	}
	return false
}

// FeedbackAction is what the editor did with the story when rating it
type FeedbackAction string

// feedback actions
const (
	ActionClaimed   FeedbackAction = "claimed"
	ActionDismissed FeedbackAction = "dismissed"
	ActionReviewed  FeedbackAction = "reviewed"
)

// IsValid reports whether the action is known
func (a FeedbackAction) IsValid() bool {
	switch a {
	case ActionClaimed, ActionDismissed, ActionReviewed:
		return true
	}
	return false
}

// StoryFeedback is an append-only editor rating of a story
type StoryFeedback struct {
	ID        int64
	StoryID   int64
	UserID    string
	Rating    int
	Tags      []FeedbackTag
	Action    FeedbackAction
	CreatedAt time.Time
}

// FeedbackSummary aggregates all ratings of a story
type FeedbackSummary struct {
	TotalRatings int                 `json:"total_ratings"`
	AvgRating    float64             `json:"avg_rating"`
	TagCounts    map[FeedbackTag]int `json:"tag_counts"`
}
