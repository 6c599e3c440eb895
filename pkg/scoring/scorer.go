// Package scoring implements the story scoring engine. Score is a pure function of the candidate,
// the topic profiles and exemplars snapshots and the current time.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/umputun/storydesk/pkg/domain"
	"github.com/umputun/storydesk/pkg/keywords"
)

// Scorer scores candidates, it holds no mutable state and is safe for concurrent use
type Scorer struct {
	cfg    Config
	stance StanceClassifier
}

// Breakdown is the per-term result of scoring a candidate
type Breakdown struct {
	Category     float64
	KeywordMatch float64
	Source       float64
	Recency      float64
	Editorial    float64
	Exemplar     float64
	Velocity     float64

	RelevanceScore float64
	VelocityScore  float64
	TotalScore     float64
	IsHighVelocity bool
	AlertLevel     domain.AlertLevel

	MatchedCategory string
	TopicClusterID  string
	Keywords        []string
	MatchedKeywords []string
}

// NewScorer makes a scorer. A nil stance classifier falls back to the default phrase lists.
func NewScorer(cfg Config, stance StanceClassifier) *Scorer {
	if stance == nil {
		stance = NewPhraseStance(DefaultAntiSignals, DefaultProSignals, cfg.AntiPenalty, cfg.ProBonus)
	}
	return &Scorer{cfg: cfg, stance: stance}
}

// Score computes the score breakdown and alert level of a candidate
func (s *Scorer) Score(c domain.Candidate, profiles []domain.TopicProfile, exemplars []domain.ArticleExemplar,
	now time.Time) Breakdown {
	res := Breakdown{Keywords: keywords.Extract(c.Headline)}

	var matched []string
	res.Category, res.MatchedCategory, matched = s.categoryTerm(res.Keywords, profiles)
	res.MatchedKeywords = matched
	res.KeywordMatch = s.keywordTerm(res.Keywords, profiles)
	res.Source = s.sourceTerm(len(c.Sources))
	res.Recency = s.recencyTerm(c.FirstSeenAt, now)
	res.Editorial = s.stance.Stance(c.Headline)
	res.Exemplar = s.exemplarTerm(res.Keywords, res.MatchedCategory, exemplars)

	blend := velocityBlend(c.PlatformSignals, s.cfg.Velocity)
	res.IsHighVelocity = blend >= s.cfg.Velocity.HighVelocityCutoff
	res.Velocity = clamp(blend, 0, 1) * s.cfg.VelocityWeight

	res.RelevanceScore = clamp(res.Category+res.KeywordMatch+res.Source+res.Recency+res.Editorial+res.Exemplar, 0, 100)
	res.VelocityScore = res.Velocity
	res.TotalScore = clamp(res.RelevanceScore+res.VelocityScore, 0, 100)
	res.AlertLevel = s.Alert(res.TotalScore, res.IsHighVelocity)
	res.TopicClusterID = clusterID(res.MatchedCategory, matched)
	return res
}

// Alert classifies a total score. High relevance alone never reaches the telegram tier,
// it requires independently qualifying velocity.
func (s *Scorer) Alert(total float64, highVelocity bool) domain.AlertLevel {
	switch {
	case total >= s.cfg.TelegramThreshold && highVelocity:
		return domain.AlertTelegram
	case total >= s.cfg.DashboardThreshold:
		return domain.AlertDashboard
	default:
		return domain.AlertNone
	}
}

// categoryTerm picks the profile with the highest matched weight sum
func (s *Scorer) categoryTerm(kws []string, profiles []domain.TopicProfile) (term float64, category string, matched []string) {
	best := 0.0
	for _, p := range profiles {
		var sum float64
		var hits []string
		for _, kw := range kws {
			if w, ok := p.KeywordWeights[kw]; ok {
				sum += w
				hits = append(hits, kw)
			}
		}
		if sum > best {
			best, category, matched = sum, p.Category, hits
		}
	}
	if best == 0 || s.cfg.CategoryNormalizer <= 0 {
		return 0, category, matched
	}
	return math.Min(best/s.cfg.CategoryNormalizer, 1) * s.cfg.CategoryWeight, category, matched
}

// keywordTerm is the share of headline keywords known to any profile
func (s *Scorer) keywordTerm(kws []string, profiles []domain.TopicProfile) float64 {
	if len(kws) == 0 || len(profiles) == 0 {
		return 0
	}
	hits := 0
	for _, kw := range kws {
		for _, p := range profiles {
			if _, ok := p.KeywordWeights[kw]; ok {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(kws)) * s.cfg.KeywordWeight
}

func (s *Scorer) sourceTerm(count int) float64 {
	if count <= 0 || s.cfg.SourceSaturation <= 0 {
		return 0
	}
	return float64(min(count, s.cfg.SourceSaturation)) / float64(s.cfg.SourceSaturation) * s.cfg.SourceWeight
}

// recencyTerm decays linearly over the recency window, unknown or future timestamps get the full term
func (s *Scorer) recencyTerm(firstSeen, now time.Time) float64 {
	if firstSeen.IsZero() {
		return s.cfg.RecencyWeight
	}
	age := now.Sub(firstSeen)
	if age <= 0 {
		return s.cfg.RecencyWeight
	}
	if s.cfg.RecencyWindow <= 0 || age >= s.cfg.RecencyWindow {
		return 0
	}
	return s.cfg.RecencyWeight * (1 - float64(age)/float64(s.cfg.RecencyWindow))
}

// exemplarTerm takes the best single exemplar match, exemplars never add up
func (s *Scorer) exemplarTerm(kws []string, category string, exemplars []domain.ArticleExemplar) float64 {
	if len(exemplars) == 0 {
		return 0
	}

	candidateTopics := make(map[string]struct{}, len(kws)+1)
	for _, kw := range kws {
		candidateTopics[kw] = struct{}{}
	}
	if category != "" {
		candidateTopics[strings.ToLower(category)] = struct{}{}
	}

	best := 0.0
	for _, ex := range exemplars {
		if ex.Status != domain.ExemplarAnalyzed {
			continue
		}
		var bonus float64
		if category != "" {
			for _, c := range ex.Fingerprint.SimilarToCategories {
				if strings.EqualFold(c, category) {
					bonus += 3
					break
				}
			}
		}

		shared := 0
		for _, t := range ex.Fingerprint.Topics {
			if _, ok := candidateTopics[strings.ToLower(t)]; ok {
				shared++
			}
		}
		bonus += math.Min(2*float64(shared), 8)

		var kwSum float64
		for _, kw := range kws {
			kwSum += ex.Fingerprint.Keywords[kw]
		}
		bonus += clamp(0.2*kwSum, 0, 4)

		best = math.Max(best, bonus)
	}
	return math.Min(best, s.cfg.ExemplarCap)
}

// clusterID groups stories by category and their two alphabetically first matched keywords
func clusterID(category string, matched []string) string {
	if category == "" {
		return ""
	}
	kws := append([]string(nil), matched...)
	sort.Strings(kws)
	if len(kws) > 2 {
		kws = kws[:2]
	}
	if len(kws) == 0 {
		return category
	}
	return category + "/" + strings.Join(kws, "+")
}
