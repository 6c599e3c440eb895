package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/storydesk/pkg/domain"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func politicsProfiles() []domain.TopicProfile {
	return []domain.TopicProfile{
		{Category: "politics", KeywordWeights: map[string]float64{"trump": 5, "economy": 4, "record": 2, "highs": 1}},
		{Category: "sports", KeywordWeights: map[string]float64{"league": 3, "final": 2}},
	}
}

func TestScorer_TrendingHeadlineReachesTelegram(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	c := domain.Candidate{
		Headline:        "Trump Economy Soars to Record Highs",
		SourceURL:       "https://example.com/a",
		Sources:         []string{"wire"},
		PlatformSignals: &domain.PlatformSignals{Heat: 90, Volume: 15000, Velocity: domain.VelocityRising},
		FirstSeenAt:     testNow,
	}

	res := s.Score(c, politicsProfiles(), nil, testNow)
	assert.InDelta(t, 10, res.Editorial, 0.0001)
	assert.InDelta(t, 30, res.Category, 0.0001)
	assert.InDelta(t, 20, res.KeywordMatch, 0.0001, "4 of 5 keywords known")
	assert.InDelta(t, 5, res.Source, 0.0001)
	assert.InDelta(t, 15, res.Recency, 0.0001)
	assert.InDelta(t, 14.1, res.VelocityScore, 0.0001)
	assert.True(t, res.IsHighVelocity)
	assert.GreaterOrEqual(t, res.TotalScore, 85.0)
	assert.Equal(t, domain.AlertTelegram, res.AlertLevel)
	assert.Equal(t, "politics", res.MatchedCategory)
	assert.Equal(t, "politics/economy+highs", res.TopicClusterID)
}

func TestScorer_ScoresAlwaysBounded(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	rnd := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data
	headlines := []string{"Trump Economy Soars to Record Highs", "League final collapses in scandal",
		"", "Breaking exclusive: historic breakthrough soars", "sponsored press release slams economy"}
	velocities := []string{"", domain.VelocityRising, domain.VelocityNew, domain.VelocityFalling}

	for i := range 500 {
		sources := make([]string, rnd.Intn(6))
		c := domain.Candidate{
			Headline: headlines[i%len(headlines)],
			Sources:  sources,
			PlatformSignals: &domain.PlatformSignals{
				Heat:               rnd.Float64()*300 - 100,
				Volume:             rnd.Int63n(100000),
				Velocity:           velocities[rnd.Intn(len(velocities))],
				AggregatorScore:    rnd.Float64() * 3,
				AggregatorVelocity: rnd.Float64() * 3,
				TrendMagnitude:     rnd.Float64() * 400,
			},
			FirstSeenAt: testNow.Add(-time.Duration(rnd.Int63n(int64(48 * time.Hour)))),
		}
		if i%7 == 0 {
			c.PlatformSignals = nil
		}
		res := s.Score(c, politicsProfiles(), exemplarsWorthTen(), testNow)
		assert.GreaterOrEqual(t, res.RelevanceScore, 0.0)
		assert.LessOrEqual(t, res.RelevanceScore, 100.0)
		assert.GreaterOrEqual(t, res.TotalScore, 0.0)
		assert.LessOrEqual(t, res.TotalScore, 100.0)
		assert.GreaterOrEqual(t, res.VelocityScore, 0.0)
		assert.LessOrEqual(t, res.VelocityScore, 15.0)
	}
}

func TestScorer_SourceCorroborationMonotonic(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	signals := &domain.PlatformSignals{Heat: 50, Volume: 2000}
	prev := -1.0
	for n := 0; n <= 5; n++ {
		sources := make([]string, n)
		res := s.Score(domain.Candidate{Headline: "Senate passes budget", Sources: sources, PlatformSignals: signals,
			FirstSeenAt: testNow}, nil, nil, testNow)
		assert.GreaterOrEqual(t, res.Source, prev, "sources=%d", n)
		prev = res.Source
	}
	assert.InDelta(t, 15, prev, 0.0001, "saturates at three sources")
}

func TestScorer_RecencyDecay(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	score := func(firstSeen time.Time) float64 {
		return s.Score(domain.Candidate{Headline: "Storm hits coast", FirstSeenAt: firstSeen}, nil, nil, testNow).Recency
	}

	assert.InDelta(t, 15, score(time.Time{}), 0.0001, "missing timestamp gets full term")
	assert.InDelta(t, 15, score(testNow.Add(time.Hour)), 0.0001, "future timestamp gets full term")
	assert.InDelta(t, 7.5, score(testNow.Add(-6*time.Hour)), 0.0001)
	assert.InDelta(t, 0, score(testNow.Add(-12*time.Hour)), 0.0001)

	prev := score(testNow.Add(-12 * time.Hour))
	for h := 13; h < 72; h += 5 {
		v := score(testNow.Add(-time.Duration(h) * time.Hour))
		assert.LessOrEqual(t, v, prev, "age %dh", h)
		assert.InDelta(t, 0, v, 0.0001)
		prev = v
	}
}

func TestScorer_AlertBoundaries(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	tests := []struct {
		total float64
		high  bool
		want  domain.AlertLevel
	}{
		{85, false, domain.AlertDashboard},
		{85, true, domain.AlertTelegram},
		{100, false, domain.AlertDashboard},
		{84.99, true, domain.AlertDashboard},
		{40, false, domain.AlertDashboard},
		{39.99, true, domain.AlertNone},
		{0, false, domain.AlertNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Alert(tt.total, tt.high), "total=%v high=%v", tt.total, tt.high)
	}
}

func TestScorer_EditorialAntiSignalWins(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	res := s.Score(domain.Candidate{Headline: "Bitcoin soars before exchange collapses"}, nil, nil, testNow)
	assert.InDelta(t, -25, res.Editorial, 0.0001)

	res = s.Score(domain.Candidate{Headline: "Bitcoin soars past milestone"}, nil, nil, testNow)
	assert.InDelta(t, 10, res.Editorial, 0.0001)

	res = s.Score(domain.Candidate{Headline: "Council meets on Tuesday"}, nil, nil, testNow)
	assert.InDelta(t, 0, res.Editorial, 0.0001)
}

type fixedStance float64

func (f fixedStance) Stance(string) float64 { return float64(f) }

func TestScorer_CustomStanceClassifier(t *testing.T) {
	s := NewScorer(DefaultConfig(), fixedStance(-100))
	res := s.Score(domain.Candidate{Headline: "Anything at all", Sources: []string{"a"}}, nil, nil, testNow)
	assert.InDelta(t, -100, res.Editorial, 0.0001)
	assert.InDelta(t, 0, res.RelevanceScore, 0.0001, "clamped at zero")
}

func exemplarsWorthTen() []domain.ArticleExemplar {
	return []domain.ArticleExemplar{
		{URL: "https://example.com/ex1", Status: domain.ExemplarAnalyzed, Fingerprint: domain.Fingerprint{
			Topics: []string{"senate", "climate"}, Keywords: map[string]float64{"senate": 10, "climate": 5},
			SimilarToCategories: []string{"politics"}}},
		{URL: "https://example.com/ex2", Status: domain.ExemplarAnalyzed, Fingerprint: domain.Fingerprint{
			Topics: []string{"bill", "passes"}, Keywords: map[string]float64{"bill": 15},
			SimilarToCategories: []string{"Politics"}}},
	}
}

func TestScorer_ExemplarBonusUsesMax(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	profiles := []domain.TopicProfile{{Category: "politics", KeywordWeights: map[string]float64{"senate": 3, "climate": 2}}}
	c := domain.Candidate{Headline: "Senate passes climate bill"}

	exemplars := exemplarsWorthTen()
	for _, ex := range exemplars {
		single := s.Score(c, profiles, []domain.ArticleExemplar{ex}, testNow)
		require.InDelta(t, 10, single.Exemplar, 0.0001, ex.URL)
	}

	both := s.Score(c, profiles, exemplars, testNow)
	assert.InDelta(t, 10, both.Exemplar, 0.0001, "max across exemplars, not sum")

	pending := append(exemplars, domain.ArticleExemplar{Status: domain.ExemplarPending, Fingerprint: domain.Fingerprint{
		Topics: []string{"senate", "climate", "bill", "passes"}, Keywords: map[string]float64{"senate": 100},
		SimilarToCategories: []string{"politics"}}})
	assert.InDelta(t, 10, s.Score(c, profiles, pending, testNow).Exemplar, 0.0001, "pending exemplars ignored")
}

func TestScorer_ExemplarCapped(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	profiles := []domain.TopicProfile{{Category: "politics", KeywordWeights: map[string]float64{"senate": 3}}}
	ex := domain.ArticleExemplar{Status: domain.ExemplarAnalyzed, Fingerprint: domain.Fingerprint{
		Topics:              []string{"senate", "passes", "climate", "bill", "politics"},
		Keywords:            map[string]float64{"senate": 50, "climate": 50},
		SimilarToCategories: []string{"politics"},
	}}
	res := s.Score(domain.Candidate{Headline: "Senate passes climate bill"}, profiles, []domain.ArticleExemplar{ex}, testNow)
	assert.InDelta(t, 15, res.Exemplar, 0.0001, "3 + 8 + 4 capped at 15")
}

func TestScorer_MissingInputsDegradeToZero(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	res := s.Score(domain.Candidate{Headline: "", FirstSeenAt: testNow.Add(-24 * time.Hour)}, nil, nil, testNow)
	assert.Zero(t, res.Category)
	assert.Zero(t, res.KeywordMatch)
	assert.Zero(t, res.Source)
	assert.Zero(t, res.Recency)
	assert.Zero(t, res.Exemplar)
	assert.Zero(t, res.VelocityScore)
	assert.False(t, res.IsHighVelocity)
	assert.Empty(t, res.MatchedCategory)
	assert.Empty(t, res.TopicClusterID)
	assert.Equal(t, domain.AlertNone, res.AlertLevel)
}

func TestScorer_VelocityMonotonic(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	velocity := func(sig domain.PlatformSignals) float64 {
		return s.Score(domain.Candidate{Headline: "x", PlatformSignals: &sig}, nil, nil, testNow).VelocityScore
	}

	prev := -1.0
	for heat := 0.0; heat <= 100; heat += 10 {
		v := velocity(domain.PlatformSignals{Heat: heat, Volume: 500})
		assert.GreaterOrEqual(t, v, prev, "heat %v", heat)
		prev = v
	}

	prev = -1.0
	for vol := int64(0); vol <= 30000; vol += 2500 {
		v := velocity(domain.PlatformSignals{Heat: 20, Volume: vol})
		assert.GreaterOrEqual(t, v, prev, "volume %v", vol)
		prev = v
	}

	steady := velocity(domain.PlatformSignals{Heat: 30, Velocity: domain.VelocitySteady})
	fresh := velocity(domain.PlatformSignals{Heat: 30, Velocity: domain.VelocityNew})
	rising := velocity(domain.PlatformSignals{Heat: 30, Velocity: domain.VelocityRising})
	assert.Less(t, steady, fresh)
	assert.Less(t, fresh, rising)

	assert.InDelta(t, 15, velocity(domain.PlatformSignals{Heat: 100, Volume: 1e6, Velocity: domain.VelocityRising,
		AggregatorScore: 1, AggregatorVelocity: 1, TrendMagnitude: 500}), 0.0001, "blend clamped to 1")
}

func TestScorer_HighVelocityCutoff(t *testing.T) {
	s := NewScorer(DefaultConfig(), nil)
	// heat 100 alone gives 0.6 exactly
	res := s.Score(domain.Candidate{Headline: "x", PlatformSignals: &domain.PlatformSignals{Heat: 100}}, nil, nil, testNow)
	assert.True(t, res.IsHighVelocity)

	res = s.Score(domain.Candidate{Headline: "x", PlatformSignals: &domain.PlatformSignals{Heat: 99}}, nil, nil, testNow)
	assert.False(t, res.IsHighVelocity)
}

func TestPhraseStance(t *testing.T) {
	p := NewPhraseStance([]string{" Scandal ", ""}, []string{"WINS"}, -25, 10)
	assert.InDelta(t, -25, p.Stance("Mayor scandal widens"), 0.0001)
	assert.InDelta(t, 10, p.Stance("Local team wins cup"), 0.0001)
	assert.InDelta(t, -25, p.Stance("Team wins despite scandal"), 0.0001)
	assert.InDelta(t, 0, p.Stance("Weather update"), 0.0001)
}
