package scoring

import "strings"

// StanceClassifier returns an editorial adjustment for a headline
type StanceClassifier interface {
	Stance(headline string) float64
}

// PhraseStance classifies headlines by lexical phrase lists.
// The anti-signal list is checked first and the first match wins, so a headline
// present in both lists always gets the penalty.
type PhraseStance struct {
	anti    []string
	pro     []string
	penalty float64
	bonus   float64
}

// DefaultAntiSignals lists phrases editors consistently pass on
var DefaultAntiSignals = []string{
	"sponsored", "press release", "celebrity gossip", "horoscope", "opinion:", "quiz:",
	"you won't believe", "slams", "plummets", "collapses",
}

// DefaultProSignals lists phrases editors consistently pick up
var DefaultProSignals = []string{
	"record high", "breaking", "exclusive", "soars", "surges", "breakthrough", "landmark",
	"first ever", "historic",
}

// NewPhraseStance makes a phrase classifier, phrases are matched case-insensitively as substrings
func NewPhraseStance(anti, pro []string, penalty, bonus float64) *PhraseStance {
	lower := func(list []string) []string {
		res := make([]string, 0, len(list))
		for _, p := range list {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				res = append(res, p)
			}
		}
		return res
	}
	return &PhraseStance{anti: lower(anti), pro: lower(pro), penalty: penalty, bonus: bonus}
}

// Stance returns penalty on the first anti-signal hit, bonus on a pro-signal hit, 0 otherwise
func (p *PhraseStance) Stance(headline string) float64 {
	h := strings.ToLower(headline)
	for _, phrase := range p.anti {
		if strings.Contains(h, phrase) {
			return p.penalty
		}
	}
	for _, phrase := range p.pro {
		if strings.Contains(h, phrase) {
			return p.bonus
		}
	}
	return 0
}
