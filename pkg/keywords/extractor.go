// Package keywords extracts significant terms from headlines and article text.
// Matching is exact, no stemming is applied.
package keywords

import (
	"sort"
	"strings"
	"unicode"
)

// minLength is the shortest token kept, shorter tokens are noise in headlines
const minLength = 4

// stopWords contains common english words ignored by the extractor
var stopWords = map[string]struct{}{
	"about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "also": {}, "amid": {},
	"among": {}, "been": {}, "before": {}, "being": {}, "below": {}, "between": {}, "both": {},
	"could": {}, "does": {}, "doing": {}, "down": {}, "during": {}, "each": {}, "even": {},
	"from": {}, "further": {}, "have": {}, "having": {}, "here": {}, "into": {}, "just": {},
	"less": {}, "like": {}, "many": {}, "more": {}, "most": {}, "much": {}, "must": {},
	"near": {}, "next": {}, "only": {}, "other": {}, "ours": {}, "over": {}, "said": {},
	"says": {}, "same": {}, "should": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "under": {}, "until": {}, "upon": {}, "very": {}, "via": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "whom": {},
	"will": {}, "with": {}, "within": {}, "without": {}, "would": {}, "year": {}, "your": {},
	"yours": {}, "amongst": {}, "because": {}, "since": {}, "still": {}, "onto": {},
}

// Extract returns lowercase significant tokens of text in first-occurrence order, without duplicates.
// Tokens are split on anything that is not a letter or digit, so punctuation is stripped.
func Extract(text string) []string {
	tokens := significant(text)
	seen := make(map[string]struct{}, len(tokens))
	res := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		res = append(res, t)
	}
	return res
}

// Frequency counts significant tokens of text, used to fingerprint long documents
func Frequency(text string) map[string]int {
	res := make(map[string]int)
	for _, t := range significant(text) {
		res[t]++
	}
	return res
}

// Top returns up to n keys of freq ordered by count desc, then alphabetically
func Top(freq map[string]int, n int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// significant splits text into lowercase tokens and drops short and stop words
func significant(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	res := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < minLength {
			continue
		}
		if _, ok := stopWords[f]; ok {
			continue
		}
		res = append(res, f)
	}
	return res
}
