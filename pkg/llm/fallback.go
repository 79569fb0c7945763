package llm

import (
	"context"
	"sort"
	"strings"
)

// RuleBased is the deterministic fallback analyzer used when no LLM is
// configured or the configured one fails.
type RuleBased struct{}

func NewRuleBased() RuleBased { return RuleBased{} }

var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "this": {}, "that": {},
	"from": {}, "your": {}, "near": {}, "a": {}, "an": {}, "in": {}, "at": {},
	"of": {}, "on": {}, "to": {}, "is": {}, "are": {}, "will": {}, "its": {},
}

var fallbackCategories = []struct {
	name  string
	words []string
}{
	{"music", []string{"music", "concert", "band", "jazz", "festival"}},
	{"food", []string{"food", "restaurant", "brunch", "tasting", "brewery"}},
	{"tech", []string{"tech", "startup", "hackathon", "software"}},
	{"arts", []string{"art", "gallery", "museum", "theater", "exhibit"}},
	{"sports", []string{"game", "match", "marathon", "tournament"}},
	{"business", []string{"business", "networking", "conference", "summit"}},
}

var positiveWords = []string{"celebrate", "free", "festival", "win", "favorite", "best"}
var negativeWords = []string{"cancel", "closed", "warning", "outage", "delay"}

func (RuleBased) Analyze(ctx context.Context, input AnalyzeInput) (*Analysis, error) {
	text := strings.ToLower(input.Text)

	freq := make(map[string]int)
	for _, word := range strings.Fields(text) {
		word = strings.Trim(word, ".,!?:;\"'()[]")
		if len(word) < 4 {
			continue
		}
		if _, ok := stopwords[word]; ok {
			continue
		}
		freq[word]++
	}

	keywords := make([]string, 0, len(freq))
	for word := range freq {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if freq[keywords[i]] != freq[keywords[j]] {
			return freq[keywords[i]] > freq[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})
	if len(keywords) > 8 {
		keywords = keywords[:8]
	}

	var categories []string
	for _, bucket := range fallbackCategories {
		for _, w := range bucket.words {
			if strings.Contains(text, w) {
				categories = append(categories, bucket.name)
				break
			}
		}
	}
	if len(categories) == 0 {
		categories = []string{"general"}
	}

	return &Analysis{
		Summary:    firstSentences(input.Text, 2),
		Categories: categories,
		Keywords:   keywords,
		Sentiment:  sentiment(text),
		ModelUsed:  "rule-based",
	}, nil
}

func sentiment(text string) string {
	var score int
	for _, w := range positiveWords {
		score += strings.Count(text, w)
	}
	for _, w := range negativeWords {
		score -= strings.Count(text, w)
	}
	switch {
	case score > 0:
		return "positive"
	case score < 0:
		return "negative"
	default:
		return "neutral"
	}
}

func firstSentences(text string, n int) string {
	text = strings.TrimSpace(text)
	var end, count int
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			count++
			end = i + 1
			if count == n {
				break
			}
		}
	}
	if count == 0 {
		if len(text) > 200 {
			return text[:200]
		}
		return text
	}
	return strings.TrimSpace(text[:end])
}
