package aggregate

import (
	"math"
	"strings"
	"time"
	"unicode"

	"prospector/pkg/search"
)

// ScoredResult is a provider result with derived score dimensions attached.
// RankScore is recomputed by the ranking stage; everything else is immutable
// after scoring.
type ScoredResult struct {
	search.Result
	Confidence float64
	Urgency    float64
	Relevance  float64
	Category   string
	RankScore  float64
}

// Scorer derives scores from a result and the query context. Pure apart from
// the injected clock, which tests pin for reproducible assertions.
type Scorer struct {
	Now func() time.Time
}

func NewScorer() Scorer {
	return Scorer{Now: time.Now}
}

func (s Scorer) Score(r search.Result, q search.Query) ScoredResult {
	now := s.Now()
	return ScoredResult{
		Result:     r,
		Confidence: confidence(r, q, now),
		Urgency:    urgency(r.Date, now),
		Relevance:  relevance(r, q, now),
		Category:   categorize(r.Title+" "+r.Description, q.Category),
	}
}

// Providers selling actual tickets get a trust bonus over scraped listings.
var trustedSources = map[string]struct{}{
	"ticketmaster": {},
	"eventbrite":   {},
}

// The weights below are hand-tuned and load-bearing for downstream ordering;
// adjust expectations in the tests before touching them.

func confidence(r search.Result, q search.Query, now time.Time) float64 {
	score := 0.5

	title := strings.ToLower(r.Title)
	desc := strings.ToLower(r.Description)
	category := strings.ToLower(q.Category)
	location := strings.ToLower(q.Location)

	if category != "" && strings.Contains(title, category) {
		score += 0.3
	}
	if category != "" && strings.Contains(desc, category) {
		score += 0.2
	}
	if location != "" && strings.Contains(strings.ToLower(r.Location), location) {
		score += 0.3
	}
	if !r.Date.IsZero() && r.Date.After(now) {
		score += 0.2
	}
	if r.URL != "" {
		score += 0.1
	}
	if _, ok := trustedSources[r.Source]; ok {
		score += 0.2
	}
	return math.Min(score, 1.0)
}

func urgency(date time.Time, now time.Time) float64 {
	if date.IsZero() {
		return 0.1
	}
	until := date.Sub(now)
	switch {
	case until < 0:
		return 0.2
	case until < 6*time.Hour:
		return 1.0
	case until < 24*time.Hour:
		return 0.8
	case until < 72*time.Hour:
		return 0.6
	case until < 168*time.Hour:
		return 0.4
	default:
		return 0.2
	}
}

var sourceQuality = map[string]float64{
	"ticketmaster": 0.5,
	"eventbrite":   0.45,
	"newsapi":      0.4,
	"finnhub":      0.4,
	"rss-news":     0.35,
	"openweather":  0.3,
	"websearch":    0.3,
	"reddit":       0.25,
}

const defaultSourceQuality = 0.3

func relevance(r search.Result, q search.Query, now time.Time) float64 {
	var score float64

	title := strings.ToLower(r.Title)
	category := strings.ToLower(q.Category)
	location := strings.ToLower(q.Location)

	if category != "" && strings.Contains(title, category) {
		score += 0.4
	}
	if location != "" && (strings.Contains(title, location) || strings.Contains(strings.ToLower(r.Location), location)) {
		score += 0.3
	}

	quality, ok := sourceQuality[r.Source]
	if !ok {
		quality = defaultSourceQuality
	}
	score += quality
	score += recency(r.Date, now)

	return math.Min(score, 1.0)
}

func recency(date time.Time, now time.Time) float64 {
	if date.IsZero() {
		return 0
	}
	if sameDay(date, now) {
		return 0.3
	}
	if date.Before(now) {
		return 0
	}
	until := date.Sub(now)
	switch {
	case until <= 7*24*time.Hour:
		return 0.25
	case until <= 30*24*time.Hour:
		return 0.2
	default:
		return 0.1
	}
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// Keyword buckets checked in order; the first hit wins.
var categoryKeywords = []struct {
	name  string
	words []string
}{
	{"music", []string{"music", "concert", "band", "jazz", "festival", "gig", "orchestra", "live music", "dj set"}},
	{"food", []string{"food", "restaurant", "brunch", "dinner", "tasting", "brewery", "wine", "bbq", "taco", "chef"}},
	{"tech", []string{"tech", "startup", "hackathon", "coding", "software", "developer", "robotics", "crypto"}},
	{"arts", []string{"art", "gallery", "museum", "theater", "theatre", "exhibit", "film", "poetry", "dance"}},
	{"sports", []string{"game", "match", "race", "marathon", "tournament", "basketball", "football", "soccer", "baseball"}},
	{"business", []string{"business", "networking", "conference", "summit", "pitch", "earnings", "economy"}},
	{"outdoors", []string{"park", "hike", "trail", "outdoor", "kayak", "camping", "nature"}},
	{"nightlife", []string{"bar", "club", "nightlife", "party", "happy hour"}},
	{"family", []string{"family", "kids", "children", "storytime", "zoo"}},
}

func categorize(text, fallback string) string {
	lowered := strings.ToLower(text)

	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lowered, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		words[w] = struct{}{}
	}

	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.words {
			if strings.Contains(kw, " ") {
				if strings.Contains(lowered, kw) {
					return bucket.name
				}
				continue
			}
			if _, ok := words[kw]; ok {
				return bucket.name
			}
		}
	}

	if fallback != "" {
		return strings.ToLower(fallback)
	}
	return "general"
}
