package aggregate

import (
	"sort"
	"strings"
	"unicode"
)

// dedupKey fingerprints a title: lowercased with everything that is not a
// letter or digit stripped, so "Jazz Night!" and "jazz night" collide.
func dedupKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Rank collapses near-duplicates and orders the survivors by the additive
// composite score. The first encounter of a duplicate wins, so input order
// (adapter registration order) is the tie-break. Returns the ranked slice
// truncated to limit and the pre-truncation total.
func Rank(results []ScoredResult, limit int) ([]ScoredResult, int) {
	seen := make(map[string]struct{}, len(results))
	deduped := make([]ScoredResult, 0, len(results))

	for _, r := range results {
		key := dedupKey(r.Title)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		r.RankScore = r.Confidence + r.Urgency + r.Relevance
		deduped = append(deduped, r)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].RankScore > deduped[j].RankScore
	})

	total := len(deduped)
	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped, total
}
