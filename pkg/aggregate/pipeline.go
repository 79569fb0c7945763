package aggregate

import (
	"context"
	"time"

	"prospector/pkg/search"
)

const defaultResultLimit = 50

// Response is the assembled output for one aggregate query.
type Response struct {
	Location         string
	Category         string
	Timeframe        string
	Results          []ScoredResult
	CountsByCategory map[string]int
	SourcesAttempted int
	SourcesSucceeded int
	TotalBeforeLimit int
	GeneratedAt      time.Time
}

// Pipeline orchestrates fan-out, scoring, dedup, and ranking. It degrades
// instead of failing: with every source down it still returns an empty,
// well-formed response.
type Pipeline struct {
	Coordinator *Coordinator
	Scorer      Scorer
}

func NewPipeline(coordinator *Coordinator, scorer Scorer) *Pipeline {
	return &Pipeline{Coordinator: coordinator, Scorer: scorer}
}

func (p *Pipeline) Run(ctx context.Context, q search.Query) Response {
	if q.Limit <= 0 {
		q.Limit = defaultResultLimit
	}

	raw, telemetry := p.Coordinator.Collect(ctx, q)
	raw = p.filterTimeframe(raw, q.Timeframe)

	scored := make([]ScoredResult, len(raw))
	for i, r := range raw {
		scored[i] = p.Scorer.Score(r, q)
	}

	ranked, total := Rank(scored, q.Limit)

	counts := make(map[string]int)
	for _, r := range ranked {
		counts[r.Category]++
	}

	return Response{
		Location:         q.Location,
		Category:         q.Category,
		Timeframe:        q.Timeframe,
		Results:          ranked,
		CountsByCategory: counts,
		SourcesAttempted: telemetry.Attempted,
		SourcesSucceeded: telemetry.Succeeded,
		TotalBeforeLimit: total,
		GeneratedAt:      p.Scorer.Now().UTC(),
	}
}

// filterTimeframe drops dated results outside the requested window; undated
// results always pass since news and web hits often carry no event date.
func (p *Pipeline) filterTimeframe(results []search.Result, timeframe string) []search.Result {
	var window time.Duration
	switch timeframe {
	case "today":
		window = 24 * time.Hour
	case "week":
		window = 7 * 24 * time.Hour
	case "month":
		window = 30 * 24 * time.Hour
	default:
		return results
	}

	now := p.Scorer.Now()
	cutoff := now.Add(window)
	filtered := make([]search.Result, 0, len(results))
	for _, r := range results {
		if r.Date.IsZero() || (r.Date.Before(cutoff) && r.Date.After(now.Add(-24*time.Hour))) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
