package search

import (
	"fmt"
	"strings"
	"time"
)

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// sampleResults is the degraded fallback for adapters running without a
// credential. The records are synthetic and tagged with a distinct
// "<provider>-sample" source label so they are never mistaken for live data.
func sampleResults(provider string, q Query) []Result {
	location := q.Location
	if location == "" {
		location = "your area"
	}
	category := q.Category
	if category == "" {
		category = "community"
	}
	title := capitalize(category)

	base := time.Now().Truncate(time.Hour)
	source := provider + "-sample"

	return []Result{
		{
			Title:       fmt.Sprintf("%s Showcase in %s", title, location),
			Description: fmt.Sprintf("Sample %s listing shown because the %s provider is not configured.", category, provider),
			URL:         fmt.Sprintf("https://example.com/%s/%s-showcase", provider, category),
			Source:      source,
			Platform:    "sample",
			Location:    location,
			Date:        base.Add(48 * time.Hour),
		},
		{
			Title:       fmt.Sprintf("Weekend %s Meetup near %s", title, location),
			Description: fmt.Sprintf("Sample %s listing shown because the %s provider is not configured.", category, provider),
			URL:         fmt.Sprintf("https://example.com/%s/%s-meetup", provider, category),
			Source:      source,
			Platform:    "sample",
			Location:    location,
			Date:        base.Add(96 * time.Hour),
		},
	}
}
