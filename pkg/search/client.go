package search

import (
	"context"
	"time"
)

// Query is one logical search fanned out across all eligible providers.
type Query struct {
	Location  string
	Category  string
	Timeframe string
	Limit     int
}

// Result is the provider-normalized record every adapter produces. Raw
// provider payloads never leave their adapter.
type Result struct {
	Title       string
	Description string
	URL         string
	Source      string
	Platform    string
	Location    string
	Venue       string
	Date        time.Time
	Price       string
	ExternalID  string
}

// Client is one upstream provider. Search must never panic across this
// boundary; internal failures come back as an error and the caller treats
// the provider as failed-empty.
type Client interface {
	Search(ctx context.Context, q Query) ([]Result, error)
	Name() string
	Configured() bool
	Eligible(q Query) bool
}
