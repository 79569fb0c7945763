package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
)

// FinnhubClient supplies business-news context results. It is only eligible
// for business/tech queries; market headlines are noise everywhere else.
type FinnhubClient struct {
	apiKey string
	client *finnhub.DefaultApiService
}

func NewFinnhubClient(apiKey string) *FinnhubClient {
	c := &FinnhubClient{apiKey: apiKey}
	if apiKey != "" {
		cfg := finnhub.NewConfiguration()
		cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
		c.client = finnhub.NewAPIClient(cfg).DefaultApi
	}
	return c
}

func (c *FinnhubClient) Name() string { return "finnhub" }

func (c *FinnhubClient) Configured() bool { return c.apiKey != "" }

func (c *FinnhubClient) Eligible(q Query) bool {
	return q.Category == "business" || q.Category == "tech"
}

func (c *FinnhubClient) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Configured() {
		return sampleResults(c.Name(), q), nil
	}

	news, _, err := c.client.MarketNews(ctx).Category("general").Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub fetch: %w", err)
	}

	terms := searchTerms(q)
	var results []Result
	for _, item := range news {
		r := Result{
			Source:   c.Name(),
			Platform: "news",
			Location: q.Location,
		}
		if item.Headline != nil {
			r.Title = *item.Headline
		}
		if item.Summary != nil {
			r.Description = *item.Summary
		}
		if item.Url != nil {
			r.URL = *item.Url
		}
		if item.Source != nil {
			r.Venue = *item.Source
		}
		if item.Datetime != nil {
			r.Date = time.Unix(*item.Datetime, 0)
		}
		if item.Id != nil {
			r.ExternalID = strconv.FormatInt(*item.Id, 10)
		}

		if r.Title == "" || !matchesAny(r, terms) {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func searchTerms(q Query) []string {
	var terms []string
	if q.Location != "" {
		terms = append(terms, strings.ToLower(q.Location))
	}
	if q.Category != "" {
		terms = append(terms, strings.ToLower(q.Category))
	}
	return terms
}

func matchesAny(r Result, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(r.Title + " " + r.Description)
	for _, term := range terms {
		if strings.Contains(haystack, term) {
			return true
		}
	}
	return false
}
