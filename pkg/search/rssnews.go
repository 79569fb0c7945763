package search

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSSNewsClient searches public news RSS feeds. It needs no credential, so it
// is always a live source. Each keyword variant is fetched sequentially to
// stay polite with the upstream; a failed variant does not abort the rest.
type RSSNewsClient struct {
	baseURL string
	parser  *gofeed.Parser
}

func NewRSSNewsClient() *RSSNewsClient {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: 10 * time.Second}
	p.UserAgent = "prospector/1.0"
	return &RSSNewsClient{
		baseURL: "https://news.google.com/rss/search",
		parser:  p,
	}
}

func (c *RSSNewsClient) Name() string { return "rss-news" }

func (c *RSSNewsClient) Configured() bool { return true }

func (c *RSSNewsClient) Eligible(q Query) bool { return true }

func (c *RSSNewsClient) Search(ctx context.Context, q Query) ([]Result, error) {
	variants := c.queryVariants(q)

	var results []Result
	seen := make(map[string]struct{})
	var lastErr error

	for i, variant := range variants {
		if i > 0 {
			// stagger sub-queries to stay under upstream rate limits
			select {
			case <-ctx.Done():
				return results, nil
			case <-time.After(200 * time.Millisecond):
			}
		}

		feedURL := c.baseURL + "?" + url.Values{"q": {variant}}.Encode()
		feed, err := c.parser.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			slog.Warn("rss sub-query failed", "source", c.Name(), "query", variant, "error", err)
			lastErr = err
			continue
		}

		for _, item := range feed.Items {
			if item.Link == "" {
				continue
			}
			if _, ok := seen[item.Link]; ok {
				continue
			}
			seen[item.Link] = struct{}{}

			r := Result{
				Title:       item.Title,
				Description: item.Description,
				URL:         item.Link,
				Source:      c.Name(),
				Platform:    "news",
				Location:    q.Location,
			}
			if item.PublishedParsed != nil {
				r.Date = *item.PublishedParsed
			}
			results = append(results, r)
		}
	}

	if len(results) == 0 && lastErr != nil {
		return nil, fmt.Errorf("rss search: %w", lastErr)
	}
	return results, nil
}

func (c *RSSNewsClient) queryVariants(q Query) []string {
	if q.Category == "" {
		return []string{q.Location + " events"}
	}
	return []string{
		q.Location + " " + q.Category,
		q.Location + " " + q.Category + " events",
	}
}
