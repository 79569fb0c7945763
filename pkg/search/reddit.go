package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

// RedditClient searches the public JSON search endpoint. No credential is
// required, but upstream errors still degrade the adapter to failed-empty.
type RedditClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRedditClient() *RedditClient {
	return &RedditClient{
		baseURL:    "https://www.reddit.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RedditClient) Name() string { return "reddit" }

func (c *RedditClient) Configured() bool { return true }

func (c *RedditClient) Eligible(q Query) bool { return true }

func (c *RedditClient) Search(ctx context.Context, q Query) ([]Result, error) {
	terms := []string{q.Location}
	if q.Category != "" {
		terms = append(terms, q.Category)
	}

	params := url.Values{}
	params.Set("q", strings.Join(terms, " "))
	params.Set("sort", "new")
	params.Set("limit", "20")
	params.Set("restrict_sr", "false")

	endpoint := c.baseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	req.Header.Set("User-Agent", "prospector/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit status %d", resp.StatusCode)
	}

	var raw rdResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("reddit decode: %w", err)
	}

	results := make([]Result, 0, len(raw.Data.Children))
	for _, child := range raw.Data.Children {
		post := child.Data
		link := post.URL
		if link == "" || strings.HasPrefix(link, "/r/") {
			link = c.baseURL + post.Permalink
		}
		results = append(results, Result{
			Title:       post.Title,
			Description: truncate(post.Selftext, 280),
			URL:         link,
			Source:      c.Name(),
			Platform:    "reddit",
			Location:    q.Location,
			Venue:       "r/" + post.Subreddit,
			Date:        time.Unix(int64(post.CreatedUTC), 0),
			ExternalID:  post.ID,
		})
	}
	return results, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back up to a rune boundary so the cut never splits a code point
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

type rdResponse struct {
	Data struct {
		Children []struct {
			Data rdPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rdPost struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Selftext   string  `json:"selftext"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Subreddit  string  `json:"subreddit"`
	CreatedUTC float64 `json:"created_utc"`
}
