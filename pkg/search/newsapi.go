package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:     apiKey,
		baseURL:    "https://newsapi.org/v2",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *NewsAPIClient) Name() string { return "newsapi" }

func (c *NewsAPIClient) Configured() bool { return c.apiKey != "" }

func (c *NewsAPIClient) Eligible(q Query) bool { return true }

func (c *NewsAPIClient) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Configured() {
		return sampleResults(c.Name(), q), nil
	}

	terms := []string{q.Location}
	if q.Category != "" {
		terms = append(terms, q.Category)
	}

	params := url.Values{}
	params.Set("q", strings.Join(terms, " "))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", "20")
	params.Set("language", "en")

	endpoint := c.baseURL + "/everything?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi status %d", resp.StatusCode)
	}

	var raw naResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}

	results := make([]Result, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		r := Result{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      c.Name(),
			Platform:    "news",
			Location:    q.Location,
		}
		if a.Source.Name != "" {
			r.Venue = a.Source.Name
		}
		if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
			r.Date = t
		}
		results = append(results, r)
	}
	return results, nil
}

type naResponse struct {
	Status   string      `json:"status"`
	Articles []naArticle `json:"articles"`
}

type naArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}
