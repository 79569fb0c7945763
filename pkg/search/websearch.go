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

type WebSearchClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewWebSearchClient(apiKey string) *WebSearchClient {
	return &WebSearchClient{
		apiKey:     apiKey,
		baseURL:    "https://serpapi.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *WebSearchClient) Name() string { return "websearch" }

func (c *WebSearchClient) Configured() bool { return c.apiKey != "" }

func (c *WebSearchClient) Eligible(q Query) bool { return true }

func (c *WebSearchClient) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Configured() {
		return sampleResults(c.Name(), q), nil
	}

	terms := []string{q.Location}
	if q.Category != "" {
		terms = append(terms, q.Category)
	}
	terms = append(terms, "events")

	params := url.Values{}
	params.Set("q", strings.Join(terms, " "))
	params.Set("api_key", c.apiKey)
	params.Set("num", "20")

	endpoint := c.baseURL + "/search.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("websearch request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch status %d", resp.StatusCode)
	}

	var raw wsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("websearch decode: %w", err)
	}

	results := make([]Result, 0, len(raw.OrganicResults))
	for _, item := range raw.OrganicResults {
		results = append(results, Result{
			Title:       item.Title,
			Description: item.Snippet,
			URL:         item.Link,
			Source:      c.Name(),
			Platform:    "web",
			Location:    q.Location,
		})
	}
	return results, nil
}

type wsResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}
