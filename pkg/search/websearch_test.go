package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestWebSearchQuery(t *testing.T) {
	payload := map[string]interface{}{
		"organic_results": []map[string]interface{}{
			{
				"title":   "Top things to do in Austin this week",
				"snippet": "Concerts, markets, and more",
				"link":    "https://example.com/austin-guide",
			},
			{
				"title":   "Austin music calendar",
				"snippet": "Every venue, every night",
				"link":    "https://example.com/calendar",
			},
		},
	}

	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	client := &WebSearchClient{
		apiKey:     "test-key",
		baseURL:    srv.URL,
		httpClient: srv.Client(),
	}

	results, err := client.Search(context.Background(), Query{Location: "Austin", Category: "music"})

	assert.Equal(t, nil, err)
	assert.Equal(t, "test-key", gotQuery.Get("api_key"))
	assert.Equal(t, "Austin music events", gotQuery.Get("q"))
	assert.Equal(t, 2, len(results))

	first := results[0]
	assert.Equal(t, "Top things to do in Austin this week", first.Title)
	assert.Equal(t, "Concerts, markets, and more", first.Description)
	assert.Equal(t, "https://example.com/austin-guide", first.URL)
	assert.Equal(t, "websearch", first.Source)
	assert.Equal(t, "web", first.Platform)
	assert.Equal(t, "Austin", first.Location)
}

func TestWebSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := &WebSearchClient{apiKey: "test-key", baseURL: srv.URL, httpClient: srv.Client()}

	_, err := client.Search(context.Background(), Query{Location: "Austin"})
	assert.NotEqual(t, nil, err)
}
