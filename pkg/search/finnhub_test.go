package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"
	"github.com/go-playground/assert/v2"
)

func TestFinnhubFiltersByQueryTerms(t *testing.T) {
	payload := []map[string]interface{}{
		{
			"id":       101,
			"headline": "Austin startup raises Series B",
			"summary":  "Robotics company closes funding round",
			"url":      "https://example.com/austin-startup",
			"source":   "Newswire",
			"datetime": 1756166400,
			"category": "general",
		},
		{
			"id":       102,
			"headline": "Global oil prices dip",
			"summary":  "Crude slides on supply news",
			"url":      "https://example.com/oil",
			"source":   "Newswire",
			"datetime": 1756166400,
			"category": "general",
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	cfg := finnhub.NewConfiguration()
	cfg.Servers = finnhub.ServerConfigurations{{URL: srv.URL}}
	cfg.HTTPClient = srv.Client()
	client := &FinnhubClient{
		apiKey: "test-key",
		client: finnhub.NewAPIClient(cfg).DefaultApi,
	}

	results, err := client.Search(context.Background(), Query{Location: "Austin", Category: "business"})

	assert.Equal(t, nil, err)
	// the oil headline matches neither location nor category and is dropped
	assert.Equal(t, 1, len(results))

	r := results[0]
	assert.Equal(t, "Austin startup raises Series B", r.Title)
	assert.Equal(t, "Robotics company closes funding round", r.Description)
	assert.Equal(t, "https://example.com/austin-startup", r.URL)
	assert.Equal(t, "finnhub", r.Source)
	assert.Equal(t, "news", r.Platform)
	assert.Equal(t, "Newswire", r.Venue)
	assert.Equal(t, "101", r.ExternalID)
}

func TestMatchesAny(t *testing.T) {
	r := Result{Title: "Austin startup raises Series B", Description: "Robotics funding"}

	assert.Equal(t, true, matchesAny(r, []string{"austin"}))
	assert.Equal(t, true, matchesAny(r, []string{"nowhere", "robotics"}))
	assert.Equal(t, false, matchesAny(r, []string{"nowhere"}))
	// no terms means nothing to filter on
	assert.Equal(t, true, matchesAny(r, nil))
}
