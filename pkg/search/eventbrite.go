package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type EventbriteClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewEventbriteClient(token string) *EventbriteClient {
	return &EventbriteClient{
		token:      token,
		baseURL:    "https://www.eventbriteapi.com/v3",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *EventbriteClient) Name() string { return "eventbrite" }

func (c *EventbriteClient) Configured() bool { return c.token != "" }

func (c *EventbriteClient) Eligible(q Query) bool { return true }

func (c *EventbriteClient) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Configured() {
		return sampleResults(c.Name(), q), nil
	}

	params := url.Values{}
	params.Set("location.address", q.Location)
	params.Set("expand", "venue")
	params.Set("sort_by", "date")
	if q.Category != "" {
		params.Set("q", q.Category)
	}

	endpoint := c.baseURL + "/events/search/?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("eventbrite request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("eventbrite fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("eventbrite status %d", resp.StatusCode)
	}

	var raw ebResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("eventbrite decode: %w", err)
	}

	results := make([]Result, 0, len(raw.Events))
	for _, ev := range raw.Events {
		r := Result{
			Title:       ev.Name.Text,
			Description: ev.Description.Text,
			URL:         ev.URL,
			Source:      c.Name(),
			Platform:    "eventbrite",
			Location:    q.Location,
			ExternalID:  ev.ID,
		}
		if ev.Venue.Name != "" {
			r.Venue = ev.Venue.Name
		}
		if ev.Venue.Address.City != "" {
			r.Location = ev.Venue.Address.City
		}
		if t, err := time.Parse(time.RFC3339, ev.Start.UTC); err == nil {
			r.Date = t
		}
		if ev.IsFree {
			r.Price = "free"
		}
		results = append(results, r)
	}
	return results, nil
}

type ebResponse struct {
	Events []ebEvent `json:"events"`
}

type ebEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	URL   string `json:"url"`
	Start struct {
		UTC string `json:"utc"`
	} `json:"start"`
	IsFree bool `json:"is_free"`
	Venue  struct {
		Name    string `json:"name"`
		Address struct {
			City string `json:"city"`
		} `json:"address"`
	} `json:"venue"`
}
