package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type TicketmasterClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewTicketmasterClient(apiKey string) *TicketmasterClient {
	return &TicketmasterClient{
		apiKey:     apiKey,
		baseURL:    "https://app.ticketmaster.com/discovery/v2",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *TicketmasterClient) Name() string { return "ticketmaster" }

func (c *TicketmasterClient) Configured() bool { return c.apiKey != "" }

func (c *TicketmasterClient) Eligible(q Query) bool { return true }

func (c *TicketmasterClient) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Configured() {
		return sampleResults(c.Name(), q), nil
	}

	params := url.Values{}
	params.Set("apikey", c.apiKey)
	params.Set("city", q.Location)
	params.Set("sort", "date,asc")
	params.Set("size", "20")
	if q.Category != "" {
		params.Set("keyword", q.Category)
	}

	endpoint := c.baseURL + "/events.json?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ticketmaster fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ticketmaster status %d", resp.StatusCode)
	}

	var raw tmResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("ticketmaster decode: %w", err)
	}

	results := make([]Result, 0, len(raw.Embedded.Events))
	for _, ev := range raw.Embedded.Events {
		results = append(results, c.normalize(ev, q))
	}
	return results, nil
}

func (c *TicketmasterClient) normalize(ev tmEvent, q Query) Result {
	r := Result{
		Title:      ev.Name,
		URL:        ev.URL,
		Source:     c.Name(),
		Platform:   "ticketmaster",
		Location:   q.Location,
		ExternalID: ev.ID,
	}

	if ev.Info != "" {
		r.Description = ev.Info
	} else if len(ev.Classifications) > 0 {
		r.Description = ev.Classifications[0].Segment.Name
	}

	if len(ev.Embedded.Venues) > 0 {
		v := ev.Embedded.Venues[0]
		r.Venue = v.Name
		if v.City.Name != "" {
			r.Location = v.City.Name
		}
	}

	if ev.Dates.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.Dates.Start.DateTime); err == nil {
			r.Date = t
		}
	} else if ev.Dates.Start.LocalDate != "" {
		if t, err := time.Parse("2006-01-02", ev.Dates.Start.LocalDate); err == nil {
			r.Date = t
		}
	}

	if len(ev.PriceRanges) > 0 {
		pr := ev.PriceRanges[0]
		r.Price = fmt.Sprintf("%.2f-%.2f %s", pr.Min, pr.Max, pr.Currency)
	}

	return r
}

type tmResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	URL   string `json:"url"`
	Info  string `json:"info"`
	Dates struct {
		Start struct {
			DateTime  string `json:"dateTime"`
			LocalDate string `json:"localDate"`
		} `json:"start"`
	} `json:"dates"`
	Classifications []struct {
		Segment struct {
			Name string `json:"name"`
		} `json:"segment"`
	} `json:"classifications"`
	PriceRanges []struct {
		Min      float64 `json:"min"`
		Max      float64 `json:"max"`
		Currency string  `json:"currency"`
	} `json:"priceRanges"`
	Embedded struct {
		Venues []struct {
			Name string `json:"name"`
			City struct {
				Name string `json:"name"`
			} `json:"city"`
		} `json:"venues"`
	} `json:"_embedded"`
}
