package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// OpenWeatherClient turns current conditions into a single context result so
// the ranked feed can carry an outdoor-friendliness signal for the location.
type OpenWeatherClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *OpenWeatherClient) Name() string { return "openweather" }

func (c *OpenWeatherClient) Configured() bool { return c.apiKey != "" }

func (c *OpenWeatherClient) Eligible(q Query) bool { return q.Location != "" }

func (c *OpenWeatherClient) Search(ctx context.Context, q Query) ([]Result, error) {
	if !c.Configured() {
		return sampleResults(c.Name(), q), nil
	}

	params := url.Values{}
	params.Set("q", q.Location)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")

	endpoint := c.baseURL + "/weather?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("openweather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openweather status %d", resp.StatusCode)
	}

	var raw owResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("openweather decode: %w", err)
	}

	condition := "clear"
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0].Description
	}

	return []Result{{
		Title:       fmt.Sprintf("Current conditions in %s: %s, %.0f°C", q.Location, condition, raw.Main.Temp),
		Description: fmt.Sprintf("%s with %.0f%% humidity. %s", capitalize(condition), raw.Main.Humidity, outdoorNote(raw)),
		URL:         "https://openweathermap.org/city/" + url.PathEscape(q.Location),
		Source:      c.Name(),
		Platform:    "weather",
		Location:    q.Location,
		Date:        time.Now(),
	}}, nil
}

func outdoorNote(raw owResponse) string {
	for _, w := range raw.Weather {
		switch w.Main {
		case "Rain", "Snow", "Thunderstorm", "Drizzle":
			return "Indoor events recommended."
		}
	}
	return "Good conditions for outdoor events."
}

type owResponse struct {
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
}
