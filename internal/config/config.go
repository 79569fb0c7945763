package config

import (
	"os"
	"strconv"
	"time"
)

// ProviderKeys holds upstream credentials. An empty key switches that
// adapter to its degraded sample mode.
type ProviderKeys struct {
	Ticketmaster string
	Eventbrite   string
	NewsAPI      string
	Finnhub      string
	OpenWeather  string
	WebSearch    string
}

// Status reports which providers are configured, booleans only. Safe to
// expose on the health endpoint.
func (p ProviderKeys) Status() map[string]bool {
	return map[string]bool{
		"ticketmaster": p.Ticketmaster != "",
		"eventbrite":   p.Eventbrite != "",
		"newsapi":      p.NewsAPI != "",
		"finnhub":      p.Finnhub != "",
		"openweather":  p.OpenWeather != "",
		"websearch":    p.WebSearch != "",
		"rss-news":     true,
		"reddit":       true,
	}
}

type Config struct {
	Port        string
	FrontendURL string
	DatabaseURL string
	RedisURL    string

	Providers    ProviderKeys
	AnthropicKey string
	OpenAIKey    string

	AdapterTimeout time.Duration
	SearchTimeout  time.Duration
	FetchTimeout   time.Duration
	MaxBodyBytes   int64
}

// Load reads the full configuration from the environment once at startup.
// Request handlers never touch the environment directly.
func Load() Config {
	return Config{
		Port:        envOr("PORT", "8080"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		Providers: ProviderKeys{
			Ticketmaster: os.Getenv("TICKETMASTER_API_KEY"),
			Eventbrite:   os.Getenv("EVENTBRITE_TOKEN"),
			NewsAPI:      os.Getenv("NEWSAPI_KEY"),
			Finnhub:      os.Getenv("FINNHUB_API_KEY"),
			OpenWeather:  os.Getenv("OPENWEATHER_API_KEY"),
			WebSearch:    os.Getenv("SERPAPI_KEY"),
		},
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),

		AdapterTimeout: envDuration("ADAPTER_TIMEOUT", 8*time.Second),
		SearchTimeout:  envDuration("SEARCH_TIMEOUT", 15*time.Second),
		FetchTimeout:   envDuration("FETCH_TIMEOUT", 10*time.Second),
		MaxBodyBytes:   envInt64("FETCH_MAX_BODY_BYTES", 10<<20),
	}
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envDuration(name string, fallback time.Duration) time.Duration {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envInt64(name string, fallback int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
