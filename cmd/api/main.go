package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"prospector/db"
	"prospector/internal/config"
	"prospector/internal/handler"
	"prospector/internal/repository"
	"prospector/pkg/aggregate"
	"prospector/pkg/fetch"
	"prospector/pkg/llm"
	"prospector/pkg/search"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()

	var store repository.SearchStore = repository.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			slog.Warn("database unavailable, keeping history in memory", "error", err)
		} else {
			defer conn.Close()
			store = repository.NewPostgresStore(conn)
			slog.Info("search history backed by postgres")
		}
	} else {
		slog.Info("DATABASE_URL not set, keeping history in memory")
	}

	saver := repository.NewAsyncSaver(store, nil)
	if cfg.RedisURL != "" {
		redisClient, err := db.ConnectRedis(cfg.RedisURL)
		if err != nil {
			slog.Warn("redis unavailable, saving history directly", "error", err)
		} else {
			defer redisClient.Close()
			saver = repository.NewAsyncSaver(store, redisClient)
			slog.Info("search history queued through redis")
		}
	}

	clients := []search.Client{
		search.NewTicketmasterClient(cfg.Providers.Ticketmaster),
		search.NewEventbriteClient(cfg.Providers.Eventbrite),
		search.NewNewsAPIClient(cfg.Providers.NewsAPI),
		search.NewRSSNewsClient(),
		search.NewWebSearchClient(cfg.Providers.WebSearch),
		search.NewOpenWeatherClient(cfg.Providers.OpenWeather),
		search.NewRedditClient(),
		search.NewFinnhubClient(cfg.Providers.Finnhub),
	}

	coordinator := aggregate.NewCoordinator(clients, cfg.AdapterTimeout)
	pipeline := aggregate.NewPipeline(coordinator, aggregate.NewScorer())

	var analyzer llm.Analyzer
	switch {
	case cfg.AnthropicKey != "":
		analyzer = llm.NewAnthropicClient(cfg.AnthropicKey)
		slog.Info("summaries via anthropic")
	case cfg.OpenAIKey != "":
		analyzer = llm.NewOpenAIClient(cfg.OpenAIKey)
		slog.Info("summaries via openai")
	default:
		slog.Info("no LLM key set, summaries are rule-based")
	}

	fetcher := fetch.New(fetch.Options{
		Timeout:      cfg.FetchTimeout,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	searchHandler := handler.NewSearchHandler(pipeline, store, saver, analyzer, cfg.Providers.Status(), cfg.SearchTimeout)
	extractHandler := handler.NewExtractHandler(fetcher)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.FrontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/api/search", searchHandler.Search)
	r.POST("/api/search", searchHandler.SearchPost)
	r.POST("/api/extract", extractHandler.Extract)
	r.GET("/api/history", searchHandler.GetHistory)
	r.DELETE("/api/history/:id", searchHandler.DeleteHistory)
	r.GET("/api/health", searchHandler.GetHealth)

	err := r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
