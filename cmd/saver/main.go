package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"prospector/db"
	"prospector/internal/config"
	"prospector/internal/model"
	"prospector/internal/repository"
)

// The saver drains queued searches from Redis into Postgres. Payloads that
// fail to decode or to save repeatedly land on the dead-letter list so the
// queue never wedges on one bad entry.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	const maxRetries = 3

	cfg := config.Load()

	if cfg.RedisURL == "" || cfg.DatabaseURL == "" {
		log.Fatal("saver requires REDIS_URL and DATABASE_URL")
	}

	redisClient, err := db.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer conn.Close()

	store := repository.NewPostgresStore(conn)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retries := map[string]int{}

	for {
		payload, err := db.PopFromQueue(ctx, redisClient, db.SaveQueueKey, 5*time.Second)
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				slog.Info("saver shutting down")
				return
			}
			slog.Error("error popping from Redis queue", "error", err)
			time.Sleep(time.Second)
			continue
		}

		var search model.SavedSearch
		if err := json.Unmarshal([]byte(payload), &search); err != nil {
			slog.Error("invalid payload in queue, moving to dead letter", "error", err)
			deadLetter(ctx, redisClient, payload)
			continue
		}

		if err := store.Save(&search); err != nil {
			retries[payload]++
			if retries[payload] >= maxRetries {
				slog.Warn("search exceeded max retries, moving to dead letter", "location", search.Location, "retries", retries[payload])
				delete(retries, payload)
				deadLetter(ctx, redisClient, payload)
				continue
			}

			slog.Error("error saving search, requeueing", "error", err, "location", search.Location)
			db.PushToQueue(ctx, redisClient, db.SaveQueueKey, payload)
			time.Sleep(5 * time.Second)
			continue
		}

		delete(retries, payload)
		slog.Info("search saved", "id", search.ID, "location", search.Location)
	}
}

func deadLetter(ctx context.Context, client *redis.Client, payload string) {
	if err := db.PushToQueue(ctx, client, db.DeadLetterKey, payload); err != nil {
		slog.Error("error pushing to dead letter queue", "error", err)
	}
}
