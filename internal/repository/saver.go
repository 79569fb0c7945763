package repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"prospector/db"
	"prospector/internal/model"
)

// AsyncSaver appends saved searches without ever failing the caller. When a
// Redis queue is available the payload goes there for the saver worker;
// otherwise it goes straight to the store. Failures are logged and dropped.
type AsyncSaver struct {
	store SearchStore
	queue *redis.Client
}

func NewAsyncSaver(store SearchStore, queue *redis.Client) *AsyncSaver {
	return &AsyncSaver{store: store, queue: queue}
}

func (s *AsyncSaver) SaveAsync(search model.SavedSearch) {
	go func() {
		if s.queue != nil {
			payload, err := json.Marshal(search)
			if err != nil {
				slog.Error("error encoding saved search", "error", err)
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			if err := db.PushToQueue(ctx, s.queue, db.SaveQueueKey, string(payload)); err == nil {
				return
			} else {
				slog.Warn("error pushing saved search to queue, writing directly", "error", err)
			}
		}

		if err := s.store.Save(&search); err != nil {
			slog.Error("error saving search", "error", err)
		}
	}()
}
