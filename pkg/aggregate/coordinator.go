package aggregate

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"prospector/pkg/search"
)

const defaultAdapterTimeout = 8 * time.Second

// Coordinator fans one query out across every eligible adapter. Each branch
// is isolated: a failing, panicking, or slow adapter costs only its own slot.
type Coordinator struct {
	clients        []search.Client
	adapterTimeout time.Duration
}

// Telemetry reports how the fan-out went so reduced result counts are never
// silent.
type Telemetry struct {
	Attempted int
	Succeeded int
}

func NewCoordinator(clients []search.Client, adapterTimeout time.Duration) *Coordinator {
	if adapterTimeout <= 0 {
		adapterTimeout = defaultAdapterTimeout
	}
	return &Coordinator{clients: clients, adapterTimeout: adapterTimeout}
}

// Collect runs all eligible adapters concurrently and returns whatever
// succeeded, flattened in registration order. Results are collected by index
// so dedup tie-breaking downstream stays deterministic.
func (c *Coordinator) Collect(ctx context.Context, q search.Query) ([]search.Result, Telemetry) {
	var eligible []search.Client
	for _, client := range c.clients {
		if client.Eligible(q) {
			eligible = append(eligible, client)
		}
	}

	branches := make([][]search.Result, len(eligible))
	succeeded := make([]bool, len(eligible))

	var g errgroup.Group
	for i, client := range eligible {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("adapter panicked", "source", client.Name(), "panic", r)
				}
			}()

			branchCtx, cancel := context.WithTimeout(ctx, c.adapterTimeout)
			defer cancel()

			results, err := client.Search(branchCtx, q)
			if err != nil {
				slog.Warn("source failed", "source", client.Name(), "error", err)
				return nil
			}
			branches[i] = results
			succeeded[i] = true
			return nil
		})
	}
	_ = g.Wait()

	telemetry := Telemetry{Attempted: len(eligible)}
	var flattened []search.Result
	for i, branch := range branches {
		if succeeded[i] {
			telemetry.Succeeded++
			flattened = append(flattened, branch...)
		}
	}
	return flattened, telemetry
}
