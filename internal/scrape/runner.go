// Package scrape orchestrates one acquisition-and-aggregation cycle: every
// platform in fixed order, then cross-platform aggregation, then the history
// upsert.
package scrape

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/guarzo/ticketdesk/internal/aggregate"
	"github.com/guarzo/ticketdesk/internal/history"
	"github.com/guarzo/ticketdesk/internal/model"
	"github.com/guarzo/ticketdesk/internal/ratelimit"
)

// Source is one marketplace's scrape entry point. The bool is false when the
// platform produced no data this cycle, which is expected and non-fatal.
type Source interface {
	Name() string
	Scrape(ctx context.Context) (model.PlatformResult, bool)
}

// Runner owns the cycle state. Only one cycle runs at a time; a trigger
// while one is in flight reports the in-progress state instead of queuing.
type Runner struct {
	sources      []Source
	store        *history.Store
	pacer        *ratelimit.Pacer
	cycleTimeout time.Duration
	aisleCount   int

	mu    sync.Mutex
	state model.ScrapeState
}

func NewRunner(sources []Source, store *history.Store, pacer *ratelimit.Pacer, cycleTimeout time.Duration, aisleCount int) *Runner {
	return &Runner{
		sources:      sources,
		store:        store,
		pacer:        pacer,
		cycleTimeout: cycleTimeout,
		aisleCount:   aisleCount,
	}
}

// Start begins a background cycle if none is running. When one is already in
// flight it returns started=false and the running cycle's start time.
func (r *Runner) Start() (started bool, startedAt *time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state.Running {
		return false, r.state.StartedAt
	}

	now := time.Now().UTC()
	r.state.Running = true
	r.state.StartedAt = &now
	r.state.LastError = ""

	go r.run()
	return true, &now
}

// State returns a snapshot of the cycle state for status reporting.
func (r *Runner) State() model.ScrapeState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// run executes one full cycle sequentially. Per-platform failures are
// absorbed; only the total-acquisition failure surfaces in lastError, and in
// that case the prior persisted history is left untouched.
func (r *Runner) run() {
	defer func() {
		r.mu.Lock()
		r.state.Running = false
		r.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), r.cycleTimeout)
	defer cancel()

	log.Printf("scrape cycle started")

	active := make(map[string]model.PlatformResult)
	for i, src := range r.sources {
		if i > 0 && r.pacer != nil {
			if err := r.pacer.Pause(ctx); err != nil {
				break // cycle deadline
			}
		}
		if result, ok := src.Scrape(ctx); ok {
			active[src.Name()] = result
		}
	}

	names := make([]string, 0, len(active))
	for name := range active {
		names = append(names, name)
	}
	log.Printf("active platforms: %v", names)

	record, err := aggregate.Combine(active, time.Now())
	if err != nil {
		r.fail(err.Error())
		return
	}
	record.AisleCount = r.aisleCount

	if _, err := r.store.Upsert(record); err != nil {
		r.fail("persisting history: " + err.Error())
		return
	}

	now := time.Now().UTC()
	r.mu.Lock()
	r.state.LastSuccess = &now
	r.mu.Unlock()

	log.Printf("scrape complete: cross_median=%.0f, cross_floor=%.0f, inventory=%d",
		record.CrossMedian, record.CrossFloor, record.TotalInventory)
}

func (r *Runner) fail(reason string) {
	r.mu.Lock()
	r.state.LastError = reason
	r.mu.Unlock()
	log.Printf("scrape failed: %s", reason)
}
