// Package ratelimit provides the jittered pacer for the politeness delay
// between platform scrapes. Per-request rate limiting lives in the fetch
// client's x/time limiter.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Pacer sleeps a random duration within [Min, Max] between platform scrapes.
// The jitter reduces the chance of being blocked; it is politeness, not
// correctness.
type Pacer struct {
	Min time.Duration
	Max time.Duration
	rnd *rand.Rand
	mu  sync.Mutex
}

func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{
		Min: min,
		Max: max,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Pause blocks for a jittered delay, or returns early when the context is
// cancelled.
func (p *Pacer) Pause(ctx context.Context) error {
	p.mu.Lock()
	d := p.Min
	if span := p.Max - p.Min; span > 0 {
		d += time.Duration(p.rnd.Int63n(int64(span)))
	}
	p.mu.Unlock()

	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
