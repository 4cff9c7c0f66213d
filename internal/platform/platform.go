// Package platform implements the per-marketplace retrieval strategy
// chains. Each scraper owns an ordered list of strategies (structured page
// extraction, raw-text extraction, relay-cache read) and returns the first
// non-empty summary, or reports "no data" when every strategy exhausts.
package platform

import (
	"context"
	"log"

	"github.com/guarzo/ticketdesk/internal/model"
)

// Status is the explicit three-way outcome of one strategy attempt.
type Status int

const (
	// Found: the strategy produced a bounds-valid summary.
	Found Status = iota
	// NotFound: the strategy ran but yielded no samples. Expected.
	NotFound
	// TransportError: timeout, non-2xx, or malformed payload. Expected,
	// logged, and chained past; never aborts the cycle.
	TransportError
)

// StrategyResult carries the outcome of a single attempt. Result is only
// meaningful when Status is Found; Err only when TransportError.
type StrategyResult struct {
	Status Status
	Result model.PlatformResult
	Err    error
}

// Strategy is one retrieval approach for a marketplace.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context) StrategyResult
}

// Scraper runs a marketplace's strategy chain in order.
type Scraper struct {
	name       string
	strategies []Strategy
}

func NewScraper(name string, strategies ...Strategy) *Scraper {
	return &Scraper{name: name, strategies: strategies}
}

func (s *Scraper) Name() string { return s.name }

// Scrape walks the chain until a strategy reports Found. Exhaustion is not
// an error: it reflects anti-scraping blocking by the target site and the
// platform simply sits out this cycle.
func (s *Scraper) Scrape(ctx context.Context) (model.PlatformResult, bool) {
	for _, strat := range s.strategies {
		if ctx.Err() != nil {
			log.Printf("%s: cycle deadline hit, abandoning chain", s.name)
			return model.PlatformResult{}, false
		}

		res := strat.Attempt(ctx)
		switch res.Status {
		case Found:
			log.Printf("%s: %s ok, %d prices, floor=%.0f, median=%.0f",
				s.name, strat.Name(), res.Result.SampleCount, res.Result.Floor, res.Result.Median)
			return res.Result, true
		case NotFound:
			log.Printf("%s: %s found no prices", s.name, strat.Name())
		case TransportError:
			log.Printf("%s: %s failed: %v", s.name, strat.Name(), res.Err)
		}
	}

	log.Printf("%s: no data this cycle", s.name)
	return model.PlatformResult{}, false
}
