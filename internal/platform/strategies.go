package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/extract"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/model"
	"github.com/guarzo/ticketdesk/internal/relay"
	"github.com/guarzo/ticketdesk/internal/stats"
)

// pageSource retrieves a platform's listings page, trying alternate URLs in
// order (some marketplaces answer on a second URL pattern when the first is
// blocked).
type pageSource struct {
	client   *fetch.Client
	platform string
	urls     []string
}

func (p pageSource) page(ctx context.Context) (string, error) {
	var lastErr error
	for _, u := range p.urls {
		body, err := p.client.Page(ctx, p.platform, u)
		if err == nil {
			return body, nil
		}
		lastErr = err
	}
	return "", lastErr
}

// embeddedJSONStrategy extracts prices from structured data embedded in the
// page: JSON-LD blocks, Next.js __NEXT_DATA__, and other application/json
// script tags.
type embeddedJSONStrategy struct {
	pageSource
	bounds config.Bounds
}

func (s embeddedJSONStrategy) Name() string { return "embedded-json" }

func (s embeddedJSONStrategy) Attempt(ctx context.Context) StrategyResult {
	body, err := s.page(ctx)
	if err != nil {
		return StrategyResult{Status: TransportError, Err: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return StrategyResult{Status: TransportError, Err: fmt.Errorf("parsing page: %w", err)}
	}

	var prices []float64
	doc.Find(`script[type="application/json"], script[type="application/ld+json"], script#__NEXT_DATA__`).
		Each(func(i int, sel *goquery.Selection) {
			var tree any
			if err := json.Unmarshal([]byte(sel.Text()), &tree); err != nil {
				return // not valid JSON, skip the block
			}
			prices = append(prices, extract.FromTree(tree, s.bounds)...)
		})

	return summarize(prices, model.SourceDirect)
}

// pageTextStrategy scans the raw markup for dollar amounts. The fallback for
// platforms that return unstructured pages; the page cache makes the re-read
// after a structured miss cheap.
type pageTextStrategy struct {
	pageSource
	bounds config.Bounds
}

func (s pageTextStrategy) Name() string { return "page-text" }

func (s pageTextStrategy) Attempt(ctx context.Context) StrategyResult {
	body, err := s.page(ctx)
	if err != nil {
		return StrategyResult{Status: TransportError, Err: err}
	}
	return summarize(extract.FromText(body, s.bounds), model.SourceDirect)
}

// relayStrategy is the last resort: an externally submitted summary for this
// platform, usable only while its stamped UTC date is still today.
type relayStrategy struct {
	store    *relay.Store
	platform string
	now      func() time.Time
}

func (s relayStrategy) Name() string { return "relay-cache" }

func (s relayStrategy) Attempt(ctx context.Context) StrategyResult {
	today := s.now().UTC().Format("2006-01-02")
	entry, ok := s.store.Lookup(s.platform, today)
	if !ok {
		return StrategyResult{Status: NotFound}
	}
	return StrategyResult{
		Status: Found,
		Result: model.PlatformResult{
			Floor:       entry.Floor,
			Median:      entry.Median,
			SampleCount: entry.SampleCount,
			Provenance:  model.SourceRelay,
		},
	}
}

func summarize(prices []float64, provenance string) StrategyResult {
	summary, ok := stats.Summarize(prices)
	if !ok {
		return StrategyResult{Status: NotFound}
	}
	return StrategyResult{
		Status: Found,
		Result: model.PlatformResult{
			Floor:       summary.Floor,
			Median:      summary.Median,
			SampleCount: summary.Count,
			Provenance:  provenance,
		},
	}
}
