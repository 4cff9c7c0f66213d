package platform

import (
	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/relay"
)

// Registry builds the marketplace scrapers in their fixed cycle order.
// TickPick and Ticketmaster get their bounds intersected with narrower
// plausibility windows: TickPick's all-in prices and Ticketmaster's resale
// tier run hotter than the raw listing prices elsewhere.
func Registry(cfg *config.Config, client *fetch.Client, store *relay.Store) []*Scraper {
	return []*Scraper{
		NewStubHub(client, store, cfg.BoundsFor("stubhub"), cfg.Section),
		NewSeatGeek(client, store, cfg.BoundsFor("seatgeek"), cfg.Section),
		NewTickPick(client, store, narrow(cfg.BoundsFor("tickpick"), 300, 15000), cfg.Section),
		NewTicketmaster(client, store, narrow(cfg.BoundsFor("ticketmaster"), 400, 20000), cfg.Section),
	}
}

// narrow intersects a configured bounds window with a platform's plausible
// range. Configuration can tighten further but the floor of the window never
// widens past the plausibility limits.
func narrow(b config.Bounds, min, max float64) config.Bounds {
	if b.Min < min {
		b.Min = min
	}
	if b.Max > max {
		b.Max = max
	}
	return b
}
