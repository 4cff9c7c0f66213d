package platform

import (
	"fmt"
	"time"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/relay"
)

// NewTicketmaster builds the Ticketmaster resale scraper. Ticketmaster
// answers on two URL patterns depending on routing, so both are tried.
func NewTicketmaster(client *fetch.Client, store *relay.Store, bounds config.Bounds, section string) *Scraper {
	src := pageSource{
		client:   client,
		platform: "ticketmaster",
		urls: []string{
			fmt.Sprintf("https://www.ticketmaster.com/event/Z7r9jZ1A7nj_G?sc_id=listings&section=%s", section),
			"https://www.ticketmaster.com/bruce-springsteen-new-york-tickets/event/Z7r9jZ1A7nj_G",
		},
	}
	return NewScraper("ticketmaster",
		embeddedJSONStrategy{pageSource: src, bounds: bounds},
		pageTextStrategy{pageSource: src, bounds: bounds},
		relayStrategy{store: store, platform: "ticketmaster", now: time.Now},
	)
}
