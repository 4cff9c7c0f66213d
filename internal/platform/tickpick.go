package platform

import (
	"fmt"
	"time"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/relay"
)

// NewTickPick builds the TickPick scraper. TickPick shows all-in prices and
// little embedded data, so the raw-text scan carries most of the weight; the
// caller passes a tighter bounds window to compensate for the fee-inclusive
// prices.
func NewTickPick(client *fetch.Client, store *relay.Store, bounds config.Bounds, section string) *Scraper {
	src := pageSource{
		client:   client,
		platform: "tickpick",
		urls: []string{
			fmt.Sprintf("https://www.tickpick.com/buy-bruce-springsteen-tickets-madison-square-garden-5-11-26/?q=section+%s", section),
		},
	}
	return NewScraper("tickpick",
		embeddedJSONStrategy{pageSource: src, bounds: bounds},
		pageTextStrategy{pageSource: src, bounds: bounds},
		relayStrategy{store: store, platform: "tickpick", now: time.Now},
	)
}
