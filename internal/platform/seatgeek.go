package platform

import (
	"fmt"
	"time"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/relay"
)

// NewSeatGeek builds the SeatGeek scraper. SeatGeek ships listing data in a
// __NEXT_DATA__ script block.
func NewSeatGeek(client *fetch.Client, store *relay.Store, bounds config.Bounds, section string) *Scraper {
	src := pageSource{
		client:   client,
		platform: "seatgeek",
		urls: []string{
			fmt.Sprintf("https://seatgeek.com/bruce-springsteen-tickets/new-york-new-york-madison-square-garden-2026-05-11-20-00?range=%s", sectionRange(section)),
		},
	}
	return NewScraper("seatgeek",
		embeddedJSONStrategy{pageSource: src, bounds: bounds},
		pageTextStrategy{pageSource: src, bounds: bounds},
		relayStrategy{store: store, platform: "seatgeek", now: time.Now},
	)
}

// sectionRange maps a section number to SeatGeek's level filter ("224" is in
// the 200s).
func sectionRange(section string) string {
	if section == "" {
		return "200s"
	}
	return section[:1] + "00s"
}
