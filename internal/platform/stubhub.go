package platform

import (
	"fmt"
	"time"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/relay"
)

// NewStubHub builds the StubHub scraper. The event page embeds JSON-LD
// listing data, so structured extraction usually lands before the raw-text
// fallback.
func NewStubHub(client *fetch.Client, store *relay.Store, bounds config.Bounds, section string) *Scraper {
	src := pageSource{
		client:   client,
		platform: "stubhub",
		urls: []string{
			fmt.Sprintf("https://www.stubhub.com/bruce-springsteen-new-york-tickets-5-11-2026/?quantity=2&sectionId=%s", section),
		},
	}
	return NewScraper("stubhub",
		embeddedJSONStrategy{pageSource: src, bounds: bounds},
		pageTextStrategy{pageSource: src, bounds: bounds},
		relayStrategy{store: store, platform: "stubhub", now: time.Now},
	)
}
