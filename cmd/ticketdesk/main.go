package main

import (
	"log"

	"github.com/robfig/cron/v3"

	"github.com/guarzo/ticketdesk/internal/cache"
	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/fetch"
	"github.com/guarzo/ticketdesk/internal/history"
	"github.com/guarzo/ticketdesk/internal/model"
	"github.com/guarzo/ticketdesk/internal/platform"
	"github.com/guarzo/ticketdesk/internal/ratelimit"
	"github.com/guarzo/ticketdesk/internal/relay"
	"github.com/guarzo/ticketdesk/internal/scrape"
	"github.com/guarzo/ticketdesk/internal/server"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	pageCache, err := cache.New(cfg.CacheFile)
	if err != nil {
		log.Printf("page cache unavailable, continuing without: %v", err)
		pageCache = nil
	}

	relayStore, err := relay.NewStore(cfg.RelayFile, cfg.PriceBounds)
	if err != nil {
		log.Fatalf("relay store: %v", err)
	}

	client := fetch.New(cfg.RequestTimeout, pageCache)
	scrapers := platform.Registry(cfg, client, relayStore)

	sources := make([]scrape.Source, len(scrapers))
	for i, s := range scrapers {
		sources[i] = s
	}

	histStore := history.NewStore(cfg.DataFile, model.Meta{
		Event:    cfg.Event,
		Section:  cfg.Section,
		Row:      cfg.Row,
		SeatType: cfg.SeatType,
		Source:   model.FeedSource,
		Service:  cfg.Service,
	})

	pacer := ratelimit.NewPacer(cfg.PacingMin, cfg.PacingMax)
	runner := scrape.NewRunner(sources, histStore, pacer, cfg.CycleTimeout, cfg.AisleCount)

	if cfg.ScrapeCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.ScrapeCron, func() { runner.Start() }); err != nil {
			log.Fatalf("invalid SCRAPE_CRON %q: %v", cfg.ScrapeCron, err)
		}
		c.Start()
		log.Printf("scheduled scrape: %s", cfg.ScrapeCron)
	}

	engine := server.New(cfg, runner, histStore, relayStore)
	log.Printf("%s listening on :%s", cfg.Service, cfg.Port)
	if err := engine.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
