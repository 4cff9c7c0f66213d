package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Bounds is the inclusive price-validity window. Values outside it are
// treated as other inventory tiers (suites, pit seats), not errors.
type Bounds struct {
	Min float64
	Max float64
}

// Contains reports whether v is a plausible price for this window.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

type Config struct {
	Port        string
	ScrapeToken string

	// Global price-validity bounds, with optional per-platform overrides
	// (PRICE_MIN_TICKPICK etc.). Bounds are configuration, not domain
	// constants: the plausible window differs per marketplace.
	PriceBounds    Bounds
	platformBounds map[string]Bounds

	// Politeness delay range between platform scrapes within a cycle.
	PacingMin time.Duration
	PacingMax time.Duration

	RequestTimeout time.Duration
	CycleTimeout   time.Duration

	DataFile  string
	RelayFile string
	CacheFile string

	// Optional cron expression; when set, a scrape cycle is scheduled
	// in addition to the /scrape trigger.
	ScrapeCron string

	// Metadata for the persisted feed. AisleCount is maintained by hand:
	// nothing scrapeable tracks which listings are aisle seats.
	Event      string
	Section    string
	Row        string
	SeatType   string
	Service    string
	AisleCount int
}

// Load reads configuration from the environment, after loading .env if one
// exists. Real environment variables win over .env values.
func Load() *Config {
	_ = godotenv.Load()

	global := Bounds{
		Min: getFloat("PRICE_MIN", 200),
		Max: getFloat("PRICE_MAX", 20000),
	}

	cfg := &Config{
		Port:           getEnv("PORT", "10000"),
		ScrapeToken:    getEnv("SCRAPE_TOKEN", "changeme"),
		PriceBounds:    global,
		platformBounds: make(map[string]Bounds),
		PacingMin:      getDuration("PACING_MIN_MS", 2000*time.Millisecond),
		PacingMax:      getDuration("PACING_MAX_MS", 5000*time.Millisecond),
		RequestTimeout: getDuration("REQUEST_TIMEOUT_MS", 25*time.Second),
		CycleTimeout:   getDuration("CYCLE_TIMEOUT_MS", 5*time.Minute),
		DataFile:       getEnv("DATA_FILE", "ticket_data.json"),
		RelayFile:      getEnv("RELAY_FILE", "relay_cache.json"),
		CacheFile:      getEnv("CACHE_FILE", "fetch_cache.json"),
		ScrapeCron:     getEnv("SCRAPE_CRON", ""),
		Event:          getEnv("EVENT", "Bruce Springsteen · MSG · May 11, 2026"),
		Section:        getEnv("SECTION", "224"),
		Row:            getEnv("ROW", "17"),
		SeatType:       getEnv("SEAT_TYPE", "Aisle"),
		Service:        getEnv("SERVICE_NAME", "Ticket Desk v1.0"),
		AisleCount:     getInt("AISLE_COUNT", 2),
	}

	if cfg.PacingMax < cfg.PacingMin {
		cfg.PacingMax = cfg.PacingMin
	}

	return cfg
}

// BoundsFor returns the bounds for a platform, honoring PRICE_MIN_<NAME> /
// PRICE_MAX_<NAME> overrides and falling back to the global window.
func (c *Config) BoundsFor(platform string) Bounds {
	key := strings.ToUpper(platform)
	if b, ok := c.platformBounds[key]; ok {
		return b
	}

	b := c.PriceBounds
	if v, ok := lookupFloat("PRICE_MIN_" + key); ok {
		b.Min = v
	}
	if v, ok := lookupFloat("PRICE_MAX_" + key); ok {
		b.Max = v
	}
	c.platformBounds[key] = b
	return b
}

// SetPlatformBounds overrides the bounds for one platform. Used by the
// default registry for marketplaces with known tighter windows.
func (c *Config) SetPlatformBounds(platform string, b Bounds) {
	c.platformBounds[strings.ToUpper(platform)] = b
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := lookupFloat(key); ok {
		return v
	}
	return fallback
}

func lookupFloat(key string) (float64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

// Validate catches configurations that would make every extraction fail.
func (c *Config) Validate() error {
	if c.PriceBounds.Min < 0 || c.PriceBounds.Max <= c.PriceBounds.Min {
		return fmt.Errorf("invalid price bounds: min=%.2f max=%.2f", c.PriceBounds.Min, c.PriceBounds.Max)
	}
	return nil
}
