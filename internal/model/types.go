package model

import "time"

// Provenance values for a PlatformResult.
const (
	SourceDirect = "direct"
	SourceRelay  = "relay"
)

// FeedSource labels records and metadata produced by the scrape pipeline,
// as opposed to hand-edited files.
const FeedSource = "scraper"

// PlatformResult is the summarized outcome of one marketplace scrape.
// Floor is the minimum observed valid price, so Floor <= Median always.
type PlatformResult struct {
	Floor       float64 `json:"floor"`
	Median      float64 `json:"median"`
	SampleCount int     `json:"sample_count"`
	Provenance  string  `json:"provenance"`
}

// DailyRecord is one calendar day's cross-platform summary. At most one
// record exists per UTC date; a re-run overwrites the earlier one.
type DailyRecord struct {
	Date              string                    `json:"date"` // YYYY-MM-DD, UTC
	Timestamp         time.Time                 `json:"timestamp"`
	CrossMedian       float64                   `json:"cross_median"`
	CrossFloor        float64                   `json:"cross_floor"`
	TotalInventory    int                       `json:"total_inventory"`
	AisleCount        int                       `json:"aisle_count"`
	PlatformSpreadPct float64                   `json:"platform_spread_pct"`
	Source            string                    `json:"source"`
	Platforms         map[string]PlatformResult `json:"platforms"`
}

// Trends holds metrics derived from the two most recent records plus
// rolling last-7 windows. InventoryWowPct is nil when there is no prior
// record or the prior inventory was zero.
type Trends struct {
	MedianSlope7d   float64   `json:"median_7d_slope"`
	FloorAccel      float64   `json:"floor_7d_accel"`
	InventoryWowPct *float64  `json:"inventory_wow_pct"`
	Volatility7dPct float64   `json:"volatility_7d_pct"`
	PriorInventory  *int      `json:"prior_inventory,omitempty"`
	Medians7d       []float64 `json:"medians_7d"`
	Floors7d        []float64 `json:"floors_7d"`
	Inventory7d     []int     `json:"inventory_7d"`
}

// Meta describes the tracked event and the service that generated the feed.
type Meta struct {
	Generated time.Time `json:"generated"`
	Event     string    `json:"event"`
	Section   string    `json:"section"`
	Row       string    `json:"row"`
	SeatType  string    `json:"seat_type"`
	Source    string    `json:"source"`
	Service   string    `json:"service"`
}

// Document is the persisted history file, consumed verbatim by the
// dashboard's /data endpoint.
type Document struct {
	Meta    Meta          `json:"meta"`
	Today   DailyRecord   `json:"today"`
	Trends  Trends        `json:"trends"`
	History []DailyRecord `json:"history"`
}

// RelayEntry is an externally supplied per-platform summary. One entry per
// platform, last submission wins, valid only for the stamped UTC date.
type RelayEntry struct {
	Platform    string    `json:"platform"`
	Floor       float64   `json:"floor"`
	Median      float64   `json:"median"`
	SampleCount int       `json:"sample_count"`
	Date        string    `json:"date"`
	Timestamp   time.Time `json:"timestamp"`
}

// ScrapeState is the operator-visible cycle state reported by /status.
type ScrapeState struct {
	Running     bool       `json:"running"`
	LastSuccess *time.Time `json:"last_success"`
	LastError   string     `json:"last_error,omitempty"`
	StartedAt   *time.Time `json:"started_at"`
}
