// Package aggregate combines the active platform results of one scrape
// cycle into a single cross-platform summary.
package aggregate

import (
	"fmt"
	"math"
	"time"

	"github.com/guarzo/ticketdesk/internal/model"
)

// ErrNoActivePlatforms is cycle-fatal: with zero active platforms there is
// nothing to record and the prior history must be left untouched.
var ErrNoActivePlatforms = fmt.Errorf("all platforms returned no data, likely blocked")

// Combine builds the DailyRecord candidate for one cycle from the active
// set. crossMedian is the mean of platform medians, crossFloor the minimum
// of platform floors, spread the relative dispersion of medians (0 with
// fewer than two platforms).
func Combine(active map[string]model.PlatformResult, now time.Time) (model.DailyRecord, error) {
	if len(active) == 0 {
		return model.DailyRecord{}, ErrNoActivePlatforms
	}

	var medianSum, minFloor, minMedian, maxMedian float64
	total := 0
	first := true
	for _, r := range active {
		medianSum += r.Median
		total += r.SampleCount
		if first {
			minFloor, minMedian, maxMedian = r.Floor, r.Median, r.Median
			first = false
			continue
		}
		if r.Floor < minFloor {
			minFloor = r.Floor
		}
		if r.Median < minMedian {
			minMedian = r.Median
		}
		if r.Median > maxMedian {
			maxMedian = r.Median
		}
	}

	crossMedian := math.Round(medianSum / float64(len(active)))

	spread := 0.0
	if len(active) >= 2 && crossMedian > 0 {
		spread = round1((maxMedian - minMedian) / crossMedian * 100)
	}

	platforms := make(map[string]model.PlatformResult, len(active))
	for name, r := range active {
		platforms[name] = r
	}

	utc := now.UTC()
	return model.DailyRecord{
		Date:              utc.Format("2006-01-02"),
		Timestamp:         utc,
		CrossMedian:       crossMedian,
		CrossFloor:        math.Round(minFloor),
		TotalInventory:    total,
		PlatformSpreadPct: spread,
		Source:            model.FeedSource,
		Platforms:         platforms,
	}, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
