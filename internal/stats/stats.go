// Package stats computes per-platform summary statistics from raw price
// samples.
package stats

import (
	"math"
	"sort"
)

// Summary is the floor/median/count triple for one platform. Count is the
// deduplicated sample count.
type Summary struct {
	Floor  float64
	Median float64
	Count  int
}

// Summarize deduplicates the raw samples (identical extracted prices are one
// listing signal, mirrored fields would otherwise re-count), sorts, and
// returns floor and median rounded to the nearest whole dollar.
//
// The second return value is false when there are no samples. That is not an
// error: it means the platform is inactive for this cycle.
func Summarize(prices []float64) (Summary, bool) {
	if len(prices) == 0 {
		return Summary{}, false
	}

	seen := make(map[float64]bool, len(prices))
	deduped := make([]float64, 0, len(prices))
	for _, p := range prices {
		if !seen[p] {
			seen[p] = true
			deduped = append(deduped, p)
		}
	}
	sort.Float64s(deduped)

	n := len(deduped)
	mid := n / 2
	var median float64
	if n%2 == 1 {
		median = deduped[mid]
	} else {
		median = (deduped[mid-1] + deduped[mid]) / 2
	}

	return Summary{
		Floor:  math.Round(deduped[0]),
		Median: math.Round(median),
		Count:  n,
	}, true
}
