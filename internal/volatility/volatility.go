// Package volatility scores the day-to-day instability of the cross-platform
// median. High volatility means observed prices are noisy and a single day's
// floor should be trusted less.
package volatility

import "math"

// Coefficient returns the coefficient of variation (sample standard
// deviation over mean) of the given series. It needs at least two points;
// with fewer, or a zero mean, the score is 0.
func Coefficient(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}

	var varianceSum float64
	for _, v := range values {
		diff := v - mean
		varianceSum += diff * diff
	}
	variance := varianceSum / float64(len(values)-1)

	return math.Sqrt(variance) / mean
}

// Pct is Coefficient expressed as a percentage, rounded to one decimal.
func Pct(values []float64) float64 {
	return math.Round(Coefficient(values)*1000) / 10
}
