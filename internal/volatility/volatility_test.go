package volatility

import (
	"math"
	"testing"
)

func TestCoefficient(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single point", []float64{1000}, 0},
		{"flat series", []float64{1000, 1000, 1000}, 0},
		{"zero mean", []float64{-100, 100}, 0},
		// mean 1100, sample stddev ~141.42 → CV ~0.1286
		{"two points", []float64{1000, 1200}, 0.1286},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coefficient(tt.values)
			if math.Abs(got-tt.want) > 0.0001 {
				t.Errorf("Coefficient(%v) = %.4f, want %.4f", tt.values, got, tt.want)
			}
		})
	}
}

func TestPct(t *testing.T) {
	if got := Pct([]float64{1000, 1200}); got != 12.9 {
		t.Errorf("Pct = %v, want 12.9", got)
	}
	if got := Pct([]float64{1000, 1000}); got != 0.0 {
		t.Errorf("Pct of flat series = %v, want 0", got)
	}
}
