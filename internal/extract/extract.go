// Package extract pulls listing prices out of heterogeneous marketplace
// responses: structured JSON trees first, raw markup as a fallback.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/guarzo/ticketdesk/internal/config"
)

// Field names that carry a listing price across the marketplaces we poll.
// Matched case-insensitively; mirrored fields produce duplicates that the
// stats layer collapses.
var priceKeys = map[string]bool{
	"price":         true,
	"amount":        true,
	"cost":          true,
	"sellingprice":  true,
	"saleprice":     true,
	"listprice":     true,
	"listingprice":  true,
	"currentprice":  true,
	"minprice":      true,
	"displayprice":  true,
	"rawprice":      true,
	"totalprice":    true,
}

var moneyPattern = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d{2})?)`)

// FromTree walks an arbitrary decoded JSON value and collects every numeric
// value reachable under a price-like key, within bounds. String-typed
// numbers ("$1,234.50") are coerced. Out-of-range values are dropped
// silently: they are other inventory tiers, not extraction failures.
func FromTree(v any, bounds config.Bounds) []float64 {
	var prices []float64
	walk(v, false, bounds, &prices)
	return prices
}

func walk(v any, underPriceKey bool, bounds config.Bounds, out *[]float64) {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			walk(child, isPriceKey(k), bounds, out)
		}
	case []any:
		for _, child := range t {
			walk(child, underPriceKey, bounds, out)
		}
	case float64:
		if underPriceKey && bounds.Contains(t) {
			*out = append(*out, t)
		}
	case string:
		if !underPriceKey {
			return
		}
		if p, ok := coerce(t); ok && bounds.Contains(p) {
			*out = append(*out, p)
		}
	}
}

func isPriceKey(k string) bool {
	return priceKeys[strings.ToLower(k)]
}

// coerce parses a string-typed price, stripping currency symbols and
// thousands separators.
func coerce(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FromText scans raw markup for dollar amounts and applies the same bounds
// filter. Used when structured extraction yields nothing.
func FromText(text string, bounds config.Bounds) []float64 {
	if text == "" {
		return nil
	}

	var prices []float64
	for _, m := range moneyPattern.FindAllStringSubmatch(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		if bounds.Contains(v) {
			prices = append(prices, v)
		}
	}
	return prices
}
