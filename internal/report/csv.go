// Package report renders the price history as CSV for spreadsheet import.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"

	"github.com/guarzo/ticketdesk/internal/model"
)

// EscapeCell protects against CSV formula injection by prefixing cells that
// a spreadsheet would interpret as a formula.
func EscapeCell(value string) string {
	if value == "" {
		return value
	}

	switch value[0] {
	case '=', '+', '-', '@', '|', '%':
		return "'" + value
	}
	if strings.HasPrefix(value, "\t") || strings.HasPrefix(value, "\r") || strings.HasPrefix(value, "\n") {
		return "'" + value
	}
	return value
}

// HistoryCSV renders the daily history, one row per recorded date.
func HistoryCSV(doc model.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"date", "cross_median", "cross_floor", "total_inventory", "platform_spread_pct", "platforms"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range doc.History {
		names := make([]string, 0, len(rec.Platforms))
		for name := range rec.Platforms {
			names = append(names, name)
		}
		sort.Strings(names)
		row := []string{
			rec.Date,
			fmt.Sprintf("%.0f", rec.CrossMedian),
			fmt.Sprintf("%.0f", rec.CrossFloor),
			fmt.Sprintf("%d", rec.TotalInventory),
			fmt.Sprintf("%.1f", rec.PlatformSpreadPct),
			EscapeCell(strings.Join(names, " ")),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
