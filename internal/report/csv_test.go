package report

import (
	"strings"
	"testing"

	"github.com/guarzo/ticketdesk/internal/model"
)

func TestEscapeCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"stubhub", "stubhub"},
		{"=SUM(A1)", "'=SUM(A1)"},
		{"+1234", "'+1234"},
		{"-500", "'-500"},
		{"@cmd", "'@cmd"},
		{"|pipe", "'|pipe"},
		{"\tindent", "'\tindent"},
	}
	for _, tt := range tests {
		if got := EscapeCell(tt.in); got != tt.want {
			t.Errorf("EscapeCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHistoryCSV(t *testing.T) {
	doc := model.Document{
		History: []model.DailyRecord{
			{
				Date:              "2026-05-10",
				CrossMedian:       1000,
				CrossFloor:        900,
				TotalInventory:    15,
				PlatformSpreadPct: 0,
				Platforms: map[string]model.PlatformResult{
					"tickpick": {}, "stubhub": {},
				},
			},
			{
				Date:              "2026-05-11",
				CrossMedian:       1100,
				CrossFloor:        950,
				TotalInventory:    12,
				PlatformSpreadPct: 18.2,
				Platforms: map[string]model.PlatformResult{
					"seatgeek": {},
				},
			},
		},
	}

	out, err := HistoryCSV(doc)
	if err != nil {
		t.Fatalf("HistoryCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header plus 2 rows:\n%s", len(lines), out)
	}
	if lines[0] != "date,cross_median,cross_floor,total_inventory,platform_spread_pct,platforms" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2026-05-10,1000,900,15,0.0,stubhub tickpick" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "2026-05-11,1100,950,12,18.2,seatgeek" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestHistoryCSV_Empty(t *testing.T) {
	out, err := HistoryCSV(model.Document{})
	if err != nil {
		t.Fatalf("HistoryCSV: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(out)), "\n"); len(lines) != 1 {
		t.Errorf("empty history produced %d lines, want header only", len(lines))
	}
}
