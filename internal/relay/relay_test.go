package relay

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/guarzo/ticketdesk/internal/config"
)

func fptr(v float64) *float64 { return &v }

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "relay.json"), config.Bounds{Min: 200, Max: 20000})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

func TestIngest_Valid(t *testing.T) {
	s := testStore(t)
	s.now = func() time.Time { return time.Date(2026, 5, 11, 18, 0, 0, 0, time.UTC) }

	entry, err := s.Ingest(Submission{Platform: "StubHub", Floor: fptr(850), Median: fptr(1100), SampleCount: 9})
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if entry.Platform != "stubhub" {
		t.Errorf("Platform = %q, want lowered stubhub", entry.Platform)
	}
	if entry.Date != "2026-05-11" {
		t.Errorf("Date = %q, want 2026-05-11", entry.Date)
	}

	got, ok := s.Lookup("stubhub", "2026-05-11")
	if !ok {
		t.Fatal("Lookup after ingest: not found")
	}
	if got.Floor != 850 || got.Median != 1100 || got.SampleCount != 9 {
		t.Errorf("Lookup = %+v, want floor 850, median 1100, count 9", got)
	}
}

func TestIngest_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		sub     Submission
		wantErr string
	}{
		{"missing platform", Submission{Floor: fptr(900), Median: fptr(1000)}, "platform"},
		{"missing floor", Submission{Platform: "stubhub", Median: fptr(1000)}, "required"},
		{"missing median", Submission{Platform: "stubhub", Floor: fptr(900)}, "required"},
		{"floor below range", Submission{Platform: "stubhub", Floor: fptr(150), Median: fptr(1000)}, "outside valid range"},
		{"median above range", Submission{Platform: "stubhub", Floor: fptr(900), Median: fptr(25000)}, "outside valid range"},
		{"negative count", Submission{Platform: "stubhub", Floor: fptr(900), Median: fptr(1000), SampleCount: -1}, "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testStore(t)
			_, err := s.Ingest(tt.sub)
			if err == nil {
				t.Fatal("Ingest() error = nil, want rejection")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if _, ok := s.Lookup("stubhub", s.now().UTC().Format("2006-01-02")); ok {
				t.Error("rejected submission was stored")
			}
		})
	}
}

func TestIngest_LastWriteWins(t *testing.T) {
	s := testStore(t)

	if _, err := s.Ingest(Submission{Platform: "tickpick", Floor: fptr(700), Median: fptr(800), SampleCount: 3}); err != nil {
		t.Fatalf("first Ingest: %v", err)
	}
	if _, err := s.Ingest(Submission{Platform: "tickpick", Floor: fptr(750), Median: fptr(900), SampleCount: 5}); err != nil {
		t.Fatalf("second Ingest: %v", err)
	}

	got, ok := s.Lookup("tickpick", time.Now().UTC().Format("2006-01-02"))
	if !ok {
		t.Fatal("Lookup: not found")
	}
	if got.Floor != 750 || got.Median != 900 {
		t.Errorf("Lookup = %+v, want the later submission (750/900)", got)
	}
}

func TestLookup_StaleDateIsAbsent(t *testing.T) {
	s := testStore(t)
	s.now = func() time.Time { return time.Date(2026, 5, 10, 23, 0, 0, 0, time.UTC) }

	if _, err := s.Ingest(Submission{Platform: "seatgeek", Floor: fptr(900), Median: fptr(1000), SampleCount: 2}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if _, ok := s.Lookup("seatgeek", "2026-05-11"); ok {
		t.Error("yesterday's relay entry returned for today's date")
	}
	if _, ok := s.Lookup("seatgeek", "2026-05-10"); !ok {
		t.Error("entry missing for its own date")
	}
}

func TestIngest_FailedSaveRollsBack(t *testing.T) {
	dir := t.TempDir()
	bounds := config.Bounds{Min: 200, Max: 20000}

	t.Run("no prior entry", func(t *testing.T) {
		// A path inside a nonexistent directory makes the temp-file write fail.
		s, err := NewStore(filepath.Join(dir, "missing-a", "relay.json"), bounds)
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}

		if _, err := s.Ingest(Submission{Platform: "stubhub", Floor: fptr(900), Median: fptr(1000), SampleCount: 2}); err == nil {
			t.Fatal("Ingest() = nil error despite unwritable store")
		}
		if _, ok := s.Lookup("stubhub", s.now().UTC().Format("2006-01-02")); ok {
			t.Error("Lookup serves an entry whose save failed")
		}
	})

	t.Run("prior entry restored", func(t *testing.T) {
		s, err := NewStore(filepath.Join(dir, "relay.json"), bounds)
		if err != nil {
			t.Fatalf("NewStore: %v", err)
		}
		if _, err := s.Ingest(Submission{Platform: "tickpick", Floor: fptr(700), Median: fptr(800), SampleCount: 3}); err != nil {
			t.Fatalf("first Ingest: %v", err)
		}

		s.path = filepath.Join(dir, "missing-b", "relay.json")
		if _, err := s.Ingest(Submission{Platform: "tickpick", Floor: fptr(750), Median: fptr(900), SampleCount: 5}); err == nil {
			t.Fatal("Ingest() = nil error despite unwritable store")
		}

		got, ok := s.Lookup("tickpick", s.now().UTC().Format("2006-01-02"))
		if !ok {
			t.Fatal("prior entry lost after failed save")
		}
		if got.Floor != 700 || got.Median != 800 {
			t.Errorf("Lookup = %+v, want the prior entry (700/800) restored", got)
		}
	})
}

func TestStore_ReloadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.json")
	bounds := config.Bounds{Min: 200, Max: 20000}

	s, err := NewStore(path, bounds)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := s.Ingest(Submission{Platform: "ticketmaster", Floor: fptr(1200), Median: fptr(1500), SampleCount: 4}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	reloaded, err := NewStore(path, bounds)
	if err != nil {
		t.Fatalf("NewStore reload: %v", err)
	}
	got, ok := reloaded.Lookup("ticketmaster", time.Now().UTC().Format("2006-01-02"))
	if !ok {
		t.Fatal("Lookup after reload: not found")
	}
	if got.Median != 1500 {
		t.Errorf("reloaded Median = %v, want 1500", got.Median)
	}
}

func TestFreshness(t *testing.T) {
	s := testStore(t)
	s.now = func() time.Time { return time.Date(2026, 5, 11, 12, 0, 0, 0, time.UTC) }

	if _, err := s.Ingest(Submission{Platform: "stubhub", Floor: fptr(900), Median: fptr(1000), SampleCount: 1}); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	fresh := s.Freshness()
	info, ok := fresh["stubhub"]
	if !ok {
		t.Fatal("Freshness missing stubhub")
	}
	if info["date"] != "2026-05-11" {
		t.Errorf("date = %v, want 2026-05-11", info["date"])
	}
	if info["usable_today"] != true {
		t.Errorf("usable_today = %v, want true", info["usable_today"])
	}

	s.now = func() time.Time { return time.Date(2026, 5, 12, 12, 0, 0, 0, time.UTC) }
	if s.Freshness()["stubhub"]["usable_today"] != false {
		t.Error("usable_today still true the next day")
	}
}
