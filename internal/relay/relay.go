// Package relay accepts externally supplied per-platform price summaries.
// A relay entry substitutes for a blocked direct scrape, for the UTC day it
// was submitted only.
package relay

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/guarzo/ticketdesk/internal/config"
	"github.com/guarzo/ticketdesk/internal/model"
)

// Submission is the payload accepted from the relay endpoint. Pointer fields
// distinguish "missing" from zero.
type Submission struct {
	Platform    string   `json:"platform"`
	Floor       *float64 `json:"floor"`
	Median      *float64 `json:"median"`
	SampleCount int      `json:"sample_count"`
}

// Store holds one RelayEntry per platform, persisted as a JSON map. Last
// submission for a platform wins; there is no audit trail of overwritten
// entries (accepted product behavior, not a bug).
type Store struct {
	path    string
	bounds  config.Bounds
	mu      sync.Mutex
	entries map[string]model.RelayEntry
	now     func() time.Time
}

func NewStore(path string, bounds config.Bounds) (*Store, error) {
	s := &Store{
		path:    path,
		bounds:  bounds,
		entries: make(map[string]model.RelayEntry),
		now:     time.Now,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read relay cache: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &s.entries); err != nil {
			// Corrupt cache is discarded, not fatal.
			s.entries = make(map[string]model.RelayEntry)
		}
	}
	return s, nil
}

// Ingest validates a submission and upserts the entry for its platform,
// stamped with the current UTC date. Validation failures are synchronous
// errors with a reason; they do not touch stored state.
func (s *Store) Ingest(sub Submission) (model.RelayEntry, error) {
	platform := strings.ToLower(strings.TrimSpace(sub.Platform))
	if platform == "" {
		return model.RelayEntry{}, fmt.Errorf("platform is required")
	}
	if sub.Floor == nil || sub.Median == nil {
		return model.RelayEntry{}, fmt.Errorf("floor and median are required")
	}
	if !s.bounds.Contains(*sub.Floor) {
		return model.RelayEntry{}, fmt.Errorf("floor %.2f outside valid range [%.0f, %.0f]", *sub.Floor, s.bounds.Min, s.bounds.Max)
	}
	if !s.bounds.Contains(*sub.Median) {
		return model.RelayEntry{}, fmt.Errorf("median %.2f outside valid range [%.0f, %.0f]", *sub.Median, s.bounds.Min, s.bounds.Max)
	}
	if sub.SampleCount < 0 {
		return model.RelayEntry{}, fmt.Errorf("sample_count must not be negative")
	}

	now := s.now().UTC()
	entry := model.RelayEntry{
		Platform:    platform,
		Floor:       *sub.Floor,
		Median:      *sub.Median,
		SampleCount: sub.SampleCount,
		Date:        now.Format("2006-01-02"),
		Timestamp:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	prior, existed := s.entries[platform]
	s.entries[platform] = entry
	if err := s.save(); err != nil {
		// A failed save must not leave the entry visible to Lookup.
		if existed {
			s.entries[platform] = prior
		} else {
			delete(s.entries, platform)
		}
		return model.RelayEntry{}, err
	}
	return entry, nil
}

// Lookup returns the entry for a platform if one exists for the given UTC
// date. Entries stamped with any other date are treated as absent.
func (s *Store) Lookup(platform, date string) (model.RelayEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[strings.ToLower(platform)]
	if !ok || entry.Date != date {
		return model.RelayEntry{}, false
	}
	return entry, true
}

// Freshness reports each stored entry's date and age, for the status
// endpoint.
func (s *Store) Freshness() map[string]map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]map[string]any, len(s.entries))
	today := s.now().UTC().Format("2006-01-02")
	for platform, entry := range s.entries {
		out[platform] = map[string]any{
			"date":         entry.Date,
			"submitted_at": entry.Timestamp,
			"usable_today": entry.Date == today,
		}
	}
	return out
}

// save writes through a temp file and an atomic rename. Caller holds the
// mutex.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal relay cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".relay-*")
	if err != nil {
		return fmt.Errorf("create temp relay cache: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp relay cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp relay cache: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}
