// Package history is the append-only, date-keyed time series behind the
// dashboard feed. Same-day upserts overwrite; everything else only appends.
package history

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/guarzo/ticketdesk/internal/model"
	"github.com/guarzo/ticketdesk/internal/volatility"
)

// Store owns the persisted history document. The scrape cycle is the sole
// writer; the mutex and the temp-file-then-rename write keep concurrent
// readers (the /data endpoint) from ever observing a mid-update file.
type Store struct {
	path string
	meta model.Meta
	mu   sync.Mutex
}

func NewStore(path string, meta model.Meta) *Store {
	return &Store{path: path, meta: meta}
}

// Upsert replaces any record sharing the new record's date, appends, re-sorts
// ascending, recomputes trends, and persists the full document as one atomic
// unit. Re-running a scrape for the same day is idempotent: last write wins.
func (s *Store) Upsert(record model.DailyRecord) (model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.loadHistory()

	kept := history[:0]
	for _, h := range history {
		if h.Date != record.Date {
			kept = append(kept, h)
		}
	}
	history = append(kept, record)
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })

	meta := s.meta
	meta.Generated = time.Now().UTC()

	doc := model.Document{
		Meta:    meta,
		Today:   record,
		Trends:  ComputeTrends(history),
		History: history,
	}

	if err := s.save(doc); err != nil {
		return model.Document{}, err
	}
	return doc, nil
}

// ComputeTrends derives trend metrics from the two most recent records and
// the last-7 rolling windows. With fewer than two records the slopes are
// zero and the week-over-week inventory change is undefined (nil).
func ComputeTrends(history []model.DailyRecord) model.Trends {
	trends := model.Trends{
		Medians7d:   make([]float64, 0, 7),
		Floors7d:    make([]float64, 0, 7),
		Inventory7d: make([]int, 0, 7),
	}

	start := 0
	if len(history) > 7 {
		start = len(history) - 7
	}
	for _, h := range history[start:] {
		trends.Medians7d = append(trends.Medians7d, h.CrossMedian)
		trends.Floors7d = append(trends.Floors7d, h.CrossFloor)
		trends.Inventory7d = append(trends.Inventory7d, h.TotalInventory)
	}
	trends.Volatility7dPct = volatility.Pct(trends.Medians7d)

	if len(history) < 2 {
		return trends
	}

	latest := history[len(history)-1]
	prev := history[len(history)-2]

	trends.MedianSlope7d = round1((latest.CrossMedian - prev.CrossMedian) / 7)
	trends.FloorAccel = round1(latest.CrossFloor - prev.CrossFloor)

	prior := prev.TotalInventory
	trends.PriorInventory = &prior
	if prior > 0 {
		wow := round1(float64(latest.TotalInventory-prior) / float64(prior) * 100)
		trends.InventoryWowPct = &wow
	}

	return trends
}

// Document returns the persisted feed verbatim. ok is false when no scrape
// has completed yet.
func (s *Store) Document() (raw []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// loadHistory reads the stored record list. A missing or corrupt file yields
// an empty history rather than an error. Caller holds the mutex.
func (s *Store) loadHistory() []model.DailyRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.History
}

// save writes through a temp file and an atomic rename. Caller holds the
// mutex.
func (s *Store) save(doc model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".history-*")
	if err != nil {
		return fmt.Errorf("create temp history: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
