// Package checklist owns the per-item "received" state. Only checked
// items are persisted; absence of a key means unchecked.
package checklist

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"popcheck/infrastructure/kv"
	"popcheck/infrastructure/metrics"
)

// KeyPrefix namespaces checklist entries in the durable store.
const KeyPrefix = "received_"

// ErrNoReportDate is returned when a toggle arrives before the
// operator has selected a reporting date.
var ErrNoReportDate = errors.New("select a report date before checking items")

// ErrInvalidDate is returned for malformed report dates.
var ErrInvalidDate = errors.New("report date must be YYYY-MM-DD")

// Store keeps the in-memory check state consistent with the durable
// key-value store. All mutations go through the mutex so a toggle is
// observed as one unit.
type Store struct {
	mu         sync.Mutex
	kv         kv.Store
	checked    map[string]bool
	reportDate string
}

func NewStore(store kv.Store) *Store {
	return &Store{kv: store, checked: make(map[string]bool)}
}

// Load reconstructs the in-memory state from the durable store. Call
// once at startup.
func (s *Store) Load(ctx context.Context) error {
	entries, err := s.kv.ListPrefix(ctx, KeyPrefix)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checked = make(map[string]bool, len(entries))
	for key, value := range entries {
		if value != "true" {
			continue
		}
		s.checked[strings.TrimPrefix(key, KeyPrefix)] = true
	}
	return nil
}

// SetReportDate selects the calendar day the next report is for.
func (s *Store) SetReportDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reportDate = date
	return nil
}

// ReportDate returns the currently selected reporting date, or "".
func (s *Store) ReportDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reportDate
}

// Toggle flips the received flag for one item id and returns the new
// state. The durable write happens before the in-memory flip; a
// storage fault leaves both sides on the old value.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reportDate == "" {
		return false, ErrNoReportDate
	}

	key := KeyPrefix + id
	if s.checked[id] {
		if err := s.kv.Delete(ctx, key); err != nil {
			return true, err
		}
		delete(s.checked, id)
		metrics.ChecklistToggles.Inc()
		return false, nil
	}

	if err := s.kv.Set(ctx, key, "true"); err != nil {
		return false, err
	}
	s.checked[id] = true
	metrics.ChecklistToggles.Inc()
	return true, nil
}

// IsChecked reports whether the item id is marked received.
func (s *Store) IsChecked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checked[id]
}

// Clear removes the given item ids from the durable store and memory.
// Used after a successful submission so the branch starts its next
// cycle unchecked.
func (s *Store) Clear(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, KeyPrefix+id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.DeleteAll(ctx, keys); err != nil {
		return err
	}
	for _, id := range ids {
		delete(s.checked, id)
	}
	return nil
}

// CheckedIDs returns a snapshot of all checked item ids.
func (s *Store) CheckedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.checked))
	for id := range s.checked {
		ids = append(ids, id)
	}
	return ids
}
