package catalog

import (
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/appcurator/internal/shared/types"
)

// ChangeKind describes what happened to the catalog
type ChangeKind string

const (
	ChangeReplaced ChangeKind = "replaced"
	ChangeUpserted ChangeKind = "upserted"
	ChangeRemoved  ChangeKind = "removed"
)

// Change is delivered to listeners after the store is modified
type Change struct {
	Kind  ChangeKind
	IDs   []string // affected ids, empty for ChangeReplaced
	Total int
}

// Store is the ordered, in-memory record set the curator reads from.
// Catalog order is insertion order; upserts of existing ids keep their slot.
type Store struct {
	mu      sync.RWMutex
	records []types.Record
	index   map[string]int

	listenerMu sync.RWMutex
	listeners  map[uint64]func(Change)
	nextID     uint64
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		index:     make(map[string]int),
		listeners: make(map[uint64]func(Change)),
	}
}

// Replace swaps the whole catalog. Duplicate ids keep the first slot and the
// last value.
func (s *Store) Replace(records []types.Record) error {
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}

	next := make([]types.Record, 0, len(records))
	index := make(map[string]int, len(records))
	for _, rec := range records {
		if pos, ok := index[rec.ID]; ok {
			next[pos] = rec
			continue
		}
		index[rec.ID] = len(next)
		next = append(next, rec)
	}

	s.mu.Lock()
	s.records = next
	s.index = index
	total := len(next)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeReplaced, Total: total})
	return nil
}

// Upsert adds or updates records in place
func (s *Store) Upsert(records ...types.Record) error {
	if len(records) == 0 {
		return nil
	}
	for i := range records {
		if err := records[i].Validate(); err != nil {
			return err
		}
	}

	ids := make([]string, 0, len(records))
	s.mu.Lock()
	for _, rec := range records {
		if pos, ok := s.index[rec.ID]; ok {
			s.records[pos] = rec
		} else {
			s.index[rec.ID] = len(s.records)
			s.records = append(s.records, rec)
		}
		ids = append(ids, rec.ID)
	}
	total := len(s.records)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeUpserted, IDs: ids, Total: total})
	return nil
}

// Remove deletes records by id and reports how many existed
func (s *Store) Remove(ids ...string) int {
	s.mu.Lock()
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			drop[id] = struct{}{}
		}
	}
	if len(drop) == 0 {
		s.mu.Unlock()
		return 0
	}

	kept := s.records[:0:0]
	index := make(map[string]int, len(s.records)-len(drop))
	removed := make([]string, 0, len(drop))
	for _, rec := range s.records {
		if _, ok := drop[rec.ID]; ok {
			removed = append(removed, rec.ID)
			continue
		}
		index[rec.ID] = len(kept)
		kept = append(kept, rec)
	}
	s.records = kept
	s.index = index
	total := len(kept)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeRemoved, IDs: removed, Total: total})
	return len(removed)
}

// Get returns a copy of one record
func (s *Store) Get(id string) (types.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return types.Record{}, false
	}
	return s.records[pos], true
}

// Snapshot returns a copy of the catalog in catalog order
func (s *Store) Snapshot() []types.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Categories returns the distinct non-empty categories in first-seen order
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := range s.records {
		c := s.records[i].Category
		if c == "" {
			continue
		}
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// Stats summarizes the catalog
func (s *Store) Stats() types.CatalogStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.CatalogStats{
		TotalRecords: len(s.records),
		Categories:   make(map[string]int),
	}

	var latest time.Time
	for i := range s.records {
		rec := &s.records[i]
		if rec.Category != "" {
			stats.Categories[rec.Category]++
		}
		if rec.Installed() {
			stats.Installed++
			if rec.HasUpdates {
				stats.Upgradable++
			}
		}
		if rec.LastUpdated != nil && rec.LastUpdated.After(latest) {
			latest = *rec.LastUpdated
		}
	}
	if !latest.IsZero() {
		stats.LastUpdated = &latest
	}

	return stats
}

// OnChange registers a listener for catalog changes. Listeners run
// synchronously on the mutating goroutine after the store lock is released.
func (s *Store) OnChange(fn func(Change)) (remove func()) {
	s.listenerMu.Lock()
	key := s.nextID
	s.nextID++
	s.listeners[key] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, key)
		s.listenerMu.Unlock()
	}
}

func (s *Store) notify(change Change) {
	s.listenerMu.RLock()
	fns := make([]func(Change), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listenerMu.RUnlock()

	for _, fn := range fns {
		fn(change)
	}
}
