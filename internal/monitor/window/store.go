package window

import (
	"sort"
	"sync"
)

// Store owns one rolling Window per operation, keyed across components.
// It is the only mutator of the windows; all reads hand out defensive copies.
type Store struct {
	mu       sync.RWMutex
	capacity int
	windows  map[string]*Window
}

func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		windows:  map[string]*Window{},
	}
}

func (s *Store) Record(operation string, durationMs float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.windows[operation]
	if !ok {
		w = New(s.capacity)
		s.windows[operation] = w
	}
	w.Add(durationMs)
}

// Snapshot returns a copy of the operation's current samples, oldest-first.
// Unknown operations yield an empty slice.
func (s *Store) Snapshot(operation string) []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.windows[operation]
	if !ok {
		return []float64{}
	}
	return w.Snapshot()
}

// CombinedSnapshot returns the samples of every operation merged into one
// set, for global percentile computation.
func (s *Store) CombinedSnapshot() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	combined := []float64{}
	for _, w := range s.windows {
		combined = append(combined, w.Snapshot()...)
	}
	return combined
}

// Operations returns the operations with at least one recorded sample,
// sorted for deterministic iteration.
func (s *Store) Operations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	operations := make([]string, 0, len(s.windows))
	for operation := range s.windows {
		operations = append(operations, operation)
	}
	sort.Strings(operations)
	return operations
}

// Reset discards all windows. Test hook only.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.windows = map[string]*Window{}
}
