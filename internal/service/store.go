package service

import (
	"sort"
	"sync"
	"time"
)

// DatasetInfo describes one loaded source collection.
type DatasetInfo struct {
	Source       string    `json:"source" doc:"Source name"`
	FeatureCount int       `json:"feature_count" doc:"Features loaded from the source"`
	LoadedAt     time.Time `json:"loaded_at" doc:"When the source last loaded successfully"`
	LastError    string    `json:"last_error,omitempty" doc:"Most recent fetch error, empty when healthy"`
}

// Store holds the normalized feature collections, one per source. A source's
// features are replaced wholesale on reload and never mutated in place; a
// failed refresh records the error but keeps the last good data.
type Store struct {
	mu       sync.RWMutex
	sources  map[string][]Feature
	info     map[string]*DatasetInfo
	byID     map[string]Feature
	snapshot []Feature
}

// NewStore creates an empty dataset store.
func NewStore() *Store {
	return &Store{
		sources: map[string][]Feature{},
		info:    map[string]*DatasetInfo{},
		byID:    map[string]Feature{},
	}
}

// Replace swaps in a source's normalized features and rebuilds the flattened
// snapshot and ID index.
func (s *Store) Replace(source string, features []Feature) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sources[source] = features
	info := s.info[source]
	if info == nil {
		info = &DatasetInfo{Source: source}
		s.info[source] = info
	}
	info.FeatureCount = len(features)
	info.LoadedAt = time.Now()
	info.LastError = ""
	s.rebuild()
}

// RecordFailure notes a failed fetch for a source without touching its data.
func (s *Store) RecordFailure(source string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := s.info[source]
	if info == nil {
		info = &DatasetInfo{Source: source}
		s.info[source] = info
	}
	info.LastError = err.Error()
}

// All returns the flattened feature snapshot across all sources, in a stable
// source-name order. The slice is shared and read-only by convention; every
// downstream computation treats it as immutable.
func (s *Store) All() []Feature {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Lookup resolves one feature by ID.
func (s *Store) Lookup(id string) (Feature, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.byID[id]
	return f, ok
}

// Datasets returns the per-source load state, sorted by source name.
func (s *Store) Datasets() []DatasetInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]DatasetInfo, 0, len(s.info))
	for _, info := range s.info {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}

// Count returns the total feature count across all sources.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snapshot)
}

// rebuild recomputes the flattened snapshot in sorted source order so the
// result is independent of reload order. Callers hold the write lock.
func (s *Store) rebuild() {
	names := make([]string, 0, len(s.sources))
	for name := range s.sources {
		names = append(names, name)
	}
	sort.Strings(names)

	snapshot := make([]Feature, 0, len(s.byID))
	byID := make(map[string]Feature)
	for _, name := range names {
		for _, f := range s.sources[name] {
			snapshot = append(snapshot, f)
			byID[f.ID] = f
		}
	}
	s.snapshot = snapshot
	s.byID = byID
}
