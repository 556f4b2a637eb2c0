package assembly

import "sync"

// StickyMaxStore remembers the first positive maximum drive-on count ever
// observed for a vessel. The upstream intermittently reports zero or omits
// the maximum for vessels mid-loading; once a real ceiling has been seen it
// must never be revised down or nulled. Write-once per vessel.
type StickyMaxStore struct {
	mu sync.Mutex
	m  map[int]int
}

// NewStickyMaxStore creates an empty store.
func NewStickyMaxStore() *StickyMaxStore {
	return &StickyMaxStore{m: make(map[int]int)}
}

// Observe records rawMax for the vessel if it is the first positive value.
func (s *StickyMaxStore) Observe(vesselID int, rawMax *int) {
	if rawMax == nil || *rawMax <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[vesselID]; !ok {
		s.m[vesselID] = *rawMax
	}
}

// Get returns the sticky maximum for the vessel, or nil if none was ever
// observed.
func (s *StickyMaxStore) Get(vesselID int) *int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[vesselID]
	if !ok {
		return nil
	}
	return &v
}
