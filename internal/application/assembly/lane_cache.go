package assembly

import (
	"sync"
	"time"

	"ferryclock/internal/domain/ferry"
)

// DefaultTTL bounds how long last-good lanes and capacity may be reused.
const DefaultTTL = 10 * time.Minute

type laneKey struct {
	routeID int
	slot    int
}

type cachedLane struct {
	lane     ferry.Lane
	observed time.Time
}

// LaneCache is the per-route, per-slot last-good lane store. Entries are
// written on each live observation and read back only within the TTL, so no
// eviction sweep is needed. Lanes are stored and returned by value; callers
// cannot mutate cached state.
type LaneCache struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[laneKey]cachedLane
}

// NewLaneCache creates a cache with the given TTL; zero means DefaultTTL.
func NewLaneCache(ttl time.Duration) *LaneCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &LaneCache{ttl: ttl, m: make(map[laneKey]cachedLane)}
}

// Put records a live lane observation.
func (c *LaneCache) Put(routeID, slot int, lane ferry.Lane, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[laneKey{routeID, slot}] = cachedLane{lane: lane, observed: now}
}

// Get returns the cached lane if it is still within the TTL.
func (c *LaneCache) Get(routeID, slot int, now time.Time) (ferry.Lane, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.m[laneKey{routeID, slot}]
	if !ok || now.Sub(entry.observed) > c.ttl {
		return ferry.Lane{}, false
	}
	return entry.lane, true
}
