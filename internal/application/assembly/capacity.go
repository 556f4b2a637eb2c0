package assembly

import (
	"sort"
	"sync"
	"time"

	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/domain/ferry"
)

// Route sides.
const (
	SideWest = "west"
	SideEast = "east"
)

type sideKey struct {
	routeID int
	side    string
}

type cachedCapacity struct {
	capacity ferry.Capacity
	observed time.Time
}

// spaceTuple is one candidate sailing for a side: a departure from the
// side's terminal whose arrival entry covers the opposite terminal.
type spaceTuple struct {
	depTime    time.Time
	vesselID   int
	vesselName string
	rawMax     *int
	driveUp    *int
}

// CapacityDeriver picks the next departing sailing's drive-on availability
// for each side of a route, preferring the schedule-chosen vessel, applying
// sticky per-vessel maxima, and falling back to last-good capacity within
// the TTL. It never fabricates a zero: a side with no availability signal
// anywhere yields nil.
type CapacityDeriver struct {
	mu       sync.Mutex
	sticky   *StickyMaxStore
	lastGood map[sideKey]cachedCapacity
	ttl      time.Duration
}

// NewCapacityDeriver creates a deriver; zero ttl means DefaultTTL.
func NewCapacityDeriver(sticky *StickyMaxStore, ttl time.Duration) *CapacityDeriver {
	if sticky == nil {
		sticky = NewStickyMaxStore()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CapacityDeriver{
		sticky:   sticky,
		lastGood: make(map[sideKey]cachedCapacity),
		ttl:      ttl,
	}
}

// Derive produces the capacity for one side, or nil.
//
// hintVesselID is the schedule-chosen vessel for this side; a tuple matching
// it is preferred over an earlier non-matching one. isStale is set when the
// preferred match failed, when the last-good fallback was used, or when it
// is inherited from a last-good entry.
func (d *CapacityDeriver) Derive(
	routeID int,
	side string,
	sideTerminalID, oppTerminalID *int,
	spaces []wsf.TerminalSpace,
	hintVesselID *int,
	now time.Time,
) *ferry.Capacity {
	if sideTerminalID == nil || oppTerminalID == nil {
		return d.fromLastGood(routeID, side, now)
	}

	tuples := enumerateTuples(spaces, *sideTerminalID, *oppTerminalID, now)

	chosen, matchedHint := chooseTuple(tuples, hintVesselID)
	if chosen == nil {
		return d.fromLastGood(routeID, side, now)
	}

	d.sticky.Observe(chosen.vesselID, chosen.rawMax)
	maxAuto := d.sticky.Get(chosen.vesselID)
	if maxAuto == nil {
		maxAuto = chosen.rawMax
	}

	// A side with no schedule-chosen vessel has no preference to miss.
	stale := hintVesselID != nil && !matchedHint
	availAuto := chosen.driveUp
	if availAuto == nil {
		// The chosen tuple lost its drive-up count between enumeration and
		// selection paths; reuse the last-good availability rather than
		// fabricating a zero.
		if prev := d.fromLastGood(routeID, side, now); prev != nil {
			availAuto = prev.AvailAuto
			stale = true
		}
		if availAuto == nil {
			return nil
		}
	}

	capacity := ferry.Capacity{
		TerminalID:  *sideTerminalID,
		VesselID:    chosen.vesselID,
		VesselName:  chosen.vesselName,
		MaxAuto:     maxAuto,
		AvailAuto:   availAuto,
		LastUpdated: now,
		IsStale:     stale,
	}

	// Only live-derived capacity refreshes the last-good store; re-caching a
	// fallback would extend its TTL without bound.
	d.mu.Lock()
	d.lastGood[sideKey{routeID, side}] = cachedCapacity{capacity: capacity, observed: now}
	d.mu.Unlock()

	return &capacity
}

func (d *CapacityDeriver) fromLastGood(routeID int, side string, now time.Time) *ferry.Capacity {
	d.mu.Lock()
	entry, ok := d.lastGood[sideKey{routeID, side}]
	d.mu.Unlock()
	if !ok || now.Sub(entry.observed) > d.ttl {
		return nil
	}
	capacity := entry.capacity
	capacity.IsStale = true
	capacity.LastUpdated = now
	return &capacity
}

// enumerateTuples collects future departures from the side terminal toward
// the opposite terminal, in ascending departure order.
func enumerateTuples(spaces []wsf.TerminalSpace, sideID, oppID int, now time.Time) []spaceTuple {
	var tuples []spaceTuple
	for _, terminal := range spaces {
		if terminal.TerminalID != sideID {
			continue
		}
		for _, dep := range terminal.DepartingSpaces {
			if dep.Departure == nil || dep.Departure.Before(now) {
				continue
			}
			for _, arr := range dep.ArrivalSpaces {
				if !arr.MatchesArrival(oppID) {
					continue
				}
				rawMax := arr.MaxSpaceCount
				if rawMax == nil {
					rawMax = dep.MaxSpaceCount
				}
				tuples = append(tuples, spaceTuple{
					depTime:    *dep.Departure,
					vesselID:   dep.VesselID,
					vesselName: dep.VesselName,
					rawMax:     rawMax,
					driveUp:    arr.DriveUpSpaceCount,
				})
				break
			}
		}
	}
	sort.SliceStable(tuples, func(i, j int) bool {
		return tuples[i].depTime.Before(tuples[j].depTime)
	})
	return tuples
}

// chooseTuple prefers the earliest tuple matching the scheduled vessel with
// a finite drive-up count, falling back to the earliest tuple with a finite
// drive-up count regardless of vessel. The bool reports a hint match.
func chooseTuple(tuples []spaceTuple, hintVesselID *int) (*spaceTuple, bool) {
	if hintVesselID != nil {
		for i := range tuples {
			if tuples[i].vesselID == *hintVesselID && tuples[i].driveUp != nil {
				return &tuples[i], true
			}
		}
	}
	for i := range tuples {
		if tuples[i].driveUp != nil {
			return &tuples[i], false
		}
	}
	return nil, false
}
