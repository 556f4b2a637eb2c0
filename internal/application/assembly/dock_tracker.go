package assembly

import (
	"sync"
	"time"

	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/domain/shared"
)

// bootDockLead approximates how long a vessel has typically been loading
// before its scheduled departure when the process has no real observation.
const bootDockLead = 25 * time.Minute

type dockKey struct {
	routeID int
	slot    int
}

type dockMemory struct {
	atDock    bool
	dockStart *time.Time
	synthetic bool
}

// DockTracker is the per-route, per-slot memory of dock entry times. It is
// the only state that must survive across requests: the moment a vessel
// transitions onto the dock is observable exactly once, and losing it would
// reset the dock arc on every request.
type DockTracker struct {
	mu sync.Mutex
	m  map[dockKey]dockMemory
}

// NewDockTracker creates an empty tracker.
func NewDockTracker() *DockTracker {
	return &DockTracker{m: make(map[dockKey]dockMemory)}
}

// Apply decides the lane's dock-start time and arc fraction from the
// previous observation, then rewrites the memory slot.
//
//   - still at dock with a known start: keep the start and its synthetic flag
//   - fresh transition onto the dock: start = now, real
//   - at dock with no usable history (boot, or previously unknown):
//     synthesise start = scheduledDeparture - 25min, clamped to now;
//     now itself when the scheduled departure is missing
//   - not at dock: clear dock fields
func (t *DockTracker) Apply(routeID int, lane *ferry.Lane, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := dockKey{routeID, lane.Slot}

	if !lane.AtDock {
		lane.DockStartTime = nil
		lane.DockStartSynthetic = false
		lane.DockArcFraction = nil
		t.m[key] = dockMemory{atDock: false}
		return
	}

	prev, known := t.m[key]

	var start time.Time
	var synthetic bool
	switch {
	case known && prev.atDock && prev.dockStart != nil:
		start = *prev.dockStart
		synthetic = prev.synthetic
	case known && !prev.atDock:
		// Real transition observed between two requests.
		start = now
		synthetic = false
	default:
		start = synthesizeDockStart(lane.ScheduledDeparture, now)
		synthetic = true
	}

	frac := shared.Clamp01(now.Sub(start).Seconds() / 3600)
	lane.DockStartTime = &start
	lane.DockStartSynthetic = synthetic
	lane.DockArcFraction = &frac
	t.m[key] = dockMemory{atDock: true, dockStart: &start, synthetic: synthetic}
}

// synthesizeDockStart fabricates a boot-time dock start. The lead-adjusted
// scheduled departure can land in the future when the sailing is far out;
// clamp to now so the arc never runs backwards.
func synthesizeDockStart(scheduledDeparture *time.Time, now time.Time) time.Time {
	if scheduledDeparture == nil {
		return now
	}
	start := scheduledDeparture.Add(-bootDockLead)
	if start.After(now) {
		return now
	}
	return start
}
