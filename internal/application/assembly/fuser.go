package assembly

import (
	"time"

	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/domain/shared"
)

// orientation is the result of matching a live vessel's terminal pair
// against the route's west/east IDs. Direction is not a pure function of
// live data: when the pair matches neither orientation exactly the lane
// falls back to its nominal slot direction in a single branch.
type orientation int

const (
	orientationUnknown orientation = iota
	orientationForward             // west -> east
	orientationReverse             // east -> west
)

func matchOrientation(dep, arr *int, terminals ferry.TerminalIDs) orientation {
	if dep == nil || arr == nil || terminals.West == nil || terminals.East == nil {
		return orientationUnknown
	}
	switch {
	case *dep == *terminals.West && *arr == *terminals.East:
		return orientationForward
	case *dep == *terminals.East && *arr == *terminals.West:
		return orientationReverse
	default:
		return orientationUnknown
	}
}

// nominalDirection is the slot's schedule-implied direction: the upper lane
// nominally runs west to east, the lower east to west.
func nominalDirection(slot int) ferry.Direction {
	if slot == 1 {
		return ferry.DirectionWestToEast
	}
	return ferry.DirectionEastToWest
}

// VesselFuser joins schedule-derived lane identity with live vessel
// telemetry, consulting the last-good cache when the live record is absent.
type VesselFuser struct {
	cache *LaneCache
}

// NewVesselFuser creates a fuser over the given last-good cache.
func NewVesselFuser(cache *LaneCache) *VesselFuser {
	return &VesselFuser{cache: cache}
}

// FuseLane produces the lane for one slot. The returned bool reports whether
// the stale-snap rule fired (stale lane whose eta already passed); such
// lanes bypass the dock tracker so the next live observation repopulates
// dock state.
func (f *VesselFuser) FuseLane(
	route ferry.Route,
	terminals ferry.TerminalIDs,
	slot int,
	identity *ferry.LaneIdentity,
	vessels map[int]ferry.LiveVessel,
	now time.Time,
) (ferry.Lane, ferry.LaneSource, bool) {
	if identity != nil {
		if live, ok := vessels[identity.VesselID]; ok {
			lane := f.fuseLive(route, terminals, slot, identity, live, now)
			f.cache.Put(route.RouteID, slot, lane, now)
			return lane, ferry.LaneSourceLive, false
		}
	}

	if cached, ok := f.cache.Get(route.RouteID, slot, now); ok {
		cached.IsStale = true
		cached.LastUpdatedVessels = now
		if cached.Eta != nil && cached.Eta.Before(now) {
			// Stale-snap: the cached vessel should have arrived by now.
			// Pin it to the dock so the display never animates a phantom
			// crossing past its arrival. Dock-arc state stays untouched
			// until a live observation returns.
			cached.AtDock = true
			cached.Phase = ferry.PhaseAtDock
			cached.DotPosition = 1
			cached.DockStartTime = nil
			cached.DockStartSynthetic = false
			cached.DockArcFraction = nil
			return cached, ferry.LaneSourceStale, true
		}
		return cached, ferry.LaneSourceStale, false
	}

	return missingLane(slot, now), ferry.LaneSourceMissing, false
}

func (f *VesselFuser) fuseLive(
	route ferry.Route,
	terminals ferry.TerminalIDs,
	slot int,
	identity *ferry.LaneIdentity,
	live ferry.LiveVessel,
	now time.Time,
) ferry.Lane {
	direction := nominalDirection(slot)
	switch matchOrientation(live.DepartingTerminalID, live.ArrivingTerminalID, terminals) {
	case orientationForward:
		direction = ferry.DirectionWestToEast
	case orientationReverse:
		direction = ferry.DirectionEastToWest
	}

	leftDock := live.LeftDock
	if leftDock == nil {
		leftDock = live.ScheduledDeparture
	}

	eta := live.Eta
	if eta == nil && leftDock != nil && route.CrossingMinutes > 0 {
		estimate := leftDock.Add(time.Duration(route.CrossingMinutes) * time.Minute)
		eta = &estimate
	}

	dot := 0.0
	if !live.AtDock {
		dot = dotPosition(now, leftDock, eta)
	}

	phase := ferry.PhaseUnknown
	switch {
	case live.AtDock:
		phase = ferry.PhaseAtDock
	case eta != nil:
		phase = ferry.PhaseUnderway
	}

	vesselID := identity.VesselID
	name := live.VesselName
	if name == "" {
		name = identity.VesselName
	}

	return ferry.Lane{
		Slot:                slot,
		VesselID:            &vesselID,
		VesselName:          name,
		AtDock:              live.AtDock,
		Direction:           direction,
		DepartingTerminalID: live.DepartingTerminalID,
		ArrivingTerminalID:  live.ArrivingTerminalID,
		ScheduledDeparture:  live.ScheduledDeparture,
		LeftDock:            leftDock,
		Eta:                 eta,
		ArrivalTime:         live.Eta,
		Phase:               phase,
		DotPosition:         dot,
		LastUpdatedVessels:  now,
	}
}

// dotPosition normalises progress along the crossing into [0,1]. Departures
// in the future and degenerate windows (eta at or before leftDock) read as
// still at the origin.
func dotPosition(now time.Time, leftDock, eta *time.Time) float64 {
	if leftDock == nil || eta == nil {
		return 0
	}
	window := eta.Sub(*leftDock).Seconds()
	if window <= 0 {
		return 0
	}
	return shared.Clamp01(now.Sub(*leftDock).Seconds() / window)
}

// missingLane is the degraded lane emitted when neither telemetry nor the
// last-good cache can say anything about the slot.
func missingLane(slot int, now time.Time) ferry.Lane {
	return ferry.Lane{
		Slot:               slot,
		VesselName:         "Unknown",
		AtDock:             true,
		Direction:          nominalDirection(slot),
		Phase:              ferry.PhaseUnknown,
		DotPosition:        0,
		LastUpdatedVessels: now,
	}
}
