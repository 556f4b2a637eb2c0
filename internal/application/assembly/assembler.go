package assembly

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/domain/shared"
)

// Assembler fuses the three upstream feeds into a per-route Snapshot. It
// never fails for upstream problems: feeds degrade independently through
// stale flags, last-good caches, and ultimately the synthetic snapshot.
// Only an unknown route propagates as an error.
type Assembler struct {
	catalog  *ferry.Catalog
	resolver *ferry.TerminalResolver
	client   UpstreamClient
	clock    shared.Clock
	loc      *time.Location

	fuser    *VesselFuser
	dock     *DockTracker
	capacity *CapacityDeriver
	recorder SnapshotRecorder
}

// NewAssembler wires an assembler with fresh process-wide state. If clock is
// nil, uses RealClock; if loc is nil, schedule dates use the process-local
// zone. ttl bounds the last-good lane and capacity stores (zero: 10min).
func NewAssembler(
	catalog *ferry.Catalog,
	resolver *ferry.TerminalResolver,
	client UpstreamClient,
	clock shared.Clock,
	loc *time.Location,
	ttl time.Duration,
) *Assembler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Assembler{
		catalog:  catalog,
		resolver: resolver,
		client:   client,
		clock:    clock,
		loc:      loc,
		fuser:    NewVesselFuser(NewLaneCache(ttl)),
		dock:     NewDockTracker(),
		capacity: NewCapacityDeriver(NewStickyMaxStore(), ttl),
	}
}

// SetRecorder attaches a telemetry recorder. Safe to leave unset.
func (a *Assembler) SetRecorder(r SnapshotRecorder) {
	a.recorder = r
}

// fetchResults collects the independent outcomes of the three feeds.
type fetchResults struct {
	vessels    []ferry.LiveVessel
	vesselsErr error
	spaces     []wsf.TerminalSpace
	spacesErr  error
	rows       []ferry.ScheduleRow
	rowsErr    error
}

// BuildSnapshot assembles the dot-state snapshot for a route.
func (a *Assembler) BuildSnapshot(ctx context.Context, routeID int) (*ferry.Snapshot, error) {
	route, err := a.catalog.GetRoute(routeID)
	if err != nil {
		return nil, err
	}

	// Capture-time now is read once, before any I/O, so every derived
	// timestamp in the snapshot is mutually consistent.
	now := a.clock.Now()
	start := now

	terminals := a.resolver.Resolve(route)
	results := a.fetchAll(ctx, routeID, now)

	sel := ResolveLanes(results.rows, terminals.West, results.rowsErr)
	if sel.ScheduleError && sel.Upper == nil && sel.Lower == nil {
		log.Printf("%v, serving synthetic snapshot", shared.NewScheduleUnusableError(route.RouteID))
		snapshot := a.syntheticSnapshot(route, terminals, now)
		a.record(snapshot, start)
		return snapshot, nil
	}

	vesselIndex := indexVessels(results.vessels)

	upper, upperSrc, upperSnapped := a.fuser.FuseLane(route, terminals, 1, sel.Upper, vesselIndex, now)
	lower, lowerSrc, lowerSnapped := a.fuser.FuseLane(route, terminals, 2, sel.Lower, vesselIndex, now)

	if !upperSnapped {
		a.dock.Apply(route.RouteID, &upper, now)
	}
	if !lowerSnapped {
		a.dock.Apply(route.RouteID, &lower, now)
	}

	capacity := a.deriveCapacity(route, terminals, sel, upper, lower, results, now)

	feedError := results.vesselsErr != nil || results.spacesErr != nil || results.rowsErr != nil
	mode := ferry.FallbackLive
	if upperSrc != ferry.LaneSourceLive || lowerSrc != ferry.LaneSourceLive || feedError {
		mode = ferry.FallbackPartial
	}

	snapshot := &ferry.Snapshot{
		Route:    routeEcho(route, terminals),
		Lanes:    ferry.Lanes{Upper: upper, Lower: lower},
		Capacity: capacity,
		Meta: ferry.Meta{
			VesselsStale:  results.vesselsErr != nil,
			CapacityStale: results.spacesErr != nil,
			ScheduleStale: sel.ScheduleError || results.rowsErr != nil,
			Lanes:         ferry.LaneSources{Upper: upperSrc, Lower: lowerSrc},
			Fallback: ferry.Fallback{
				Mode:   mode,
				Reason: fallbackReason(upperSrc, lowerSrc, feedError),
			},
		},
	}

	a.record(snapshot, start)
	return snapshot, nil
}

// fetchAll fans the three upstream fetches out concurrently and waits for
// all of them; each result stands or fails on its own.
func (a *Assembler) fetchAll(ctx context.Context, routeID int, now time.Time) fetchResults {
	var results fetchResults
	dateText := now.In(a.loc).Format("2006-01-02")

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		results.vessels, results.vesselsErr = a.client.FetchVessels(ctx)
		if results.vesselsErr != nil {
			log.Printf("vessels feed unavailable: %v", results.vesselsErr)
		}
	}()
	go func() {
		defer wg.Done()
		results.spaces, results.spacesErr = a.client.FetchTerminalSpaces(ctx)
		if results.spacesErr != nil {
			log.Printf("terminal-space feed unavailable: %v", results.spacesErr)
		}
	}()
	go func() {
		defer wg.Done()
		results.rows, results.rowsErr = a.client.FetchSchedule(ctx, routeID, dateText)
		if results.rowsErr != nil {
			log.Printf("schedule feed unavailable for route %d: %v", routeID, results.rowsErr)
		}
	}()
	wg.Wait()

	return results
}

func indexVessels(vessels []ferry.LiveVessel) map[int]ferry.LiveVessel {
	index := make(map[int]ferry.LiveVessel, len(vessels))
	for _, v := range vessels {
		index[v.VesselID] = v
	}
	return index
}

// deriveCapacity picks the schedule-derived hint for each side by matching
// lane departure terminals, then derives both sides.
func (a *Assembler) deriveCapacity(
	route ferry.Route,
	terminals ferry.TerminalIDs,
	sel LaneSelection,
	upper, lower ferry.Lane,
	results fetchResults,
	now time.Time,
) *ferry.CapacityPair {
	westHint := sideHint(terminals.West, upper, lower, sel.Upper)
	eastHint := sideHint(terminals.East, upper, lower, sel.Lower)

	west := a.capacity.Derive(route.RouteID, SideWest, terminals.West, terminals.East, results.spaces, westHint, now)
	east := a.capacity.Derive(route.RouteID, SideEast, terminals.East, terminals.West, results.spaces, eastHint, now)

	if west == nil && east == nil {
		return nil
	}
	return &ferry.CapacityPair{West: west, East: east}
}

// sideHint returns the vessel ID of the lane currently departing the side's
// terminal, falling back to the side's nominal schedule identity.
func sideHint(sideTerminalID *int, upper, lower ferry.Lane, nominal *ferry.LaneIdentity) *int {
	if sideTerminalID != nil {
		for _, lane := range []ferry.Lane{upper, lower} {
			if lane.DepartingTerminalID != nil && *lane.DepartingTerminalID == *sideTerminalID && lane.VesselID != nil {
				return lane.VesselID
			}
		}
	}
	if nominal != nil {
		id := nominal.VesselID
		return &id
	}
	return nil
}

func routeEcho(route ferry.Route, terminals ferry.TerminalIDs) ferry.RouteEcho {
	return ferry.RouteEcho{
		RouteID:         route.RouteID,
		Description:     route.Description,
		WestName:        strings.ToUpper(route.WestName),
		EastName:        strings.ToUpper(route.EastName),
		WestTerminalID:  terminals.West,
		EastTerminalID:  terminals.East,
		CrossingMinutes: route.CrossingMinutes,
	}
}

// fallbackReason summarises why the snapshot is not fully live.
func fallbackReason(upperSrc, lowerSrc ferry.LaneSource, feedError bool) string {
	var parts []string
	if upperSrc == ferry.LaneSourceMissing || lowerSrc == ferry.LaneSourceMissing {
		parts = append(parts, "missing_lane")
	}
	if upperSrc == ferry.LaneSourceStale || lowerSrc == ferry.LaneSourceStale {
		parts = append(parts, "stale_lane")
	}
	if feedError {
		parts = append(parts, "api_error")
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, "+")
}

// syntheticSnapshot is emitted only when the schedule is completely
// unusable. Both lanes carry placeholder timing fabricated from now and the
// crossing duration so the display always has a well-formed object to draw.
func (a *Assembler) syntheticSnapshot(route ferry.Route, terminals ferry.TerminalIDs, now time.Time) *ferry.Snapshot {
	crossing := time.Duration(route.CrossingMinutes) * time.Minute
	eta := now.Add(crossing)
	leftDock := now

	makeLane := func(slot int) ferry.Lane {
		return ferry.Lane{
			Slot:               slot,
			VesselName:         "Unknown",
			AtDock:             false,
			Direction:          nominalDirection(slot),
			LeftDock:           &leftDock,
			Eta:                &eta,
			Phase:              ferry.PhaseUnderway,
			DotPosition:        0,
			LastUpdatedVessels: now,
		}
	}

	return &ferry.Snapshot{
		Route: routeEcho(route, terminals),
		Lanes: ferry.Lanes{Upper: makeLane(1), Lower: makeLane(2)},
		Meta: ferry.Meta{
			VesselsStale:  true,
			CapacityStale: true,
			ScheduleStale: true,
			Lanes: ferry.LaneSources{
				Upper: ferry.LaneSourceMissing,
				Lower: ferry.LaneSourceMissing,
			},
			Fallback: ferry.Fallback{
				Mode:   ferry.FallbackSynthetic,
				Reason: "synthetic_no_live_data",
			},
		},
	}
}

func (a *Assembler) record(snapshot *ferry.Snapshot, start time.Time) {
	if a.recorder == nil {
		return
	}
	a.recorder.RecordSnapshot(snapshot.Meta.Fallback.Mode, a.clock.Now().Sub(start).Seconds())
	a.recorder.RecordLaneSource(1, string(snapshot.Meta.Lanes.Upper))
	a.recorder.RecordLaneSource(2, string(snapshot.Meta.Lanes.Lower))
}
