package steps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/application/assembly"
	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/domain/shared"
)

// stubUpstream is a canned-response upstream client controlled by Given steps.
type stubUpstream struct {
	vessels    []ferry.LiveVessel
	vesselsErr error
	spaces     []wsf.TerminalSpace
	spacesErr  error
	rows       []ferry.ScheduleRow
	rowsErr    error
}

func (s *stubUpstream) FetchVessels(ctx context.Context) ([]ferry.LiveVessel, error) {
	return s.vessels, s.vesselsErr
}

func (s *stubUpstream) FetchTerminalSpaces(ctx context.Context) ([]wsf.TerminalSpace, error) {
	return s.spaces, s.spacesErr
}

func (s *stubUpstream) FetchSchedule(ctx context.Context, routeID int, dateText string) ([]ferry.ScheduleRow, error) {
	return s.rows, s.rowsErr
}

type snapshotContext struct {
	clock     *shared.MockClock
	upstream  *stubUpstream
	assembler *assembly.Assembler

	snapshot *ferry.Snapshot
	err      error
}

func (ctx *snapshotContext) reset() {
	ctx.clock = shared.NewMockClock(time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC))
	ctx.upstream = &stubUpstream{}
	ctx.assembler = assembly.NewAssembler(
		ferry.DefaultCatalog(),
		ferry.NewTerminalResolver(),
		ctx.upstream,
		ctx.clock,
		time.UTC,
		10*time.Minute,
	)
	ctx.snapshot = nil
	ctx.err = nil
}

// Given steps

func (ctx *snapshotContext) theScheduleListsVessel(vesselID int, name string, position, terminalID int) error {
	ctx.upstream.rows = append(ctx.upstream.rows, ferry.ScheduleRow{
		RouteID:             5,
		DepartingTerminalID: terminalID,
		VesselPositionNum:   position,
		VesselID:            vesselID,
		VesselName:          name,
	})
	return nil
}

func (ctx *snapshotContext) vesselIsUnderway(vesselID int, name string, depID, arrID, leftMinAgo, etaMin int) error {
	leftDock := ctx.clock.Now().Add(-time.Duration(leftMinAgo) * time.Minute)
	eta := ctx.clock.Now().Add(time.Duration(etaMin) * time.Minute)
	ctx.upstream.vessels = append(ctx.upstream.vessels, ferry.LiveVessel{
		VesselID:            vesselID,
		VesselName:          name,
		DepartingTerminalID: &depID,
		ArrivingTerminalID:  &arrID,
		AtDock:              false,
		LeftDock:            &leftDock,
		Eta:                 &eta,
	})
	return nil
}

func (ctx *snapshotContext) vesselIsAtDock(vesselID int, name string, depID, schedMin int) error {
	scheduled := ctx.clock.Now().Add(time.Duration(schedMin) * time.Minute)
	ctx.upstream.vessels = append(ctx.upstream.vessels, ferry.LiveVessel{
		VesselID:            vesselID,
		VesselName:          name,
		DepartingTerminalID: &depID,
		AtDock:              true,
		ScheduledDeparture:  &scheduled,
	})
	return nil
}

func (ctx *snapshotContext) terminalAdvertisesSpaces(terminalID, driveUp, vesselID int, name string, depMin, arrID int) error {
	departure := ctx.clock.Now().Add(time.Duration(depMin) * time.Minute)
	maxCount := 202
	ctx.upstream.spaces = append(ctx.upstream.spaces, wsf.TerminalSpace{
		TerminalID: terminalID,
		DepartingSpaces: []wsf.DepartingSpace{{
			Departure:     &departure,
			VesselID:      vesselID,
			VesselName:    name,
			MaxSpaceCount: &maxCount,
			ArrivalSpaces: []wsf.ArrivalSpace{{
				TerminalID:        arrID,
				DriveUpSpaceCount: &driveUp,
				MaxSpaceCount:     &maxCount,
			}},
		}},
	})
	return nil
}

func (ctx *snapshotContext) theVesselsFeedIsUnavailable() error {
	ctx.upstream.vessels = nil
	ctx.upstream.vesselsErr = shared.NewUpstreamTransientError(wsf.FeedVessels, "unavailable", nil)
	return nil
}

func (ctx *snapshotContext) theScheduleFeedIsUnavailable() error {
	ctx.upstream.rows = nil
	ctx.upstream.rowsErr = shared.NewUpstreamTransientError(wsf.FeedSchedule, "unavailable", nil)
	return nil
}

func (ctx *snapshotContext) minutesPass(minutes int) error {
	ctx.clock.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

// When steps

func (ctx *snapshotContext) iRequestTheSnapshotForRoute(routeID int) error {
	ctx.snapshot, ctx.err = ctx.assembler.BuildSnapshot(context.Background(), routeID)
	return nil
}

// Then steps

func (ctx *snapshotContext) theRequestSucceeds() error {
	if ctx.err != nil {
		return fmt.Errorf("expected success, got error: %w", ctx.err)
	}
	if ctx.snapshot == nil {
		return fmt.Errorf("expected a snapshot, got none")
	}
	return nil
}

func (ctx *snapshotContext) theRequestFailsWithUnknownRoute() error {
	if ctx.err == nil {
		return fmt.Errorf("expected an error, got a snapshot")
	}
	var unknown *shared.UnknownRouteError
	if !errors.As(ctx.err, &unknown) {
		return fmt.Errorf("expected UnknownRouteError, got %v", ctx.err)
	}
	return nil
}

func (ctx *snapshotContext) theFallbackModeIs(mode string) error {
	if err := ctx.theRequestSucceeds(); err != nil {
		return err
	}
	if ctx.snapshot.Meta.Fallback.Mode != mode {
		return fmt.Errorf("expected fallback mode %q, got %q", mode, ctx.snapshot.Meta.Fallback.Mode)
	}
	return nil
}

func (ctx *snapshotContext) theFallbackReasonIs(reason string) error {
	if err := ctx.theRequestSucceeds(); err != nil {
		return err
	}
	if ctx.snapshot.Meta.Fallback.Reason != reason {
		return fmt.Errorf("expected fallback reason %q, got %q", reason, ctx.snapshot.Meta.Fallback.Reason)
	}
	return nil
}

func (ctx *snapshotContext) lane(slotName string) (*ferry.Lane, error) {
	if err := ctx.theRequestSucceeds(); err != nil {
		return nil, err
	}
	switch slotName {
	case "upper":
		return &ctx.snapshot.Lanes.Upper, nil
	case "lower":
		return &ctx.snapshot.Lanes.Lower, nil
	}
	return nil, fmt.Errorf("unknown lane %q", slotName)
}

func (ctx *snapshotContext) theLaneCarriesVessel(slotName, name string) error {
	lane, err := ctx.lane(slotName)
	if err != nil {
		return err
	}
	if lane.VesselName != name {
		return fmt.Errorf("expected %s lane vessel %q, got %q", slotName, name, lane.VesselName)
	}
	return nil
}

func (ctx *snapshotContext) theLaneSourceIs(slotName, source string) error {
	if err := ctx.theRequestSucceeds(); err != nil {
		return err
	}
	var got ferry.LaneSource
	switch slotName {
	case "upper":
		got = ctx.snapshot.Meta.Lanes.Upper
	case "lower":
		got = ctx.snapshot.Meta.Lanes.Lower
	default:
		return fmt.Errorf("unknown lane %q", slotName)
	}
	if string(got) != source {
		return fmt.Errorf("expected %s lane source %q, got %q", slotName, source, got)
	}
	return nil
}

func (ctx *snapshotContext) theLaneIsAtDock(slotName string) error {
	lane, err := ctx.lane(slotName)
	if err != nil {
		return err
	}
	if !lane.AtDock {
		return fmt.Errorf("expected %s lane at dock", slotName)
	}
	return nil
}

func (ctx *snapshotContext) theLaneIsUnderway(slotName string) error {
	lane, err := ctx.lane(slotName)
	if err != nil {
		return err
	}
	if lane.Phase != ferry.PhaseUnderway {
		return fmt.Errorf("expected %s lane underway, got phase %q", slotName, lane.Phase)
	}
	return nil
}

func (ctx *snapshotContext) theLaneDotPositionIsAbout(slotName string, expected float64) error {
	lane, err := ctx.lane(slotName)
	if err != nil {
		return err
	}
	diff := lane.DotPosition - expected
	if diff < -0.01 || diff > 0.01 {
		return fmt.Errorf("expected %s lane dot position ~%v, got %v", slotName, expected, lane.DotPosition)
	}
	return nil
}

func (ctx *snapshotContext) theLaneHasASyntheticDockStart(slotName string) error {
	lane, err := ctx.lane(slotName)
	if err != nil {
		return err
	}
	if lane.DockStartTime == nil || !lane.DockStartSynthetic {
		return fmt.Errorf("expected %s lane with synthetic dock start", slotName)
	}
	return nil
}

func (ctx *snapshotContext) theLaneHasNoDockStart(slotName string) error {
	lane, err := ctx.lane(slotName)
	if err != nil {
		return err
	}
	if lane.DockStartTime != nil || lane.DockArcFraction != nil {
		return fmt.Errorf("expected %s lane without dock state", slotName)
	}
	return nil
}

func (ctx *snapshotContext) theWestCapacityShowsSpaces(expected int) error {
	if err := ctx.theRequestSucceeds(); err != nil {
		return err
	}
	if ctx.snapshot.Capacity == nil || ctx.snapshot.Capacity.West == nil {
		return fmt.Errorf("expected west capacity, got none")
	}
	avail := ctx.snapshot.Capacity.West.AvailAuto
	if avail == nil || *avail != expected {
		return fmt.Errorf("expected west availAuto %d, got %v", expected, avail)
	}
	return nil
}

func (ctx *snapshotContext) noCapacityIsReported() error {
	if err := ctx.theRequestSucceeds(); err != nil {
		return err
	}
	if ctx.snapshot.Capacity != nil {
		return fmt.Errorf("expected no capacity, got %+v", ctx.snapshot.Capacity)
	}
	return nil
}

// InitializeSnapshotScenario registers the snapshot assembly steps.
func InitializeSnapshotScenario(sc *godog.ScenarioContext) {
	ctx := &snapshotContext{}

	sc.Before(func(c context.Context, sn *godog.Scenario) (context.Context, error) {
		ctx.reset()
		return c, nil
	})

	sc.Step(`^the schedule lists vessel (\d+) "([^"]*)" in position (\d+) departing terminal (\d+)$`, ctx.theScheduleListsVessel)
	sc.Step(`^vessel (\d+) "([^"]*)" is underway from terminal (\d+) to terminal (\d+), left dock (\d+) minutes ago with eta in (\d+) minutes$`, ctx.vesselIsUnderway)
	sc.Step(`^vessel (\d+) "([^"]*)" is at dock at terminal (\d+) with scheduled departure in (\d+) minutes$`, ctx.vesselIsAtDock)
	sc.Step(`^terminal (\d+) advertises (\d+) drive-up spaces for vessel (\d+) "([^"]*)" departing in (\d+) minutes toward terminal (\d+)$`, ctx.terminalAdvertisesSpaces)
	sc.Step(`^the vessels feed is unavailable$`, ctx.theVesselsFeedIsUnavailable)
	sc.Step(`^the schedule feed is unavailable$`, ctx.theScheduleFeedIsUnavailable)
	sc.Step(`^(\d+) minutes pass$`, ctx.minutesPass)

	sc.Step(`^I request the snapshot for route (\d+)$`, ctx.iRequestTheSnapshotForRoute)

	sc.Step(`^the request succeeds$`, ctx.theRequestSucceeds)
	sc.Step(`^the request fails with unknown route$`, ctx.theRequestFailsWithUnknownRoute)
	sc.Step(`^the fallback mode is "([^"]*)"$`, ctx.theFallbackModeIs)
	sc.Step(`^the fallback reason is "([^"]*)"$`, ctx.theFallbackReasonIs)
	sc.Step(`^the (upper|lower) lane carries vessel "([^"]*)"$`, ctx.theLaneCarriesVessel)
	sc.Step(`^the (upper|lower) lane source is "([^"]*)"$`, ctx.theLaneSourceIs)
	sc.Step(`^the (upper|lower) lane is at dock$`, ctx.theLaneIsAtDock)
	sc.Step(`^the (upper|lower) lane is underway$`, ctx.theLaneIsUnderway)
	sc.Step(`^the (upper|lower) lane dot position is about ([0-9.]+)$`, ctx.theLaneDotPositionIsAbout)
	sc.Step(`^the (upper|lower) lane has a synthetic dock start$`, ctx.theLaneHasASyntheticDockStart)
	sc.Step(`^the (upper|lower) lane has no dock start$`, ctx.theLaneHasNoDockStart)
	sc.Step(`^the west capacity shows (\d+) drive-up spaces$`, ctx.theWestCapacityShowsSpaces)
	sc.Step(`^no capacity is reported$`, ctx.noCapacityIsReported)
}
