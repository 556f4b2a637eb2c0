package assembly

import "ferryclock/internal/domain/ferry"

// LaneSelection is the schedule-derived occupant of each lane slot for the
// day. A nil identity means the schedule had no row for that slot.
type LaneSelection struct {
	Upper         *ferry.LaneIdentity
	Lower         *ferry.LaneIdentity
	ScheduleError bool
}

// ResolveLanes determines which vessel occupies each lane slot from today's
// schedule. Only rows departing the west-side terminal are considered: lane
// identity must stay stable across direction reversals, and the west-side
// departure list carries each vessel exactly once per sailing with its
// position number. The first position-1 row is the upper lane, the first
// position-2 row the lower.
//
// ScheduleError is set when the fetch failed or when no usable rows produced
// either identity; the assembler answers that with a synthetic snapshot.
func ResolveLanes(rows []ferry.ScheduleRow, westTerminalID *int, fetchErr error) LaneSelection {
	sel := LaneSelection{}
	if fetchErr != nil {
		sel.ScheduleError = true
		return sel
	}
	if westTerminalID == nil {
		sel.ScheduleError = true
		return sel
	}

	for _, row := range rows {
		if row.DepartingTerminalID != *westTerminalID {
			continue
		}
		switch row.VesselPositionNum {
		case 1:
			if sel.Upper == nil {
				sel.Upper = &ferry.LaneIdentity{Slot: 1, VesselID: row.VesselID, VesselName: row.VesselName}
			}
		case 2:
			if sel.Lower == nil {
				sel.Lower = &ferry.LaneIdentity{Slot: 2, VesselID: row.VesselID, VesselName: row.VesselName}
			}
		}
		if sel.Upper != nil && sel.Lower != nil {
			break
		}
	}

	if sel.Upper == nil && sel.Lower == nil {
		sel.ScheduleError = true
	}
	return sel
}
