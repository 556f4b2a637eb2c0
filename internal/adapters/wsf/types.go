package wsf

import "time"

// TerminalSpace is the normalised per-terminal drive-on availability record.
// The structural shape mirrors the upstream payload; interpretation (picking
// the next sailing, sticky maxima) happens in the capacity deriver.
type TerminalSpace struct {
	TerminalID      int
	DepartingSpaces []DepartingSpace
}

// DepartingSpace is one imminent departing sailing from a terminal.
type DepartingSpace struct {
	Departure     *time.Time
	VesselID      int
	VesselName    string
	MaxSpaceCount *int
	ArrivalSpaces []ArrivalSpace
}

// ArrivalSpace is the availability toward one possible arrival terminal.
// DriveUpSpaceCount may be absent upstream and is never coerced to zero.
type ArrivalSpace struct {
	TerminalID         int
	ArrivalTerminalIDs []int
	DriveUpSpaceCount  *int
	MaxSpaceCount      *int
}

// MatchesArrival reports whether this entry covers the given terminal.
func (a ArrivalSpace) MatchesArrival(terminalID int) bool {
	if a.TerminalID == terminalID {
		return true
	}
	for _, id := range a.ArrivalTerminalIDs {
		if id == terminalID {
			return true
		}
	}
	return false
}
