package ferry

import "time"

// Direction is the lane's travel direction across the route.
type Direction string

const (
	DirectionWestToEast Direction = "west_to_east"
	DirectionEastToWest Direction = "east_to_west"
	DirectionUnknown    Direction = "unknown"
)

// Phase is where the lane's vessel is in its cycle.
type Phase string

const (
	PhaseAtDock   Phase = "at_dock"
	PhaseUnderway Phase = "underway"
	PhaseUnknown  Phase = "unknown"
)

// LaneSource records where a lane's data came from for this assembly.
type LaneSource string

const (
	LaneSourceLive    LaneSource = "live"
	LaneSourceStale   LaneSource = "stale"
	LaneSourceMissing LaneSource = "missing"
)

// Fallback modes for the whole snapshot.
const (
	FallbackLive      = "live"
	FallbackPartial   = "partial"
	FallbackSynthetic = "synthetic"
)

// LaneIdentity is the schedule-derived occupant of a lane slot. Lane identity
// is stable across the day even as the vessel reverses direction, which is
// why it comes from the schedule rather than telemetry.
type LaneIdentity struct {
	Slot       int
	VesselID   int
	VesselName string
}

// LiveVessel is a normalised vessel-locations record.
type LiveVessel struct {
	VesselID            int
	VesselName          string
	DepartingTerminalID *int
	ArrivingTerminalID  *int
	AtDock              bool
	LeftDock            *time.Time
	Eta                 *time.Time
	ScheduledDeparture  *time.Time
	TimeStamp           *time.Time
}

// ScheduleRow is one flattened sailing from today's schedule.
type ScheduleRow struct {
	RouteID             int
	DepartingTerminalID int
	VesselPositionNum   int
	VesselID            int
	VesselName          string
}

// Lane is one of the two display slots of a snapshot.
type Lane struct {
	Slot                int        `json:"slot"`
	VesselID            *int       `json:"vesselId"`
	VesselName          string     `json:"vesselName"`
	AtDock              bool       `json:"atDock"`
	Direction           Direction  `json:"direction"`
	DepartingTerminalID *int       `json:"departingTerminalId"`
	ArrivingTerminalID  *int       `json:"arrivingTerminalId"`
	ScheduledDeparture  *time.Time `json:"scheduledDeparture"`
	LeftDock            *time.Time `json:"leftDock"`
	Eta                 *time.Time `json:"eta"`
	ArrivalTime         *time.Time `json:"arrivalTime"`
	Phase               Phase      `json:"phase"`
	DotPosition         float64    `json:"dotPosition"`
	DockStartTime       *time.Time `json:"dockStartTime"`
	DockStartSynthetic  bool       `json:"dockStartSynthetic"`
	DockArcFraction     *float64   `json:"dockArcFraction"`
	LastUpdatedVessels  time.Time  `json:"lastUpdatedVessels"`
	IsStale             bool       `json:"isStale"`
}

// Capacity is the advertised drive-on availability for the next sailing
// from one side of the route.
type Capacity struct {
	TerminalID  int       `json:"terminalId"`
	VesselID    int       `json:"vesselId"`
	VesselName  string    `json:"vesselName"`
	MaxAuto     *int      `json:"maxAuto"`
	AvailAuto   *int      `json:"availAuto"`
	LastUpdated time.Time `json:"lastUpdated"`
	IsStale     bool      `json:"isStale"`
}

// RouteEcho is the snapshot's echo of the requested route, with resolved
// terminal IDs and upper-cased display labels.
type RouteEcho struct {
	RouteID         int    `json:"routeId"`
	Description     string `json:"description"`
	WestName        string `json:"westName"`
	EastName        string `json:"eastName"`
	WestTerminalID  *int   `json:"westTerminalId"`
	EastTerminalID  *int   `json:"eastTerminalId"`
	CrossingMinutes int    `json:"crossingMinutes"`
}

// Lanes holds the two display slots.
type Lanes struct {
	Upper Lane `json:"upper"`
	Lower Lane `json:"lower"`
}

// CapacityPair holds per-side capacity; either side may be null.
type CapacityPair struct {
	West *Capacity `json:"west"`
	East *Capacity `json:"east"`
}

// Fallback summarises how degraded this snapshot is.
type Fallback struct {
	Mode   string `json:"mode"`
	Reason string `json:"reason"`
}

// LaneSources labels where each lane's data came from.
type LaneSources struct {
	Upper LaneSource `json:"upper"`
	Lower LaneSource `json:"lower"`
}

// Meta is the snapshot's freshness and degradation summary.
type Meta struct {
	VesselsStale  bool        `json:"vesselsStale"`
	CapacityStale bool        `json:"capacityStale"`
	ScheduleStale bool        `json:"scheduleStale"`
	Lanes         LaneSources `json:"lanes"`
	Fallback      Fallback    `json:"fallback"`
}

// Snapshot is the assembled dot-state for one route.
type Snapshot struct {
	Route    RouteEcho     `json:"route"`
	Lanes    Lanes         `json:"lanes"`
	Capacity *CapacityPair `json:"capacity"`
	Meta     Meta          `json:"meta"`
}
