package assembly

import (
	"context"

	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/domain/ferry"
)

// UpstreamClient is the assembler's view of the ferry operations API. The
// three feeds fail independently; the assembler degrades per feed.
type UpstreamClient interface {
	FetchVessels(ctx context.Context) ([]ferry.LiveVessel, error)
	FetchTerminalSpaces(ctx context.Context) ([]wsf.TerminalSpace, error)
	FetchSchedule(ctx context.Context, routeID int, dateText string) ([]ferry.ScheduleRow, error)
}

// SnapshotRecorder receives assembly telemetry. A nil recorder disables
// recording.
type SnapshotRecorder interface {
	RecordSnapshot(mode string, duration float64)
	RecordLaneSource(slot int, source string)
}
