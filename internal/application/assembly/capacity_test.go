package assembly_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/application/assembly"
)

func newDeriver() *assembly.CapacityDeriver {
	return assembly.NewCapacityDeriver(assembly.NewStickyMaxStore(), 10*time.Minute)
}

// spacesFixture builds one terminal with a single future departure toward the
// opposite terminal.
func spacesFixture(terminalID, oppID, vesselID int, vesselName string, departure time.Time, maxCount, driveUp *int) []wsf.TerminalSpace {
	return []wsf.TerminalSpace{{
		TerminalID: terminalID,
		DepartingSpaces: []wsf.DepartingSpace{{
			Departure:     &departure,
			VesselID:      vesselID,
			VesselName:    vesselName,
			MaxSpaceCount: maxCount,
			ArrivalSpaces: []wsf.ArrivalSpace{{
				TerminalID:        oppID,
				DriveUpSpaceCount: driveUp,
				MaxSpaceCount:     maxCount,
			}},
		}},
	}}
}

func TestDerive_NextSailing(t *testing.T) {
	// Arrange
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 18, "Tacoma", now.Add(15*time.Minute), intPtr(202), intPtr(80))

	// Act
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now)

	// Assert
	require.NotNil(t, capacity)
	assert.Equal(t, 3, capacity.TerminalID)
	assert.Equal(t, 18, capacity.VesselID)
	assert.Equal(t, "Tacoma", capacity.VesselName)
	require.NotNil(t, capacity.AvailAuto)
	assert.Equal(t, 80, *capacity.AvailAuto)
	require.NotNil(t, capacity.MaxAuto)
	assert.Equal(t, 202, *capacity.MaxAuto)
	assert.False(t, capacity.IsStale)
}

func TestDerive_SkipsPastDepartures(t *testing.T) {
	// Arrange - one departed sailing, one upcoming
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-5 * time.Minute)
	future := now.Add(40 * time.Minute)
	spaces := []wsf.TerminalSpace{{
		TerminalID: 3,
		DepartingSpaces: []wsf.DepartingSpace{
			{
				Departure: &past, VesselID: 18, VesselName: "Tacoma",
				ArrivalSpaces: []wsf.ArrivalSpace{{TerminalID: 7, DriveUpSpaceCount: intPtr(5)}},
			},
			{
				Departure: &future, VesselID: 33, VesselName: "Chelan",
				ArrivalSpaces: []wsf.ArrivalSpace{{TerminalID: 7, DriveUpSpaceCount: intPtr(120)}},
			},
		},
	}}

	// Act
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, nil, now)

	// Assert
	require.NotNil(t, capacity)
	assert.Equal(t, 33, capacity.VesselID)
	assert.Equal(t, 120, *capacity.AvailAuto)
}

func TestDerive_PrefersHintedVessel(t *testing.T) {
	// Arrange - an earlier sailing by another vessel, then the scheduled one
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	early := now.Add(10 * time.Minute)
	later := now.Add(30 * time.Minute)
	spaces := []wsf.TerminalSpace{{
		TerminalID: 3,
		DepartingSpaces: []wsf.DepartingSpace{
			{
				Departure: &early, VesselID: 99, VesselName: "Other",
				ArrivalSpaces: []wsf.ArrivalSpace{{TerminalID: 7, DriveUpSpaceCount: intPtr(10)}},
			},
			{
				Departure: &later, VesselID: 18, VesselName: "Tacoma",
				ArrivalSpaces: []wsf.ArrivalSpace{{TerminalID: 7, DriveUpSpaceCount: intPtr(75)}},
			},
		},
	}}

	// Act
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now)

	// Assert
	require.NotNil(t, capacity)
	assert.Equal(t, 18, capacity.VesselID)
	assert.Equal(t, 75, *capacity.AvailAuto)
	assert.False(t, capacity.IsStale)
}

func TestDerive_HintMissFallsBackAndMarksStale(t *testing.T) {
	// Arrange - scheduled vessel absent from the feed
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 99, "Other", now.Add(15*time.Minute), intPtr(144), intPtr(60))

	// Act
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now)

	// Assert
	require.NotNil(t, capacity)
	assert.Equal(t, 99, capacity.VesselID)
	assert.True(t, capacity.IsStale)
}

func TestDerive_NoHintIsNotStale(t *testing.T) {
	// Arrange - no schedule-chosen vessel for this side
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 99, "Other", now.Add(15*time.Minute), intPtr(144), intPtr(60))

	// Act
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, nil, now)

	// Assert
	require.NotNil(t, capacity)
	assert.False(t, capacity.IsStale)
}

func TestDerive_StickyMaxNeverRevisedDown(t *testing.T) {
	// Arrange - first observation carries the real ceiling
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 18, "Tacoma", now.Add(15*time.Minute), intPtr(202), intPtr(80))
	first := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now)
	require.NotNil(t, first)
	require.Equal(t, 202, *first.MaxAuto)

	// Act - upstream later reports zero max mid-loading
	later := now.Add(2 * time.Minute)
	spacesZero := spacesFixture(3, 7, 18, "Tacoma", later.Add(13*time.Minute), intPtr(0), intPtr(40))
	second := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spacesZero, intPtr(18), later)

	// Assert
	require.NotNil(t, second)
	require.NotNil(t, second.MaxAuto)
	assert.Equal(t, 202, *second.MaxAuto)
	assert.Equal(t, 40, *second.AvailAuto)
}

func TestDerive_NoTuplesUsesLastGood(t *testing.T) {
	// Arrange - derive once live, then the feed returns nothing for the side
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 18, "Tacoma", now.Add(15*time.Minute), intPtr(202), intPtr(80))
	require.NotNil(t, deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now))

	// Act
	later := now.Add(5 * time.Minute)
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), nil, intPtr(18), later)

	// Assert - last-good copy, marked stale, timestamp refreshed
	require.NotNil(t, capacity)
	assert.True(t, capacity.IsStale)
	assert.Equal(t, 80, *capacity.AvailAuto)
	assert.Equal(t, later, capacity.LastUpdated)
}

func TestDerive_LastGoodExpires(t *testing.T) {
	// Arrange
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 18, "Tacoma", now.Add(15*time.Minute), intPtr(202), intPtr(80))
	require.NotNil(t, deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now))

	// Act - past the TTL
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), nil, intPtr(18), now.Add(11*time.Minute))

	// Assert
	assert.Nil(t, capacity)
}

func TestDerive_NeverFabricatesZero(t *testing.T) {
	// Arrange - a tuple exists but carries no drive-up count, and there is no
	// last-good entry
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 18, "Tacoma", now.Add(15*time.Minute), intPtr(202), nil)

	// Act
	capacity := deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now)

	// Assert - nil, not zero
	assert.Nil(t, capacity)
}

func TestDerive_UnresolvedTerminalUsesLastGood(t *testing.T) {
	// Arrange
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	spaces := spacesFixture(3, 7, 18, "Tacoma", now.Add(15*time.Minute), intPtr(202), intPtr(80))
	require.NotNil(t, deriver.Derive(5, assembly.SideWest, intPtr(3), intPtr(7), spaces, intPtr(18), now))

	// Act - terminal resolution lost
	capacity := deriver.Derive(5, assembly.SideWest, nil, intPtr(7), spaces, intPtr(18), now.Add(time.Minute))

	// Assert
	require.NotNil(t, capacity)
	assert.True(t, capacity.IsStale)
}

func TestDerive_ArrivalTerminalListMatch(t *testing.T) {
	// Arrange - arrival covered only through ArrivalTerminalIDs
	deriver := newDeriver()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	departure := now.Add(20 * time.Minute)
	spaces := []wsf.TerminalSpace{{
		TerminalID: 9,
		DepartingSpaces: []wsf.DepartingSpace{{
			Departure: &departure, VesselID: 25, VesselName: "Kittitas",
			ArrivalSpaces: []wsf.ArrivalSpace{{
				TerminalID:         22,
				ArrivalTerminalIDs: []int{22, 20},
				DriveUpSpaceCount:  intPtr(30),
			}},
		}},
	}}

	// Act - opposite terminal 20 appears only in the list
	capacity := deriver.Derive(13, assembly.SideEast, intPtr(9), intPtr(20), spaces, nil, now)

	// Assert
	require.NotNil(t, capacity)
	assert.Equal(t, 25, capacity.VesselID)
	assert.Equal(t, 30, *capacity.AvailAuto)
}
