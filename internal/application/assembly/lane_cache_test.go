package assembly_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferryclock/internal/application/assembly"
	"ferryclock/internal/domain/ferry"
)

func TestLaneCache_PutAndGet(t *testing.T) {
	// Arrange
	cache := assembly.NewLaneCache(10 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	lane := ferry.Lane{Slot: 1, VesselName: "Tacoma"}

	// Act
	cache.Put(5, 1, lane, now)
	got, ok := cache.Get(5, 1, now.Add(5*time.Minute))

	// Assert
	require.True(t, ok)
	assert.Equal(t, "Tacoma", got.VesselName)
}

func TestLaneCache_ExpiresAfterTTL(t *testing.T) {
	// Arrange
	cache := assembly.NewLaneCache(10 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.Put(5, 1, ferry.Lane{Slot: 1}, now)

	// Act
	_, ok := cache.Get(5, 1, now.Add(11*time.Minute))

	// Assert
	assert.False(t, ok)
}

func TestLaneCache_MissesOtherSlot(t *testing.T) {
	// Arrange
	cache := assembly.NewLaneCache(10 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.Put(5, 1, ferry.Lane{Slot: 1}, now)

	// Act
	_, ok := cache.Get(5, 2, now)

	// Assert
	assert.False(t, ok)
}

func TestLaneCache_ReturnsValueCopy(t *testing.T) {
	// Arrange
	cache := assembly.NewLaneCache(10 * time.Minute)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	cache.Put(5, 1, ferry.Lane{Slot: 1, VesselName: "Tacoma"}, now)

	// Act - mutate the returned lane
	got, ok := cache.Get(5, 1, now)
	require.True(t, ok)
	got.VesselName = "mutated"

	// Assert
	again, ok := cache.Get(5, 1, now)
	require.True(t, ok)
	assert.Equal(t, "Tacoma", again.VesselName)
}

func TestStickyMaxStore_WriteOncePositive(t *testing.T) {
	// Arrange
	store := assembly.NewStickyMaxStore()

	// Act - zero and nil are ignored, first positive sticks, later values don't
	store.Observe(18, intPtr(0))
	store.Observe(18, nil)
	assert.Nil(t, store.Get(18))

	store.Observe(18, intPtr(202))
	store.Observe(18, intPtr(150))
	store.Observe(18, intPtr(0))

	// Assert
	got := store.Get(18)
	require.NotNil(t, got)
	assert.Equal(t, 202, *got)
}

func TestStickyMaxStore_PerVessel(t *testing.T) {
	// Arrange
	store := assembly.NewStickyMaxStore()

	// Act
	store.Observe(18, intPtr(202))
	store.Observe(33, intPtr(124))

	// Assert
	require.NotNil(t, store.Get(18))
	require.NotNil(t, store.Get(33))
	assert.Equal(t, 202, *store.Get(18))
	assert.Equal(t, 124, *store.Get(33))
	assert.Nil(t, store.Get(99))
}
