package wsf_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ferryclock/internal/adapters/wsf"
	"ferryclock/internal/domain/shared"
)

func newTestClient(t *testing.T, baseURL string) *wsf.Client {
	t.Helper()
	clock := shared.NewMockClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	client, err := wsf.NewClientWithConfig("test-code", baseURL, 2, 100*time.Millisecond, clock)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAccessCode(t *testing.T) {
	// Act
	_, err := wsf.NewClient("")

	// Assert
	require.Error(t, err)
	var cfgErr *shared.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestFetchVessels_SendsAccessCode(t *testing.T) {
	// Arrange
	var gotCode string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCode = r.URL.Query().Get("apiaccesscode")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	vessels, err := client.FetchVessels(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Empty(t, vessels)
	assert.Equal(t, "test-code", gotCode)
}

func TestFetchVessels_NormalisesDates(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"VesselID": 18,
			"VesselName": "Tacoma",
			"DepartingTerminalID": 3,
			"ArrivingTerminalID": 7,
			"AtDock": false,
			"LeftDock": "/Date(1717243200000-0700)/",
			"Eta": "/Date(1717245300000-0700)/",
			"ScheduledDeparture": "/Date(1717243200000-0700)/",
			"TimeStamp": "/Date(1717243500000-0700)/"
		}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	vessels, err := client.FetchVessels(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, vessels, 1)
	v := vessels[0]
	assert.Equal(t, 18, v.VesselID)
	assert.Equal(t, "Tacoma", v.VesselName)
	require.NotNil(t, v.DepartingTerminalID)
	assert.Equal(t, 3, *v.DepartingTerminalID)
	require.NotNil(t, v.LeftDock)
	assert.Equal(t, time.UnixMilli(1717243200000).UTC(), *v.LeftDock)
	require.NotNil(t, v.Eta)
	assert.Equal(t, time.UnixMilli(1717245300000).UTC(), *v.Eta)
}

func TestFetchVessels_NullTerminalsSurviveDecoding(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"VesselID": 33,
			"VesselName": "Chelan",
			"DepartingTerminalID": null,
			"ArrivingTerminalID": null,
			"AtDock": true,
			"LeftDock": "",
			"Eta": "",
			"ScheduledDeparture": "",
			"TimeStamp": ""
		}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	vessels, err := client.FetchVessels(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, vessels, 1)
	assert.Nil(t, vessels[0].DepartingTerminalID)
	assert.Nil(t, vessels[0].ArrivingTerminalID)
	assert.Nil(t, vessels[0].LeftDock)
	assert.True(t, vessels[0].AtDock)
}

func TestFetchTerminalSpaces_MissingDriveUpStaysNil(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"TerminalID": 3,
			"DepartingSpaces": [{
				"Departure": "/Date(1717246800000-0700)/",
				"VesselID": 18,
				"VesselName": "Tacoma",
				"MaxSpaceCount": 202,
				"SpaceForArrivalTerminals": [{
					"TerminalID": 7,
					"ArrivalTerminalIDs": [7],
					"MaxSpaceCount": 202
				}]
			}]
		}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	spaces, err := client.FetchTerminalSpaces(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	require.Len(t, spaces[0].DepartingSpaces, 1)
	require.Len(t, spaces[0].DepartingSpaces[0].ArrivalSpaces, 1)
	arr := spaces[0].DepartingSpaces[0].ArrivalSpaces[0]
	assert.Nil(t, arr.DriveUpSpaceCount, "absent DriveUpSpaceCount must not read as zero")
	require.NotNil(t, arr.MaxSpaceCount)
	assert.Equal(t, 202, *arr.MaxSpaceCount)
}

func TestFetchSchedule_FlattensAndDropsCancelled(t *testing.T) {
	// Arrange
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"TerminalCombos": [{
				"DepartingTerminalID": 3,
				"DepartingTerminalName": "Bainbridge Island",
				"ArrivingTerminalID": 7,
				"Times": [
					{"VesselPositionNum": 1, "VesselID": 18, "VesselName": "Tacoma", "DepartingTime": "/Date(1717243200000-0700)/", "IsCancelled": false},
					{"VesselPositionNum": 2, "VesselID": 33, "VesselName": "Chelan", "DepartingTime": "/Date(1717245000000-0700)/", "IsCancelled": true}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	rows, err := client.FetchSchedule(context.Background(), 5, "2024-06-01")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/ferries/api/schedule/rest/schedule/2024-06-01/5", gotPath)
	require.Len(t, rows, 1, "cancelled sailings are dropped")
	assert.Equal(t, 18, rows[0].VesselID)
	assert.Equal(t, 1, rows[0].VesselPositionNum)
	assert.Equal(t, 3, rows[0].DepartingTerminalID)
}

func TestDoRequest_RetriesOn5xx(t *testing.T) {
	// Arrange
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	_, err := client.FetchVessels(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestDoRequest_ExhaustedRetriesReturnTransient(t *testing.T) {
	// Arrange
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	_, err := client.FetchVessels(context.Background())

	// Assert
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	var upstreamErr *shared.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.True(t, upstreamErr.Transient)
	assert.Equal(t, wsf.FeedVessels, upstreamErr.Feed)
}

func TestDoRequest_NoRetryOn4xx(t *testing.T) {
	// Arrange
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	_, err := client.FetchVessels(context.Background())

	// Assert
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "4xx is permanent")
	var upstreamErr *shared.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.False(t, upstreamErr.Transient)
	assert.Equal(t, http.StatusUnauthorized, upstreamErr.StatusCode)
}

func TestDoRequest_ParseFailureIsPermanent(t *testing.T) {
	// Arrange
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	// Act
	_, err := client.FetchVessels(context.Background())

	// Assert
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	var upstreamErr *shared.UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	assert.False(t, upstreamErr.Transient)
}
