package wsf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"ferryclock/internal/domain/ferry"
	"ferryclock/internal/domain/shared"
)

const (
	defaultBaseURL = "https://www.wsdot.wa.gov"

	vesselLocationsPath   = "/ferries/api/vessels/rest/vessellocations"
	terminalSpacePath     = "/ferries/api/terminals/rest/terminalsailingspace"
	scheduleByDatePathFmt = "/ferries/api/schedule/rest/schedule/%s/%d"

	defaultTimeout     = 8 * time.Second
	defaultMaxAttempts = 2
	defaultBackoffBase = 500 * time.Millisecond

	breakerMaxFailures = 5
	breakerTimeout     = 30 * time.Second
)

// Feed names, used for error attribution, breakers and metrics.
const (
	FeedVessels  = "vessels"
	FeedSpaces   = "terminalspace"
	FeedSchedule = "schedule"
)

// RequestRecorder receives upstream request telemetry. A nil recorder
// disables recording.
type RequestRecorder interface {
	RecordUpstreamRequest(feed, outcome string, duration float64)
	RecordUpstreamRetry(feed, reason string)
}

// Client talks to the three WSDOT ferry feeds. Requests carry the process
// access code, time out after 8 seconds, and are retried once after a fixed
// backoff on transient failures (network errors, 5xx). 4xx responses and
// parse failures are permanent. Each feed sits behind its own circuit
// breaker so a dead upstream stops costing the full timeout per assembly.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	accessCode  string
	maxAttempts int
	backoffBase time.Duration
	clock       shared.Clock
	breakers    map[string]*CircuitBreaker
	recorder    RequestRecorder
}

// NewClient creates a client with default settings. The access code is the
// process-wide API credential; its absence is a fatal configuration error.
func NewClient(accessCode string) (*Client, error) {
	return NewClientWithConfig(accessCode, defaultBaseURL, defaultMaxAttempts, defaultBackoffBase, nil)
}

// NewClientWithConfig creates a client with custom configuration.
// If clock is nil, uses RealClock.
func NewClientWithConfig(
	accessCode string,
	baseURL string,
	maxAttempts int,
	backoffBase time.Duration,
	clock shared.Clock,
) (*Client, error) {
	if accessCode == "" {
		return nil, shared.NewConfigurationError("upstream access code is required")
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(4), 4),
		baseURL:     baseURL,
		accessCode:  accessCode,
		maxAttempts: maxAttempts,
		backoffBase: backoffBase,
		clock:       clock,
		breakers:    make(map[string]*CircuitBreaker, 3),
	}
	for _, feed := range []string{FeedVessels, FeedSpaces, FeedSchedule} {
		c.breakers[feed] = NewCircuitBreaker(breakerMaxFailures, breakerTimeout, clock)
	}
	return c, nil
}

// SetRecorder attaches a telemetry recorder. Safe to leave unset.
func (c *Client) SetRecorder(r RequestRecorder) {
	c.recorder = r
}

// FetchVessels returns every vessel currently on the water, normalised.
func (c *Client) FetchVessels(ctx context.Context) ([]ferry.LiveVessel, error) {
	var raw []struct {
		VesselID            int    `json:"VesselID"`
		VesselName          string `json:"VesselName"`
		DepartingTerminalID *int   `json:"DepartingTerminalID"`
		ArrivingTerminalID  *int   `json:"ArrivingTerminalID"`
		AtDock              bool   `json:"AtDock"`
		LeftDock            string `json:"LeftDock"`
		Eta                 string `json:"Eta"`
		ScheduledDeparture  string `json:"ScheduledDeparture"`
		TimeStamp           string `json:"TimeStamp"`
	}

	if err := c.request(ctx, FeedVessels, vesselLocationsPath, &raw); err != nil {
		return nil, err
	}

	vessels := make([]ferry.LiveVessel, 0, len(raw))
	for _, v := range raw {
		leftDock, err := ParseWSDOTDate(v.LeftDock)
		if err != nil {
			return nil, shared.NewUpstreamPermanentError(FeedVessels, "bad LeftDock", 0, err)
		}
		eta, err := ParseWSDOTDate(v.Eta)
		if err != nil {
			return nil, shared.NewUpstreamPermanentError(FeedVessels, "bad Eta", 0, err)
		}
		scheduled, err := ParseWSDOTDate(v.ScheduledDeparture)
		if err != nil {
			return nil, shared.NewUpstreamPermanentError(FeedVessels, "bad ScheduledDeparture", 0, err)
		}
		stamp, err := ParseWSDOTDate(v.TimeStamp)
		if err != nil {
			return nil, shared.NewUpstreamPermanentError(FeedVessels, "bad TimeStamp", 0, err)
		}
		vessels = append(vessels, ferry.LiveVessel{
			VesselID:            v.VesselID,
			VesselName:          v.VesselName,
			DepartingTerminalID: v.DepartingTerminalID,
			ArrivingTerminalID:  v.ArrivingTerminalID,
			AtDock:              v.AtDock,
			LeftDock:            leftDock,
			Eta:                 eta,
			ScheduledDeparture:  scheduled,
			TimeStamp:           stamp,
		})
	}
	return vessels, nil
}

// FetchTerminalSpaces returns per-terminal drive-on availability, broken
// down by departing sailing and possible arrival terminal. Interpretation
// happens in the capacity deriver; this only normalises structure and dates.
func (c *Client) FetchTerminalSpaces(ctx context.Context) ([]TerminalSpace, error) {
	var raw []struct {
		TerminalID      int `json:"TerminalID"`
		DepartingSpaces []struct {
			Departure                string `json:"Departure"`
			VesselID                 int    `json:"VesselID"`
			VesselName               string `json:"VesselName"`
			MaxSpaceCount            *int   `json:"MaxSpaceCount"`
			SpaceForArrivalTerminals []struct {
				TerminalID         int   `json:"TerminalID"`
				ArrivalTerminalIDs []int `json:"ArrivalTerminalIDs"`
				// DriveUpSpaceCount may be absent; a missing count must not
				// read as zero spaces.
				DriveUpSpaceCount *int `json:"DriveUpSpaceCount"`
				MaxSpaceCount     *int `json:"MaxSpaceCount"`
			} `json:"SpaceForArrivalTerminals"`
		} `json:"DepartingSpaces"`
	}

	if err := c.request(ctx, FeedSpaces, terminalSpacePath, &raw); err != nil {
		return nil, err
	}

	spaces := make([]TerminalSpace, 0, len(raw))
	for _, t := range raw {
		ts := TerminalSpace{TerminalID: t.TerminalID}
		for _, d := range t.DepartingSpaces {
			departure, err := ParseWSDOTDate(d.Departure)
			if err != nil {
				return nil, shared.NewUpstreamPermanentError(FeedSpaces, "bad Departure", 0, err)
			}
			ds := DepartingSpace{
				Departure:     departure,
				VesselID:      d.VesselID,
				VesselName:    d.VesselName,
				MaxSpaceCount: d.MaxSpaceCount,
			}
			for _, a := range d.SpaceForArrivalTerminals {
				ds.ArrivalSpaces = append(ds.ArrivalSpaces, ArrivalSpace{
					TerminalID:         a.TerminalID,
					ArrivalTerminalIDs: a.ArrivalTerminalIDs,
					DriveUpSpaceCount:  a.DriveUpSpaceCount,
					MaxSpaceCount:      a.MaxSpaceCount,
				})
			}
			ts.DepartingSpaces = append(ts.DepartingSpaces, ds)
		}
		spaces = append(spaces, ts)
	}
	return spaces, nil
}

// FetchSchedule returns today's scheduled departures for a route, flattened
// to one row per sailing. Cancelled sailings are dropped; a cancelled
// sailing cannot define lane identity.
func (c *Client) FetchSchedule(ctx context.Context, routeID int, dateText string) ([]ferry.ScheduleRow, error) {
	var raw struct {
		TerminalCombos []struct {
			DepartingTerminalID   int    `json:"DepartingTerminalID"`
			DepartingTerminalName string `json:"DepartingTerminalName"`
			ArrivingTerminalID    int    `json:"ArrivingTerminalID"`
			Times                 []struct {
				VesselPositionNum int    `json:"VesselPositionNum"`
				VesselID          int    `json:"VesselID"`
				VesselName        string `json:"VesselName"`
				DepartingTime     string `json:"DepartingTime"`
				IsCancelled       bool   `json:"IsCancelled"`
			} `json:"Times"`
		} `json:"TerminalCombos"`
	}

	path := fmt.Sprintf(scheduleByDatePathFmt, url.PathEscape(dateText), routeID)
	if err := c.request(ctx, FeedSchedule, path, &raw); err != nil {
		return nil, err
	}

	var rows []ferry.ScheduleRow
	for _, combo := range raw.TerminalCombos {
		for _, t := range combo.Times {
			if t.IsCancelled {
				continue
			}
			rows = append(rows, ferry.ScheduleRow{
				RouteID:             routeID,
				DepartingTerminalID: combo.DepartingTerminalID,
				VesselPositionNum:   t.VesselPositionNum,
				VesselID:            t.VesselID,
				VesselName:          t.VesselName,
			})
		}
	}
	return rows, nil
}

// request performs a GET with rate limiting, per-feed circuit breaking, and
// fixed-backoff retries on transient failures.
func (c *Client) request(ctx context.Context, feed, path string, result interface{}) error {
	breaker := c.breakers[feed]
	if breaker == nil {
		return c.doRequest(ctx, feed, path, result)
	}
	err := breaker.Call(func() error {
		return c.doRequest(ctx, feed, path, result)
	})
	if err == ErrCircuitOpen {
		return shared.NewUpstreamTransientError(feed, "circuit open", err)
	}
	return err
}

func (c *Client) doRequest(ctx context.Context, feed, path string, result interface{}) error {
	reqURL := fmt.Sprintf("%s%s?apiaccesscode=%s", c.baseURL, path, url.QueryEscape(c.accessCode))

	start := c.clock.Now()
	var lastErr error

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return shared.NewUpstreamTransientError(feed, "rate limiter interrupted", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return shared.NewUpstreamPermanentError(feed, "failed to build request", 0, err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network error, reset or timeout - retryable.
			lastErr = shared.NewUpstreamTransientError(feed, "network error", err)
			if attempt >= c.maxAttempts || ctx.Err() != nil {
				break
			}
			c.recordRetry(feed, "network")
			c.clock.Sleep(c.backoffBase)
			continue
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = shared.NewUpstreamTransientError(feed, "failed to read response", readErr)
			if attempt >= c.maxAttempts || ctx.Err() != nil {
				break
			}
			c.recordRetry(feed, "network")
			c.clock.Sleep(c.backoffBase)
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = shared.NewUpstreamTransientError(feed,
				fmt.Sprintf("upstream %d", resp.StatusCode), nil)
			if attempt >= c.maxAttempts || ctx.Err() != nil {
				break
			}
			c.recordRetry(feed, fmt.Sprintf("status_%d", resp.StatusCode))
			c.clock.Sleep(c.backoffBase)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.recordRequest(feed, "error", start)
			return shared.NewUpstreamPermanentError(feed,
				fmt.Sprintf("upstream %d", resp.StatusCode), resp.StatusCode, nil)
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				c.recordRequest(feed, "error", start)
				return shared.NewUpstreamPermanentError(feed, "failed to parse response", resp.StatusCode, err)
			}
		}

		c.recordRequest(feed, "ok", start)
		return nil
	}

	c.recordRequest(feed, "error", start)
	return lastErr
}

func (c *Client) recordRequest(feed, outcome string, start time.Time) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordUpstreamRequest(feed, outcome, c.clock.Now().Sub(start).Seconds())
}

func (c *Client) recordRetry(feed, reason string) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordUpstreamRetry(feed, reason)
}
