package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Configuration errors

// ConfigurationError indicates the process is misconfigured (for example a
// missing upstream access code). It is fatal at start-up.
type ConfigurationError struct {
	*DomainError
}

func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{DomainError: &DomainError{Message: message}}
}

// Route errors

// UnknownRouteError is returned when a requested route is not in the catalog.
// The HTTP layer maps it to a 404.
type UnknownRouteError struct {
	*DomainError
	RouteID int
}

func NewUnknownRouteError(routeID int) *UnknownRouteError {
	return &UnknownRouteError{
		DomainError: &DomainError{Message: fmt.Sprintf("unknown route %d", routeID)},
		RouteID:     routeID,
	}
}

// Upstream errors

// UpstreamError wraps a failure talking to the ferry operations API.
// Transient errors (network failures, 5xx) are retried by the client;
// permanent errors (4xx, parse failures) are not.
type UpstreamError struct {
	*DomainError
	Feed       string
	StatusCode int
	Transient  bool
	Cause      error
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

func NewUpstreamTransientError(feed, message string, cause error) *UpstreamError {
	return &UpstreamError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", feed, message)},
		Feed:        feed,
		Transient:   true,
		Cause:       cause,
	}
}

func NewUpstreamPermanentError(feed, message string, statusCode int, cause error) *UpstreamError {
	return &UpstreamError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s: %s", feed, message)},
		Feed:        feed,
		StatusCode:  statusCode,
		Cause:       cause,
	}
}

// ScheduleUnusableError indicates today's schedule could not produce either
// lane identity. The assembler answers it with a synthetic snapshot.
type ScheduleUnusableError struct {
	*DomainError
	RouteID int
}

func NewScheduleUnusableError(routeID int) *ScheduleUnusableError {
	return &ScheduleUnusableError{
		DomainError: &DomainError{Message: fmt.Sprintf("no usable schedule for route %d", routeID)},
		RouteID:     routeID,
	}
}
