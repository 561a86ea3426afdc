package health

import (
	"context"
	"time"
)

// Status represents the health status of a backend service.
type Status int

const (
	// StatusHealthy indicates the service is reachable and responding.
	StatusHealthy Status = iota
	// StatusDegraded indicates the service responds but with issues.
	StatusDegraded
	// StatusUnhealthy indicates the service is unreachable or failing.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Result contains the outcome of one probe.
type Result struct {
	// Status is the probed health status.
	Status Status

	// Message provides additional context about the status.
	Message string

	// Details contains arbitrary metadata about the probe.
	Details map[string]any

	// Duration is how long the probe took.
	Duration time.Duration

	// Timestamp is when the probe ran.
	Timestamp time.Time
}

// Checker probes one backend service.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Check must honor cancellation/deadlines.
// - Errors: failures are reported through the Result, never by panicking.
type Checker interface {
	// Name identifies the probed service.
	Name() string

	// Check probes the service once.
	Check(ctx context.Context) Result
}

// CheckFunc adapts a function to the Checker interface.
type CheckFunc struct {
	CheckName string
	Func      func(ctx context.Context) Result
}

// Name returns the checker name.
func (c CheckFunc) Name() string { return c.CheckName }

// Check runs the wrapped function.
func (c CheckFunc) Check(ctx context.Context) Result { return c.Func(ctx) }
