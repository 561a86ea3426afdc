package health

import (
	"context"
	"time"

	"github.com/agrisight/agrikit/api"
)

// EndpointConfig configures an endpoint prober.
type EndpointConfig struct {
	// Name identifies the probed service. Required.
	Name string

	// Client is the API client for the service. Required.
	Client *api.Client

	// Path is the health endpoint path.
	// Default: "/healthz"
	Path string

	// Timeout bounds the probe attempt.
	// Default: 5 seconds
	Timeout time.Duration

	// Critical marks the service as required. Failures of a non-critical
	// service degrade the fleet instead of failing it.
	Critical bool
}

// Endpoint probes one service's health endpoint through its API client.
//
// Probes run with SkipRetry: a probe that masked an outage behind retries
// would defeat its purpose.
type Endpoint struct {
	config EndpointConfig
}

// NewEndpoint creates an endpoint prober.
func NewEndpoint(config EndpointConfig) *Endpoint {
	// Apply defaults
	if config.Path == "" {
		config.Path = "/healthz"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	return &Endpoint{config: config}
}

// Name returns the probed service name.
func (e *Endpoint) Name() string { return e.config.Name }

// Critical reports whether the service is required for fleet health.
func (e *Endpoint) Critical() bool { return e.config.Critical }

// Check probes the health endpoint once.
func (e *Endpoint) Check(ctx context.Context) Result {
	start := time.Now()

	env := e.config.Client.Do(ctx, api.Request{
		Endpoint:  e.config.Path,
		Timeout:   e.config.Timeout,
		SkipRetry: true,
	})

	result := Result{
		Duration:  time.Since(start),
		Timestamp: start.UTC(),
		Details: map[string]any{
			"path": e.config.Path,
		},
	}
	if env.Status > 0 {
		result.Details["status_code"] = env.Status
	}

	if env.Success {
		result.Status = StatusHealthy
		return result
	}

	result.Details["kind"] = env.Kind.String()
	result.Message = env.Error

	switch env.Kind {
	case api.KindServer, api.KindNetwork, api.KindTimeout, api.KindUnavailable:
		result.Status = StatusUnhealthy
	default:
		// The service answered, just not the way we expected.
		result.Status = StatusDegraded
	}

	if result.Status == StatusUnhealthy && !e.config.Critical {
		result.Status = StatusDegraded
	}
	return result
}
