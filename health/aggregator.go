package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrCheckerNotFound is returned when a named checker is not registered.
var ErrCheckerNotFound = errors.New("health: checker not found")

// AggregatorConfig configures the fleet aggregator.
type AggregatorConfig struct {
	// Timeout is the maximum time to wait for all probes.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxConcurrent bounds how many probes run at once.
	// Default: 4
	MaxConcurrent int
}

// Aggregator combines per-service probes into one fleet status.
type Aggregator struct {
	config   AggregatorConfig
	mu       sync.RWMutex
	checkers map[string]Checker
	order    []string // Maintains registration order
}

// NewAggregator creates a fleet aggregator.
func NewAggregator(config ...AggregatorConfig) *Aggregator {
	cfg := AggregatorConfig{
		Timeout:       10 * time.Second,
		MaxConcurrent: 4,
	}
	if len(config) > 0 {
		cfg = config[0]
		if cfg.Timeout <= 0 {
			cfg.Timeout = 10 * time.Second
		}
		if cfg.MaxConcurrent <= 0 {
			cfg.MaxConcurrent = 4
		}
	}

	return &Aggregator{
		config:   cfg,
		checkers: make(map[string]Checker),
		order:    make([]string, 0),
	}
}

// Register adds a probe to the aggregator.
func (a *Aggregator) Register(checker Checker) {
	a.mu.Lock()
	defer a.mu.Unlock()

	name := checker.Name()
	if _, exists := a.checkers[name]; !exists {
		a.order = append(a.order, name)
	}
	a.checkers[name] = checker
}

// Unregister removes a probe from the aggregator.
func (a *Aggregator) Unregister(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	delete(a.checkers, name)

	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// CheckerNames returns the names of all registered probes in registration
// order.
func (a *Aggregator) CheckerNames() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Check runs a single named probe.
func (a *Aggregator) Check(ctx context.Context, name string) (Result, error) {
	a.mu.RLock()
	checker, ok := a.checkers[name]
	a.mu.RUnlock()

	if !ok {
		return Result{}, ErrCheckerNotFound
	}

	return a.runCheck(ctx, checker), nil
}

// CheckAll probes every registered service concurrently and returns the
// results keyed by service name.
func (a *Aggregator) CheckAll(ctx context.Context) map[string]Result {
	a.mu.RLock()
	checkers := make(map[string]Checker, len(a.checkers))
	for name, checker := range a.checkers {
		checkers[name] = checker
	}
	a.mu.RUnlock()

	if len(checkers) == 0 {
		return make(map[string]Result)
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.Timeout)
	defer cancel()

	var mu sync.Mutex
	results := make(map[string]Result, len(checkers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.MaxConcurrent)

	for name, checker := range checkers {
		name, checker := name, checker
		g.Go(func() error {
			result := a.runCheck(ctx, checker)
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}

	// Probes never return errors; failures land in their Result.
	_ = g.Wait()

	return results
}

// OverallStatus computes the fleet status from a set of results.
// Returns Unhealthy if any probe is unhealthy.
// Returns Degraded if any probe is degraded but none are unhealthy.
// Returns Healthy if all probes are healthy.
func (a *Aggregator) OverallStatus(results map[string]Result) Status {
	if len(results) == 0 {
		return StatusHealthy
	}

	hasUnhealthy := false
	hasDegraded := false

	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	switch {
	case hasUnhealthy:
		return StatusUnhealthy
	case hasDegraded:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

func (a *Aggregator) runCheck(ctx context.Context, checker Checker) Result {
	result := checker.Check(ctx)
	if result.Timestamp.IsZero() {
		result.Timestamp = time.Now().UTC()
	}
	return result
}
