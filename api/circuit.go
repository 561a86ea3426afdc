package api

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls flow normally.
	StateClosed State = iota
	// StateOpen means calls are refused locally.
	StateOpen
	// StateHalfOpen means a limited number of probe calls are allowed.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerConfig configures a circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive transient failures before
	// the circuit opens.
	// Default: 5
	MaxFailures int

	// ResetTimeout is how long the circuit stays open before probing.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// HalfOpenMaxCalls is the max calls allowed while half-open.
	// Default: 1
	HalfOpenMaxCalls int

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)
}

// Breaker is a circuit breaker for one backend service.
//
// The pipeline decides what counts as a failure: only transient outcomes
// (5xx after exhaustion, network errors, timeouts) trip the breaker. A 4xx
// response proves the service is up and counts as a success.
type Breaker struct {
	config BreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	lastFailure   time.Time
	halfOpenCalls int
}

// NewBreaker creates a circuit breaker.
func NewBreaker(config BreakerConfig) *Breaker {
	// Apply defaults
	if config.MaxFailures <= 0 {
		config.MaxFailures = 5
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = 1
	}

	return &Breaker{
		config: config,
		state:  StateClosed,
	}
}

// Allow reports whether a call may proceed. It returns ErrCircuitOpen when
// the circuit is open or the half-open probe budget is spent.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.currentStateLocked() {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.halfOpenCalls >= b.config.HalfOpenMaxCalls {
			return ErrCircuitOpen
		}
		b.halfOpenCalls++
	}

	return nil
}

// Record reports the outcome of a permitted call.
func (b *Breaker) Record(failed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	oldState := b.state

	switch b.state {
	case StateClosed:
		if failed {
			b.failures++
			b.lastFailure = time.Now()
			if b.failures >= b.config.MaxFailures {
				b.state = StateOpen
			}
		} else {
			b.failures = 0
		}

	case StateHalfOpen:
		if failed {
			// Failed probe, back to open with a fresh reset window.
			b.lastFailure = time.Now()
			b.state = StateOpen
		} else {
			b.state = StateClosed
			b.failures = 0
		}
	}

	if oldState != b.state && b.config.OnStateChange != nil {
		b.config.OnStateChange(oldState, b.state)
	}
}

// State returns the current circuit state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentStateLocked()
}

// Reset closes the circuit and clears its failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	oldState := b.state
	b.state = StateClosed
	b.failures = 0
	b.halfOpenCalls = 0

	if oldState != StateClosed && b.config.OnStateChange != nil {
		b.config.OnStateChange(oldState, StateClosed)
	}
}

func (b *Breaker) currentStateLocked() State {
	if b.state == StateOpen && time.Since(b.lastFailure) >= b.config.ResetTimeout {
		b.state = StateHalfOpen
		b.halfOpenCalls = 0
		if b.config.OnStateChange != nil {
			b.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return b.state
}
