package api

import (
	"testing"
	"time"
)

func TestNewBreaker_Defaults(t *testing.T) {
	b := NewBreaker(BreakerConfig{})

	if b.config.MaxFailures != 5 {
		t.Errorf("MaxFailures = %d, want 5", b.config.MaxFailures)
	}
	if b.config.ResetTimeout != 30*time.Second {
		t.Errorf("ResetTimeout = %v, want 30s", b.config.ResetTimeout)
	}
	if b.config.HalfOpenMaxCalls != 1 {
		t.Errorf("HalfOpenMaxCalls = %d, want 1", b.config.HalfOpenMaxCalls)
	}
	if b.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", b.State())
	}
}

func TestBreaker_OpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 3, ResetTimeout: time.Minute})

	for i := 0; i < 3; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("Allow() error = %v while closed", err)
		}
		b.Record(true)
	}

	if b.State() != StateOpen {
		t.Errorf("state = %v after 3 failures, want open", b.State())
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Errorf("Allow() error = %v, want ErrCircuitOpen", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 2, ResetTimeout: time.Minute})

	b.Record(true)
	b.Record(false)
	b.Record(true)

	if b.State() != StateClosed {
		t.Errorf("state = %v, want closed (success reset the count)", b.State())
	}
}

func TestBreaker_HalfOpenAfterResetTimeout(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: 20 * time.Millisecond})

	b.Record(true)
	if b.State() != StateOpen {
		t.Fatalf("state = %v, want open", b.State())
	}

	time.Sleep(30 * time.Millisecond)
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %v after reset timeout, want half-open", b.State())
	}

	// One probe call is allowed, the second is refused.
	if err := b.Allow(); err != nil {
		t.Errorf("first half-open Allow() error = %v", err)
	}
	if err := b.Allow(); err != ErrCircuitOpen {
		t.Errorf("second half-open Allow() error = %v, want ErrCircuitOpen", err)
	}
}

func TestBreaker_ClosesOnSuccessfulProbe(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond})

	b.Record(true)
	time.Sleep(20 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe Allow() error = %v", err)
	}
	b.Record(false)

	if b.State() != StateClosed {
		t.Errorf("state = %v after successful probe, want closed", b.State())
	}
}

func TestBreaker_ReopensOnFailedProbe(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: 10 * time.Millisecond})

	b.Record(true)
	time.Sleep(20 * time.Millisecond)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe Allow() error = %v", err)
	}
	b.Record(true)

	if b.State() != StateOpen {
		t.Errorf("state = %v after failed probe, want open", b.State())
	}
}

func TestBreaker_Reset(t *testing.T) {
	b := NewBreaker(BreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute})

	b.Record(true)
	b.Reset()

	if b.State() != StateClosed {
		t.Errorf("state = %v after Reset, want closed", b.State())
	}
	if err := b.Allow(); err != nil {
		t.Errorf("Allow() error = %v after Reset", err)
	}
}

func TestBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	b := NewBreaker(BreakerConfig{
		MaxFailures:  1,
		ResetTimeout: time.Minute,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	b.Record(true)
	b.Reset()

	want := []string{"closed->open", "open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Errorf("transition[%d] = %q, want %q", i, transitions[i], want[i])
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
