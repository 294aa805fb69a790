package circuitbreaker

import (
	"fmt"
	"testing"
	"time"
)

var errFail = fmt.Errorf("collaborator failure")

func failing() error { return errFail }
func succeeding() error { return nil }

func TestStaysClosed(t *testing.T) {
	cb := New(Config{MaxFailures: 3, Cooldown: time.Minute})

	for i := 0; i < 10; i++ {
		if err := cb.Execute(succeeding); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	}
	if cb.State() != StateClosed {
		t.Errorf("expected closed state, got %s", cb.State())
	}
}

func TestOpensAfterMaxFailures(t *testing.T) {
	cb := New(Config{MaxFailures: 3, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		cb.Execute(failing)
	}
	if cb.State() != StateOpen {
		t.Fatalf("expected open state after 3 failures, got %s", cb.State())
	}

	if err := cb.Execute(succeeding); err != ErrOpenState {
		t.Errorf("expected ErrOpenState while open, got %v", err)
	}
}

func TestSuccessResetsFailureCount(t *testing.T) {
	cb := New(Config{MaxFailures: 3, Cooldown: time.Minute})

	cb.Execute(failing)
	cb.Execute(failing)
	cb.Execute(succeeding)
	cb.Execute(failing)
	cb.Execute(failing)

	if cb.State() != StateClosed {
		t.Errorf("expected consecutive-failure counting, got %s", cb.State())
	}
}

func TestHalfOpenProbeRecovers(t *testing.T) {
	cb := New(Config{MaxFailures: 1, Cooldown: 5 * time.Millisecond})

	cb.Execute(failing)
	if cb.State() != StateOpen {
		t.Fatalf("expected open state, got %s", cb.State())
	}

	time.Sleep(10 * time.Millisecond)

	if err := cb.Execute(succeeding); err != nil {
		t.Fatalf("expected probe to pass through, got %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("expected successful probe to close the circuit, got %s", cb.State())
	}
}

func TestHalfOpenProbeFailureReopens(t *testing.T) {
	cb := New(Config{MaxFailures: 1, Cooldown: 5 * time.Millisecond})

	cb.Execute(failing)
	time.Sleep(10 * time.Millisecond)

	cb.Execute(failing)
	if cb.State() != StateOpen {
		t.Errorf("expected failed probe to reopen the circuit, got %s", cb.State())
	}
}

func TestReset(t *testing.T) {
	cb := New(Config{MaxFailures: 1, Cooldown: time.Minute})

	cb.Execute(failing)
	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("expected closed state after reset, got %s", cb.State())
	}
	if err := cb.Execute(succeeding); err != nil {
		t.Errorf("expected request to pass after reset, got %v", err)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state    State
		expected string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.expected {
			t.Errorf("State(%d).String(): expected %s, got %s", tt.state, tt.expected, got)
		}
	}
}
