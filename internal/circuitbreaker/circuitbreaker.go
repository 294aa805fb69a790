package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// ErrOpenState is returned when the circuit breaker rejects a request
var ErrOpenState = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	// StateClosed allows all requests through
	StateClosed State = iota

	// StateOpen rejects all requests until the cooldown elapses
	StateOpen

	// StateHalfOpen allows a single probe request to test recovery
	StateHalfOpen
)

// String returns the string representation of the state
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

// Config holds circuit breaker configuration
type Config struct {
	// MaxFailures is the number of consecutive failures before opening
	MaxFailures uint

	// Cooldown is how long to stay open before allowing a probe
	Cooldown time.Duration
}

// DefaultConfig returns sensible defaults for the circuit breaker
func DefaultConfig() Config {
	return Config{
		MaxFailures: 5,
		Cooldown:    60 * time.Second,
	}
}

// CircuitBreaker guards an external collaborator against repeated failures.
// After MaxFailures consecutive failures it rejects requests outright for the
// cooldown period, then lets one probe through; a successful probe closes the
// circuit again.
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      Config
	state    State
	failures uint
	openedAt time.Time
	probing  bool
}

// New creates a new circuit breaker
func New(cfg Config) *CircuitBreaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultConfig().MaxFailures
	}
	if cfg.Cooldown == 0 {
		cfg.Cooldown = DefaultConfig().Cooldown
	}
	return &CircuitBreaker{cfg: cfg, state: StateClosed}
}

// Execute runs fn through the circuit breaker
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.allow(); err != nil {
		return err
	}

	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if time.Since(cb.openedAt) < cb.cfg.Cooldown {
			return ErrOpenState
		}
		cb.state = StateHalfOpen
		cb.probing = true
		return nil

	case StateHalfOpen:
		if cb.probing {
			return ErrOpenState
		}
		cb.probing = true
		return nil

	default:
		return ErrOpenState
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil {
		cb.state = StateClosed
		cb.failures = 0
		cb.probing = false
		return
	}

	switch cb.state {
	case StateHalfOpen:
		cb.trip()
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			cb.trip()
		}
	}
}

func (cb *CircuitBreaker) trip() {
	cb.state = StateOpen
	cb.openedAt = time.Now()
	cb.failures = 0
	cb.probing = false
}

// State returns the current state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset returns the circuit breaker to the closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}
