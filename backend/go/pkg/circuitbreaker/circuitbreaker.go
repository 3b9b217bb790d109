package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State represents the state of the circuit breaker.
type State int

const (
	// Closed is the initial state where requests are allowed.
	Closed State = iota
	// Open state is when the circuit has tripped and requests are blocked.
	Open
	// HalfOpen allows trial requests through to test whether the dependency recovered.
	HalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "Closed"
	case Open:
		return "Open"
	case HalfOpen:
		return "Half-Open"
	default:
		return "Unknown"
	}
}

// ErrCircuitOpen is returned when the circuit breaker is in the Open state.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker is the interface for the circuit breaker pattern.
type CircuitBreaker interface {
	// Execute runs the given request if the circuit breaker is closed or half-open.
	Execute(req func() (interface{}, error)) (interface{}, error)
	// State returns the current state of the circuit breaker.
	State() State
	// Allow reports whether a request would currently be let through.
	Allow() bool
}

// Option configures a breaker.
type Option func(*breaker)

// WithClock replaces time.Now, used by tests.
func WithClock(now func() time.Time) Option {
	return func(b *breaker) { b.now = now }
}

// OnStateChange registers a callback invoked (outside the lock) on every transition.
func OnStateChange(fn func(from, to State)) Option {
	return func(b *breaker) { b.onChange = fn }
}

type breaker struct {
	failureThreshold uint32        // Consecutive failures that trip the circuit.
	successThreshold uint32        // Consecutive HalfOpen successes that close it again.
	timeout          time.Duration // Time spent Open before moving to HalfOpen.

	mu                   sync.Mutex
	state                State
	consecutiveFailures  uint32
	consecutiveSuccesses uint32
	openedAt             time.Time

	now      func() time.Time
	onChange func(from, to State)
}

// New creates a circuit breaker.
// failureThreshold: consecutive failures required to open the circuit.
// successThreshold: consecutive successes in half-open required to close it.
// timeout: how long the circuit stays open before going half-open.
func New(failureThreshold, successThreshold uint32, timeout time.Duration, opts ...Option) CircuitBreaker {
	if failureThreshold == 0 {
		failureThreshold = 1
	}
	if successThreshold == 0 {
		successThreshold = 1
	}
	b := &breaker{
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		timeout:          timeout,
		state:            Closed,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State returns the current state, applying the Open -> HalfOpen timeout.
func (b *breaker) State() State {
	b.mu.Lock()
	from, to := b.advanceLocked()
	state := b.state
	b.mu.Unlock()
	b.notify(from, to)
	return state
}

// Allow reports whether Execute would run the request right now.
func (b *breaker) Allow() bool {
	return b.State() != Open
}

// Execute wraps the execution of a function with the circuit breaker logic.
func (b *breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	b.mu.Lock()
	from, to := b.advanceLocked()
	state := b.state
	b.mu.Unlock()
	b.notify(from, to)

	if state == Open {
		return nil, ErrCircuitOpen
	}

	res, err := req()
	if err != nil {
		b.record(false)
		return nil, err
	}
	b.record(true)
	return res, nil
}

// advanceLocked moves Open to HalfOpen once the timeout elapsed. Caller holds mu.
func (b *breaker) advanceLocked() (State, State) {
	if b.state == Open && b.now().Sub(b.openedAt) > b.timeout {
		return b.setLocked(HalfOpen)
	}
	return b.state, b.state
}

func (b *breaker) record(success bool) {
	b.mu.Lock()
	from, to := b.state, b.state
	switch b.state {
	case HalfOpen:
		if !success {
			from, to = b.tripLocked()
			break
		}
		b.consecutiveSuccesses++
		if b.consecutiveSuccesses >= b.successThreshold {
			from, to = b.setLocked(Closed)
		}
	case Closed:
		if success {
			b.consecutiveFailures = 0
			break
		}
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.failureThreshold {
			from, to = b.tripLocked()
		}
	}
	b.mu.Unlock()
	b.notify(from, to)
}

func (b *breaker) tripLocked() (State, State) {
	b.openedAt = b.now()
	return b.setLocked(Open)
}

func (b *breaker) setLocked(to State) (State, State) {
	from := b.state
	b.state = to
	b.consecutiveFailures = 0
	b.consecutiveSuccesses = 0
	return from, to
}

func (b *breaker) notify(from, to State) {
	if from != to && b.onChange != nil {
		b.onChange(from, to)
	}
}
