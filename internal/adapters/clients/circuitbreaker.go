package clients

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/jsamuelsen/quotesync/internal/platform/config"
)

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed lets every call through and counts consecutive failures.
	StateClosed State = iota

	// StateOpen rejects every call until the cool-down has elapsed.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
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

// CircuitBreakerConfig configures a CircuitBreaker. Zero values fall back to
// the config package defaults.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is the cool-down spent open before probing.
	Timeout time.Duration

	// HalfOpenLimit is both the number of concurrent probes and the number of
	// consecutive probe successes that close the circuit again.
	HalfOpenLimit int

	// Clock measures the cool-down. Defaults to the real clock.
	Clock clockwork.Clock
}

// CircuitBreaker stops calling a remote that keeps failing.
//
//	closed    --MaxFailures consecutive failures-->  open
//	open      --Timeout elapsed, next Allow------->  half-open
//	half-open --HalfOpenLimit successes----------->  closed
//	half-open --any failure----------------------->  open
type CircuitBreaker struct {
	cfg   CircuitBreakerConfig
	clock clockwork.Clock

	mu       sync.Mutex
	state    State
	streak   int // failures while closed, successes while half-open
	probes   int // half-open calls in flight
	openedAt time.Time

	listeners []func(from, to State)
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = config.DefaultClientCircuitMaxFailures
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultClientCircuitTimeout
	}

	if cfg.HalfOpenLimit <= 0 {
		cfg.HalfOpenLimit = config.DefaultClientCircuitHalfOpenLimit
	}

	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	return &CircuitBreaker{cfg: cfg, clock: cfg.Clock}
}

// OnStateChange registers fn to run after every transition. Listeners run
// synchronously on the goroutine that caused the transition, outside the
// breaker's lock.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.listeners = append(cb.listeners, fn)
}

// Allow reports whether a call may proceed. A caller that gets true must
// report the outcome with RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		notify  func()
	)

	switch cb.state {
	case StateClosed:
		allowed = true

	case StateOpen:
		if cb.clock.Since(cb.openedAt) >= cb.cfg.Timeout {
			notify = cb.moveTo(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}

	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.mu.Unlock()
	notify()

	return allowed
}

// RecordSuccess reports a call that reached the remote and got an answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	notify := func() {}

	switch cb.state {
	case StateClosed:
		cb.streak = 0

	case StateHalfOpen:
		cb.probes--
		cb.streak++

		if cb.streak >= cb.cfg.HalfOpenLimit {
			notify = cb.moveTo(StateClosed)
		}
	}

	cb.mu.Unlock()
	notify()
}

// RecordFailure reports a call that could not get an answer.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	notify := func() {}

	switch cb.state {
	case StateClosed:
		cb.streak++

		if cb.streak >= cb.cfg.MaxFailures {
			notify = cb.moveTo(StateOpen)
		}

	case StateHalfOpen:
		cb.probes--
		notify = cb.moveTo(StateOpen)

	case StateOpen:
		// A late failure from before the circuit opened extends the cool-down.
		cb.openedAt = cb.clock.Now()
	}

	cb.mu.Unlock()
	notify()
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// moveTo switches state and returns the listener calls to make once the
// lock is released. Must be called with cb.mu held.
func (cb *CircuitBreaker) moveTo(to State) func() {
	from := cb.state
	if from == to {
		return func() {}
	}

	cb.state = to
	cb.streak = 0

	if to == StateOpen {
		cb.openedAt = cb.clock.Now()
	}

	listeners := cb.listeners

	return func() {
		for _, fn := range listeners {
			fn(from, to)
		}
	}
}
