package circuit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Breaker is a per-service circuit breaker. It trips open once the bounded
// failure window fills past the threshold, fast-fails while open, and probes
// the downstream after the reset timeout elapses.
//
// All state transitions are serialized by a single mutex; no I/O happens
// under the lock.
type Breaker struct {
	mu sync.Mutex

	service string
	cfg     Config

	state       State
	failures    []time.Time // bounded FIFO, oldest first
	openedAt    time.Time   // zero while closed
	lastFailure time.Time   // zero until the first failure

	nowFn  func() time.Time
	logger *zap.Logger
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithClock overrides the breaker clock, primarily for tests.
func WithClock(f func() time.Time) BreakerOption {
	return func(b *Breaker) { b.nowFn = f }
}

// WithLogger sets the logger used for state transition events.
func WithLogger(l *zap.Logger) BreakerOption {
	return func(b *Breaker) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBreaker creates a closed breaker for the named service.
func NewBreaker(service string, cfg Config, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		service: service,
		cfg:     cfg.withDefaults(),
		state:   StateClosed,
		nowFn:   time.Now,
		logger:  zap.NewNop(),
	}
	b.failures = make([]time.Time, 0, b.cfg.WindowSize)
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Service returns the downstream service name this breaker guards.
func (b *Breaker) Service() string { return b.service }

// Allow reports whether a request may proceed.
//
// Open breakers flip to half-open as a side effect once the reset timeout has
// elapsed, and that first request is admitted. Half-open admission requires a
// quiet period of HalfOpenTimeout since the last recorded failure; it does not
// serialize a single probe, so concurrent callers inside the quiet window may
// all be admitted.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.nowFn()
	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		// The flip itself admits the request; subsequent half-open callers go
		// through the quiet-window check below.
		if now.Sub(b.openedAt) >= b.cfg.ResetTimeout {
			b.state = StateHalfOpen
			b.logger.Debug("circuit half-open", zap.String("service", b.service))
			return true
		}
		return false
	default: // StateHalfOpen
		return b.lastFailure.IsZero() || now.Sub(b.lastFailure) >= b.cfg.HalfOpenTimeout
	}
}

// OnSuccess records a successful call. A half-open success closes the breaker
// and clears the failure history. A closed success is a no-op: failures age
// out only through the bounded window.
func (b *Breaker) OnSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.refreshLocked(b.nowFn()) == StateHalfOpen {
		b.transitionLocked(StateClosed)
	}
}

// OnFailure records a failed call. It trips a closed breaker once the window
// holds FailureThreshold failures, and reopens a half-open breaker
// immediately (the probe failed).
func (b *Breaker) OnFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.nowFn()
	state := b.refreshLocked(now)

	b.failures = append(b.failures, now)
	if len(b.failures) > b.cfg.WindowSize {
		b.failures = b.failures[1:]
	}
	b.lastFailure = now

	switch state {
	case StateClosed:
		if len(b.failures) >= b.cfg.FailureThreshold {
			b.transitionLocked(StateOpen)
			b.logger.Warn("circuit opened",
				zap.String("service", b.service),
				zap.Int("failures", len(b.failures)),
				zap.Error(err))
		}
	case StateHalfOpen:
		b.transitionLocked(StateOpen)
		b.logger.Warn("circuit reopened after failed probe",
			zap.String("service", b.service),
			zap.Error(err))
	}
}

// State returns the current state, applying the same lazy open→half-open
// transition as Allow without admitting a request.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshLocked(b.nowFn())
}

// FailureCount returns the number of failures in the bounded window.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.failures)
}

// Status returns an observability snapshot.
func (b *Breaker) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.nowFn()
	state := b.refreshLocked(now)

	st := Status{
		Service:          b.service,
		State:            state,
		StateName:        state.String(),
		Failures:         len(b.failures),
		FailureThreshold: b.cfg.FailureThreshold,
		ResetTimeout:     b.cfg.ResetTimeout,
		HalfOpenTimeout:  b.cfg.HalfOpenTimeout,
		WindowSize:       b.cfg.WindowSize,
		LastFailure:      b.lastFailure,
	}
	if state == StateOpen {
		st.OpenedAt = b.openedAt
		if remaining := b.cfg.ResetTimeout - now.Sub(b.openedAt); remaining > 0 {
			st.RemainingOpen = remaining
		}
	}
	return st
}

// Reset forces the breaker closed and clears its history. Administrative and
// test use only.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitionLocked(StateClosed)
}

// Execute runs op under the breaker: refused calls return *OpenError without
// invoking op, and op's outcome is routed into OnSuccess/OnFailure. The
// original error is returned unchanged.
func (b *Breaker) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	if !b.Allow() {
		return b.OpenError()
	}
	if err := op(ctx); err != nil {
		b.OnFailure(err)
		return err
	}
	b.OnSuccess()
	return nil
}

// OpenError builds the refusal error carrying the breaker's diagnostics.
func (b *Breaker) OpenError() *OpenError {
	b.mu.Lock()
	defer b.mu.Unlock()
	return &OpenError{
		Service:      b.service,
		OpenedAt:     b.openedAt,
		ResetTimeout: b.cfg.ResetTimeout,
		Failures:     len(b.failures),
	}
}

// refreshLocked applies the lazy OPEN→HALF_OPEN transition. Callers hold mu.
func (b *Breaker) refreshLocked(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.cfg.ResetTimeout {
		b.state = StateHalfOpen
		b.logger.Debug("circuit half-open", zap.String("service", b.service))
	}
	return b.state
}

// transitionLocked moves to newState and applies its entry bookkeeping.
// Callers hold mu.
func (b *Breaker) transitionLocked(newState State) {
	b.state = newState
	switch newState {
	case StateClosed:
		b.failures = b.failures[:0]
		b.openedAt = time.Time{}
	case StateOpen:
		b.openedAt = b.nowFn()
	}
}
