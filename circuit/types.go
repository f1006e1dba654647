package circuit

import (
	"errors"
	"fmt"
	"time"
)

// State represents the state of a circuit breaker.
type State int

const (
	StateClosed   State = iota // Normal operation, requests allowed.
	StateOpen                  // Circuit open, requests fast-failed.
	StateHalfOpen              // Probing mode, limited requests allowed.
)

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

// Config tunes a breaker. Zero fields take the defaults below.
type Config struct {
	// FailureThreshold is the failure count within the window that trips the
	// breaker open.
	FailureThreshold int
	// ResetTimeout is how long the breaker stays open before admitting probes.
	ResetTimeout time.Duration
	// HalfOpenTimeout is the minimum quiet period since the last failure
	// before a half-open breaker admits another request.
	HalfOpenTimeout time.Duration
	// WindowSize bounds the failure history; older failures age out.
	WindowSize int
}

const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 60 * time.Second
	DefaultHalfOpenTimeout  = 30 * time.Second
	DefaultWindowSize       = 10
)

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = DefaultFailureThreshold
	}
	if c.ResetTimeout <= 0 {
		c.ResetTimeout = DefaultResetTimeout
	}
	if c.HalfOpenTimeout <= 0 {
		c.HalfOpenTimeout = DefaultHalfOpenTimeout
	}
	if c.WindowSize <= 0 {
		c.WindowSize = DefaultWindowSize
	}
	return c
}

// Status is an observability snapshot of a breaker.
type Status struct {
	Service          string        `json:"service"`
	State            State         `json:"-"`
	StateName        string        `json:"state"`
	Failures         int           `json:"failures"`
	FailureThreshold int           `json:"failure_threshold"`
	ResetTimeout     time.Duration `json:"reset_timeout"`
	HalfOpenTimeout  time.Duration `json:"half_open_timeout"`
	WindowSize       int           `json:"window_size"`
	OpenedAt         time.Time     `json:"opened_at,omitempty"`
	RemainingOpen    time.Duration `json:"remaining_open,omitempty"`
	LastFailure      time.Time     `json:"last_failure,omitempty"`
}

// ErrOpen is the sentinel matched by errors.Is for any *OpenError.
var ErrOpen = errors.New("circuit: open")

// OpenError signals that a breaker refused a call. It is distinct from any
// downstream failure: the operation was never attempted.
type OpenError struct {
	Service      string
	OpenedAt     time.Time
	ResetTimeout time.Duration
	Failures     int
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit: %s open since %s (%d failures, reset after %s)",
		e.Service, e.OpenedAt.Format(time.RFC3339), e.Failures, e.ResetTimeout)
}

func (e *OpenError) Is(target error) bool { return target == ErrOpen }
