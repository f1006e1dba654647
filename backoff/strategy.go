package backoff

import (
	"math"
	"math/rand"
	"time"
)

// Strategy computes the pre-jitter delay before a given attempt.
//
// Implementations are stateless value types; one instance may be shared
// across concurrent calls. Attempt numbers below 1 are clamped to 1.
type Strategy interface {
	Delay(attempt int) time.Duration
}

const (
	// DefaultBase is the base delay used when a configuration omits one.
	DefaultBase = 1 * time.Second
	// DefaultMax caps computed delays when a configuration omits a maximum.
	DefaultMax = 60 * time.Second
)

// Exponential doubles the delay on every attempt: min(base * 2^(n-1), max).
type Exponential struct {
	Base time.Duration
	Max  time.Duration
}

func (s Exponential) Delay(attempt int) time.Duration {
	attempt = clampAttempt(attempt)
	d := time.Duration(float64(s.Base) * math.Pow(2, float64(attempt-1)))
	if d <= 0 || d > s.Max {
		return s.Max
	}
	return d
}

// Linear grows the delay by a fixed increment: min(base + inc*(n-1), max).
// A zero Increment defaults to Base.
type Linear struct {
	Base      time.Duration
	Increment time.Duration
	Max       time.Duration
}

func (s Linear) Delay(attempt int) time.Duration {
	attempt = clampAttempt(attempt)
	inc := s.Increment
	if inc == 0 {
		inc = s.Base
	}
	d := s.Base + inc*time.Duration(attempt-1)
	if d < 0 || d > s.Max {
		return s.Max
	}
	return d
}

// Constant waits the same base delay before every attempt.
type Constant struct {
	Base time.Duration
}

func (s Constant) Delay(int) time.Duration { return s.Base }

// Random draws a fresh delay uniformly from [base, max] on every call,
// ignoring the attempt number.
type Random struct {
	Base time.Duration
	Max  time.Duration
}

func (s Random) Delay(int) time.Duration {
	if s.Max <= s.Base {
		return s.Base
	}
	return s.Base + time.Duration(rand.Int63n(int64(s.Max-s.Base)+1))
}

func clampAttempt(attempt int) int {
	if attempt < 1 {
		return 1
	}
	return attempt
}
