package backoff

import (
	"fmt"
	"strings"
	"time"
)

// Kind names a strategy family.
type Kind string

const (
	KindExponential Kind = "exponential"
	KindLinear      Kind = "linear"
	KindConstant    Kind = "constant"
	KindRandom      Kind = "random"
)

// ParseKind parses a strategy name from configuration. An empty name selects
// the exponential family.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindExponential:
		return KindExponential, nil
	case KindLinear:
		return KindLinear, nil
	case KindConstant:
		return KindConstant, nil
	case KindRandom:
		return KindRandom, nil
	default:
		return "", fmt.Errorf("backoff: unknown strategy %q", s)
	}
}

// Config is an immutable description of a timing strategy. One validated
// Config may build any number of strategies; the strategies themselves hold
// no per-call state.
type Config struct {
	Kind         Kind
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
	Increment    time.Duration
}

// Validate enforces the Config invariants: Base > 0, Max >= Base and
// JitterFactor in [0, 1].
func (c Config) Validate() error {
	if c.Base <= 0 {
		return fmt.Errorf("backoff: base delay must be positive, got %v", c.Base)
	}
	if c.Max < c.Base {
		return fmt.Errorf("backoff: max delay %v below base delay %v", c.Max, c.Base)
	}
	if c.JitterFactor < 0 || c.JitterFactor > 1 {
		return fmt.Errorf("backoff: jitter factor must be in [0, 1], got %v", c.JitterFactor)
	}
	if c.Increment < 0 {
		return fmt.Errorf("backoff: increment must be non-negative, got %v", c.Increment)
	}
	return nil
}

// Build validates the config and constructs the described strategy.
func (c Config) Build() (Strategy, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Kind {
	case "", KindExponential:
		return Exponential{Base: c.Base, Max: c.Max}, nil
	case KindLinear:
		return Linear{Base: c.Base, Increment: c.Increment, Max: c.Max}, nil
	case KindConstant:
		return Constant{Base: c.Base}, nil
	case KindRandom:
		return Random{Base: c.Base, Max: c.Max}, nil
	default:
		return nil, fmt.Errorf("backoff: unknown strategy %q", c.Kind)
	}
}
