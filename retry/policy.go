package retry

import (
	"time"

	"github.com/bulwark-io/bulwark/backoff"
	"github.com/bulwark-io/bulwark/circuit"
	"github.com/bulwark-io/bulwark/classify"
)

// DefaultMaxAttempts is the retry budget applied when a policy does not set
// one.
const DefaultMaxAttempts = 3

// RetryCallback is invoked before each backoff wait. delay is the post-jitter
// wait about to be slept.
type RetryCallback func(err error, attempt, maxAttempts int, delay time.Duration)

// GiveUpCallback is invoked once when the loop surfaces a permanent failure.
type GiveUpCallback func(err error, attempts, maxAttempts int)

// Policy describes how an operation is retried. Policies are immutable value
// objects: build one once and reuse it across calls and goroutines.
type Policy struct {
	// Name labels the policy in logs, metrics and observer events.
	Name string

	// MaxAttempts is the total number of calls to the operation before giving
	// up. Values below 1 take DefaultMaxAttempts.
	MaxAttempts int

	// Backoff computes the pre-jitter delay between attempts. Nil takes the
	// default exponential strategy. When a failure exposes a category, the
	// executor substitutes the category profile for this strategy.
	Backoff backoff.Strategy

	// JitterFactor perturbs each delay by ±delay*JitterFactor.
	JitterFactor float64

	// RetryOn matches errors worth retrying. Nil retries every error.
	RetryOn []classify.Matcher

	// IgnoreOn matches errors that must never be retried. The ignore list
	// takes precedence over RetryOn and over an explicit IsRetryable().
	IgnoreOn []classify.Matcher

	// RetryIf, when set, narrows the retry verdict; it can never widen it.
	RetryIf func(error) bool

	// OnRetry and OnGiveUp are observability hooks. Panics escaping either
	// are logged and swallowed; hooks never abort the loop or replace the
	// real failure.
	OnRetry  RetryCallback
	OnGiveUp GiveUpCallback

	// BreakerService opts the policy into circuit-breaker protection for the
	// named downstream service. Empty disables the breaker.
	BreakerService string

	// BreakerConfig tunes the breaker; it applies only when this policy is
	// the first to create the named breaker.
	BreakerConfig circuit.Config
}

// Option configures a Policy.
type Option func(*Policy)

// NewPolicy builds a Policy from options, applying defaults for anything
// unset.
func NewPolicy(name string, opts ...Option) Policy {
	p := Policy{
		Name:         name,
		MaxAttempts:  DefaultMaxAttempts,
		JitterFactor: backoff.DefaultJitterFactor,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// MaxAttempts sets the retry budget.
func MaxAttempts(n int) Option {
	return func(p *Policy) { p.MaxAttempts = n }
}

// WithBackoff sets the timing strategy.
func WithBackoff(s backoff.Strategy) Option {
	return func(p *Policy) { p.Backoff = s }
}

// WithJitterFactor sets the jitter applied on top of computed delays.
func WithJitterFactor(f float64) Option {
	return func(p *Policy) { p.JitterFactor = f }
}

// RetryOn appends matchers to the retry set.
func RetryOn(ms ...classify.Matcher) Option {
	return func(p *Policy) { p.RetryOn = append(p.RetryOn, ms...) }
}

// IgnoreOn appends matchers to the ignore set.
func IgnoreOn(ms ...classify.Matcher) Option {
	return func(p *Policy) { p.IgnoreOn = append(p.IgnoreOn, ms...) }
}

// RetryIf sets the narrowing predicate.
func RetryIf(cond func(error) bool) Option {
	return func(p *Policy) { p.RetryIf = cond }
}

// OnRetry sets the per-retry hook.
func OnRetry(cb RetryCallback) Option {
	return func(p *Policy) { p.OnRetry = cb }
}

// OnGiveUp sets the permanent-failure hook.
func OnGiveUp(cb GiveUpCallback) Option {
	return func(p *Policy) { p.OnGiveUp = cb }
}

// WithBreaker opts into breaker protection for service using default tuning.
func WithBreaker(service string) Option {
	return func(p *Policy) { p.BreakerService = service }
}

// WithBreakerConfig opts into breaker protection for service with explicit
// tuning.
func WithBreakerConfig(service string, cfg circuit.Config) Option {
	return func(p *Policy) {
		p.BreakerService = service
		p.BreakerConfig = cfg
	}
}

// normalized returns a copy with defaults applied to zero-valued fields.
func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Backoff == nil {
		p.Backoff = backoff.Exponential{Base: backoff.DefaultBase, Max: backoff.DefaultMax}
	}
	if p.JitterFactor < 0 {
		p.JitterFactor = 0
	} else if p.JitterFactor > 1 {
		p.JitterFactor = 1
	}
	if len(p.RetryOn) == 0 {
		p.RetryOn = []classify.Matcher{classify.Any()}
	}
	return p
}
