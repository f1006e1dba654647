package retry

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/bulwark-io/bulwark/backoff"
	"github.com/bulwark-io/bulwark/circuit"
	"github.com/bulwark-io/bulwark/classify"
	"github.com/bulwark-io/bulwark/observe"
)

// Operation is a retryable unit of work.
type Operation func(ctx context.Context) error

// OperationValue is a retryable unit of work returning a value.
type OperationValue[T any] func(ctx context.Context) (T, error)

// Executor runs operations under retry policies, consulting the circuit
// breaker before each attempt and the error taxonomy after each failure.
//
// Executors are safe for concurrent use: policies and strategies are
// immutable, the breaker registry serializes its own state, and the attempt
// loop is local to each call.
type Executor struct {
	breakers *circuit.Registry
	observer observe.Observer
	logger   *zap.Logger
	clock    func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithRegistry sets the circuit breaker registry. Injecting a registry lets
// tests run isolated breaker state and lets several executors share one set
// of breakers.
func WithRegistry(r *circuit.Registry) ExecutorOption {
	return func(e *Executor) {
		if r != nil {
			e.breakers = r
		}
	}
}

// WithObserver sets the observer.
func WithObserver(o observe.Observer) ExecutorOption {
	return func(e *Executor) {
		if o != nil {
			e.observer = o
		}
	}
}

// WithLogger sets the logger used for swallowed callback failures.
func WithLogger(l *zap.Logger) ExecutorOption {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExecutorClock overrides the clock, primarily for tests.
func WithExecutorClock(f func() time.Time) ExecutorOption {
	return func(e *Executor) {
		if f != nil {
			e.clock = f
		}
	}
}

// NewExecutor creates an Executor. Defaults: fresh breaker registry, noop
// observer, nop logger, wall clock.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		breakers: circuit.NewRegistry(),
		observer: observe.NoopObserver{},
		logger:   zap.NewNop(),
		clock:    time.Now,
		sleep:    sleepWithContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Breakers returns the executor's breaker registry, for status endpoints and
// test harnesses.
func (e *Executor) Breakers() *circuit.Registry { return e.breakers }

// Do runs op under p.
func (e *Executor) Do(ctx context.Context, p Policy, op Operation) error {
	_, err := DoValue(ctx, e, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// DoValue runs op under p, returning its value.
//
// On exhausted retries or a non-retryable failure the last operation error is
// returned unchanged, so callers can match on the real failure. A refusal by
// the circuit breaker returns *circuit.OpenError without invoking op and
// without consuming an attempt.
func DoValue[T any](ctx context.Context, e *Executor, p Policy, op OperationValue[T]) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if e == nil {
		e = NewExecutor()
	}
	p = p.normalized()

	var breaker *circuit.Breaker
	if p.BreakerService != "" {
		breaker = e.breakers.GetOrCreate(p.BreakerService, p.BreakerConfig)
	}

	res := observe.Result{Policy: p.Name, Start: e.clock()}
	e.observer.OnStart(ctx, p.Name)

	fail := func(last T, err error) (T, error) {
		res.End = e.clock()
		res.Err = err
		e.observer.OnFailure(ctx, res)
		return last, err
	}

	var last T
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fail(last, err)
		}

		if breaker != nil && !breaker.Allow() {
			// Fast-fail: the operation is never invoked and no attempt slot
			// is consumed.
			return fail(last, breaker.OpenError())
		}

		rec := observe.Attempt{Number: attempt, Start: e.clock()}
		val, err := op(ctx)
		rec.End = e.clock()
		last = val

		if err == nil {
			if breaker != nil {
				breaker.OnSuccess()
			}
			e.observer.OnAttempt(ctx, p.Name, rec)
			res.Attempts = append(res.Attempts, rec)
			res.End = e.clock()
			e.observer.OnSuccess(ctx, res)
			return val, nil
		}

		if breaker != nil {
			breaker.OnFailure(err)
		}

		rec.Err = err
		category, categorized := classify.CategoryOf(err)
		rec.Category = category

		retryable := classify.ShouldRetry(err, p.RetryOn, p.IgnoreOn, p.RetryIf)
		if !retryable || attempt >= p.MaxAttempts {
			e.observer.OnAttempt(ctx, p.Name, rec)
			res.Attempts = append(res.Attempts, rec)
			if p.OnGiveUp != nil {
				e.invokeCallback("on_give_up", p.Name, func() {
					p.OnGiveUp(err, attempt, p.MaxAttempts)
				})
			}
			return fail(last, err)
		}

		// The failure's category implies a timing profile better suited than
		// the caller's strategy; uncategorized errors keep the policy's own.
		strategy, jitter := p.Backoff, p.JitterFactor
		if categorized {
			profile := backoff.ForCategory(category)
			strategy, jitter = profile.Strategy, profile.JitterFactor
		}
		delay := backoff.ApplyJitter(strategy.Delay(attempt), jitter)

		rec.Delay = delay
		e.observer.OnAttempt(ctx, p.Name, rec)
		res.Attempts = append(res.Attempts, rec)

		if p.OnRetry != nil {
			e.invokeCallback("on_retry", p.Name, func() {
				p.OnRetry(err, attempt, p.MaxAttempts, delay)
			})
		}

		if err := e.sleep(ctx, delay); err != nil {
			return fail(last, err)
		}
	}
}

// invokeCallback runs a user hook, logging and swallowing any panic so hooks
// can never abort the loop or replace the real failure.
func (e *Executor) invokeCallback(name, policy string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("retry: callback panicked",
				zap.String("callback", name),
				zap.String("policy", policy),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()
	fn()
}

// sleepWithContext blocks for d or until ctx is done, so a caller deadline
// aborts mid-wait instead of waiting out the full backoff.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)

	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C: // drain any pending tick so the channel doesn't retain value
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
