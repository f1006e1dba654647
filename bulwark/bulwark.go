// Package bulwark is the top-level facade over the fault-tolerance core:
// package-level Do/DoValue against a process-default executor, for callers
// that don't need to wire their own.
package bulwark

import (
	"context"

	"github.com/bulwark-io/bulwark/circuit"
	"github.com/bulwark-io/bulwark/retry"
)

// Policy re-exports retry.Policy for facade callers.
type Policy = retry.Policy

// NewPolicy re-exports retry.NewPolicy.
func NewPolicy(name string, opts ...retry.Option) Policy {
	return retry.NewPolicy(name, opts...)
}

// Init sets the global default executor.
// It must be called before Do/DoValue are used.
func Init(exec *retry.Executor) {
	retry.SetGlobal(exec)
}

// Do executes op under p using the default executor.
func Do(ctx context.Context, p Policy, op retry.Operation) error {
	return retry.DefaultExecutor().Do(ctx, p, op)
}

// DoValue executes op under p using the default executor.
func DoValue[T any](ctx context.Context, p Policy, op retry.OperationValue[T]) (T, error) {
	return retry.DoValue(ctx, retry.DefaultExecutor(), p, op)
}

// Breakers returns the default executor's circuit breaker registry, for
// health endpoints and test harnesses.
func Breakers() *circuit.Registry {
	return retry.DefaultExecutor().Breakers()
}
