// Package grpc adapts gRPC status codes to the error taxonomy and provides a
// client interceptor that retries unary calls through the executor.
package grpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bulwark-io/bulwark/classify"
	"github.com/bulwark-io/bulwark/retry"
)

// CategoryForCode maps a gRPC status code onto the error taxonomy.
func CategoryForCode(code codes.Code) classify.Category {
	switch code {
	case codes.Unavailable:
		return classify.CategoryServiceUnavailable
	case codes.DeadlineExceeded:
		return classify.CategoryTimeout
	case codes.ResourceExhausted:
		return classify.CategoryResource
	case codes.Unauthenticated, codes.PermissionDenied:
		return classify.CategoryAuth
	case codes.InvalidArgument, codes.FailedPrecondition, codes.OutOfRange:
		return classify.CategoryConfiguration
	default:
		return classify.CategoryUnknown
	}
}

// Categorize wraps a gRPC status error with its taxonomy category. Non-status
// errors and nil pass through unchanged.
func Categorize(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	wrapped := classify.Wrap(err, CategoryForCode(st.Code()))
	// Aborted usually signals a lost transactional race worth another try,
	// even though it maps to no transient category.
	if st.Code() == codes.Aborted {
		wrapped = wrapped.WithRetryable(true)
	}
	return wrapped
}

// DefaultPolicyFunc derives a policy from the call method.
// "/package.Service/Method" becomes a default policy named after the method.
func DefaultPolicyFunc(method string) retry.Policy {
	return retry.NewPolicy(strings.TrimPrefix(method, "/"))
}

// UnaryClientInterceptor returns a gRPC interceptor that retries calls using
// the executor. policyFunc maps full method names to policies; nil uses
// DefaultPolicyFunc.
func UnaryClientInterceptor(exec *retry.Executor, policyFunc func(method string) retry.Policy) grpc.UnaryClientInterceptor {
	if policyFunc == nil {
		policyFunc = DefaultPolicyFunc
	}
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		p := policyFunc(method)
		op := func(ctx context.Context) error {
			return Categorize(invoker(ctx, method, req, reply, cc, opts...))
		}
		return exec.Do(ctx, p, op)
	}
}
