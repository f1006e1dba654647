// Package http wraps outbound HTTP calls in the retry executor, producing
// errors the classify taxonomy understands.
package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bulwark-io/bulwark/classify"
	"github.com/bulwark-io/bulwark/retry"
)

// Do executes an HTTP request with retries under p.
// It handles request cloning, body draining/closing on retryable failures,
// and status code categorization.
func Do(ctx context.Context, exec *retry.Executor, p retry.Policy, client *http.Client, req *http.Request) (*http.Response, error) {
	if req.Body != nil && req.Body != http.NoBody && req.GetBody == nil {
		return nil, errors.New("bulwark: request body is not replayable (GetBody is nil)")
	}
	if client == nil {
		client = http.DefaultClient
	}

	op := func(ctx context.Context) (*http.Response, error) {
		outReq := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			outReq.Body = body
		}

		resp, err := client.Do(outReq)
		if err != nil {
			// Wrap transport errors so idempotency-aware categorization applies.
			return nil, &StatusError{
				Err:    err,
				Method: req.Method,
			}
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		// Failure: drain and close to prevent leaks on retry.
		// The drain is capped to avoid hanging on large error bodies.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		resp.Body.Close()

		return nil, &StatusError{
			Code:   resp.StatusCode,
			Method: req.Method,
			Header: resp.Header,
		}
	}

	return retry.DoValue(ctx, exec, p, op)
}

// StatusError carries an HTTP failure into the error taxonomy. Status code 0
// marks a transport-level error.
type StatusError struct {
	Code   int
	Method string
	Header http.Header
	Err    error
}

func (e *StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "http status " + strconv.Itoa(e.Code)
}

func (e *StatusError) Unwrap() error { return e.Err }

func (e *StatusError) HTTPStatusCode() int { return e.Code }

// ErrorCategory implements classify.Categorizer.
func (e *StatusError) ErrorCategory() classify.Category {
	return classify.CategoryForStatus(e.Code)
}

// IsRetryable implements classify.Retryabler. Transport errors and 5xx/408/429
// responses retry only on idempotent methods; replaying a non-idempotent
// request risks duplicate side effects.
func (e *StatusError) IsRetryable() bool {
	retryable := e.ErrorCategory().DefaultRetryable()
	if !retryable {
		return false
	}
	return isIdempotent(e.Method)
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut,
		http.MethodDelete, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
