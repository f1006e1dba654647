package classify

import (
	"errors"
	"fmt"
)

// Categorizer is the capability interface an error may implement to expose
// its category. Errors from other packages participate in category-based
// backoff selection without importing this package's Error type.
type Categorizer interface {
	ErrorCategory() Category
}

// Retryabler is the capability interface an error may implement to carry an
// authoritative retryability verdict.
type Retryabler interface {
	IsRetryable() bool
}

// Error is a categorized failure. It wraps an optional cause and may carry an
// explicit retryability override; without one, the category default applies.
type Error struct {
	Category Category
	Message  string
	Err      error

	retryable *bool
}

// New creates a categorized error with a message.
func New(cat Category, msg string) *Error {
	return &Error{Category: cat, Message: msg}
}

// Wrap categorizes an existing error. Returns nil if err is nil.
func Wrap(err error, cat Category) *Error {
	if err == nil {
		return nil
	}
	return &Error{Category: cat, Err: err}
}

// WithRetryable pins the retryability verdict, overriding the category default.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.retryable = &retryable
	return e
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Category, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Category, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Category, e.Message)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) ErrorCategory() Category { return e.Category }

func (e *Error) IsRetryable() bool {
	if e.retryable != nil {
		return *e.retryable
	}
	return e.Category.DefaultRetryable()
}

// CategoryOf extracts the category of err, walking the wrap chain. Errors
// exposing an HTTP status code are categorized by status. The second return
// is false when no category information is available.
func CategoryOf(err error) (Category, bool) {
	if err == nil {
		return CategoryUnknown, false
	}
	var c Categorizer
	if errors.As(err, &c) {
		return c.ErrorCategory(), true
	}
	var sc StatusCoder
	if errors.As(err, &sc) {
		return CategoryForStatus(sc.HTTPStatusCode()), true
	}
	return CategoryUnknown, false
}

// RetryableOf extracts an explicit retryability verdict from err, walking the
// wrap chain. The second return is false when the error carries none.
func RetryableOf(err error) (bool, bool) {
	if err == nil {
		return false, false
	}
	var r Retryabler
	if errors.As(err, &r) {
		return r.IsRetryable(), true
	}
	return false, false
}
