package classify

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategory_String(t *testing.T) {
	assert.Equal(t, "connection_error", CategoryConnection.String())
	assert.Equal(t, "rate_limit_error", CategoryRateLimit.String())
	assert.Equal(t, "unknown", CategoryUnknown.String())
	assert.Equal(t, "unknown", Category(99).String())
}

func TestCategory_DefaultRetryable(t *testing.T) {
	retryable := []Category{
		CategoryConnection, CategoryTimeout, CategoryRateLimit,
		CategoryServiceUnavailable, CategoryResource,
	}
	for _, c := range retryable {
		assert.True(t, c.DefaultRetryable(), "category %s", c)
	}
	for _, c := range []Category{CategoryAuth, CategoryConfiguration, CategoryUnknown} {
		assert.False(t, c.DefaultRetryable(), "category %s", c)
	}
}

func TestError_Message(t *testing.T) {
	e := New(CategoryTimeout, "fetch exceeded deadline")
	assert.Equal(t, "timeout_error: fetch exceeded deadline", e.Error())

	cause := errors.New("dial tcp: i/o timeout")
	w := Wrap(cause, CategoryConnection)
	assert.Contains(t, w.Error(), "connection_error")
	assert.Contains(t, w.Error(), "i/o timeout")
	assert.ErrorIs(t, w, cause)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CategoryConnection))
}

func TestError_RetryabilityOverride(t *testing.T) {
	e := New(CategoryConnection, "refused")
	assert.True(t, e.IsRetryable(), "category default")

	assert.False(t, e.WithRetryable(false).IsRetryable(), "explicit override wins")

	auth := New(CategoryAuth, "expired token").WithRetryable(true)
	assert.True(t, auth.IsRetryable(), "override can also widen the category default")
}

func TestCategoryOf(t *testing.T) {
	_, ok := CategoryOf(nil)
	assert.False(t, ok)

	_, ok = CategoryOf(errors.New("plain"))
	assert.False(t, ok, "plain errors carry no category")

	cat, ok := CategoryOf(New(CategoryRateLimit, "throttled"))
	require.True(t, ok)
	assert.Equal(t, CategoryRateLimit, cat)

	// Category survives wrapping.
	wrapped := fmt.Errorf("calling warehouse: %w", New(CategoryServiceUnavailable, "503"))
	cat, ok = CategoryOf(wrapped)
	require.True(t, ok)
	assert.Equal(t, CategoryServiceUnavailable, cat)
}

type statusErr struct{ code int }

func (e *statusErr) Error() string       { return fmt.Sprintf("status %d", e.code) }
func (e *statusErr) HTTPStatusCode() int { return e.code }

func TestCategoryOf_StatusCoder(t *testing.T) {
	cat, ok := CategoryOf(&statusErr{code: http.StatusTooManyRequests})
	require.True(t, ok)
	assert.Equal(t, CategoryRateLimit, cat)
}

func TestRetryableOf(t *testing.T) {
	_, ok := RetryableOf(errors.New("plain"))
	assert.False(t, ok)

	v, ok := RetryableOf(New(CategoryTimeout, "slow"))
	require.True(t, ok)
	assert.True(t, v)

	v, ok = RetryableOf(fmt.Errorf("wrapped: %w", New(CategoryTimeout, "slow").WithRetryable(false)))
	require.True(t, ok)
	assert.False(t, v)
}

func TestCategoryForStatus(t *testing.T) {
	cases := map[int]Category{
		0:   CategoryConnection,
		408: CategoryTimeout,
		504: CategoryTimeout,
		429: CategoryRateLimit,
		401: CategoryAuth,
		403: CategoryAuth,
		507: CategoryResource,
		502: CategoryServiceUnavailable,
		503: CategoryServiceUnavailable,
		500: CategoryServiceUnavailable,
		400: CategoryConfiguration,
		422: CategoryConfiguration,
		404: CategoryUnknown,
		200: CategoryUnknown,
	}
	for status, want := range cases {
		assert.Equal(t, want, CategoryForStatus(status), "status %d", status)
	}
}

func TestMatchers(t *testing.T) {
	sentinel := errors.New("sentinel")

	assert.True(t, Is(sentinel).Matches(fmt.Errorf("wrap: %w", sentinel)))
	assert.False(t, Is(sentinel).Matches(errors.New("other")))

	assert.True(t, As[*net.OpError]().Matches(&net.OpError{Op: "dial", Err: errors.New("refused")}))
	assert.False(t, As[*net.OpError]().Matches(errors.New("plain")))

	assert.True(t, OfCategory(CategoryTimeout).Matches(New(CategoryTimeout, "slow")))
	assert.False(t, OfCategory(CategoryTimeout).Matches(New(CategoryAuth, "denied")))
	assert.False(t, OfCategory(CategoryTimeout).Matches(errors.New("plain")))

	assert.True(t, Any().Matches(errors.New("anything")))
	assert.False(t, Any().Matches(nil))
}
