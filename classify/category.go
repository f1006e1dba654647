package classify

// Category is a coarse classification of a failure, used to select an
// appropriate retry timing profile.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryConnection
	CategoryTimeout
	CategoryRateLimit
	CategoryServiceUnavailable
	CategoryResource
	CategoryAuth
	CategoryConfiguration
)

func (c Category) String() string {
	switch c {
	case CategoryConnection:
		return "connection_error"
	case CategoryTimeout:
		return "timeout_error"
	case CategoryRateLimit:
		return "rate_limit_error"
	case CategoryServiceUnavailable:
		return "service_unavailable"
	case CategoryResource:
		return "resource_error"
	case CategoryAuth:
		return "auth_error"
	case CategoryConfiguration:
		return "configuration_error"
	default:
		return "unknown"
	}
}

// DefaultRetryable reports the retryability a category implies when the error
// itself does not carry an explicit verdict. Transient infrastructure
// failures retry; auth and configuration failures do not.
func (c Category) DefaultRetryable() bool {
	switch c {
	case CategoryConnection, CategoryTimeout, CategoryRateLimit,
		CategoryServiceUnavailable, CategoryResource:
		return true
	default:
		return false
	}
}
