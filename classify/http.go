package classify

import "net/http"

// StatusCoder is a classify-owned interface that lets HTTP-aware callers
// expose response status codes without this package importing transport
// packages.
//
// Implementations should use status code 0 for transport-level errors.
type StatusCoder interface {
	HTTPStatusCode() int
}

// CategoryForStatus maps an HTTP status code onto the error taxonomy.
func CategoryForStatus(status int) Category {
	switch status {
	case 0:
		return CategoryConnection
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return CategoryTimeout
	case http.StatusTooManyRequests:
		return CategoryRateLimit
	case http.StatusUnauthorized, http.StatusForbidden:
		return CategoryAuth
	case http.StatusInsufficientStorage:
		return CategoryResource
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return CategoryServiceUnavailable
	}

	switch {
	case status >= 500 && status <= 599:
		return CategoryServiceUnavailable
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return CategoryConfiguration
	default:
		return CategoryUnknown
	}
}
