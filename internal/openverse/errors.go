package openverse

import (
	"errors"
	"fmt"
)

var (
	// ErrRateLimitExceeded is returned when the upstream answers 429.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrTransport wraps network-level failures: timeouts, refused connections, bad responses.
	ErrTransport = errors.New("openverse transport error")
)

// UpstreamError is a non-success answer from any API call other than the token exchange.
type UpstreamError struct {
	StatusCode int
	Body       interface{}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("openverse request failed: status %d: %v", e.StatusCode, e.Body)
}

// AuthError is a non-success answer from the token endpoint.
type AuthError struct {
	StatusCode int
	Body       interface{}
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: status %d: %v", e.StatusCode, e.Body)
}

// ErrorKind names the category of err for API responses.
func ErrorKind(err error) string {
	var upstreamErr *UpstreamError
	var authErr *AuthError
	switch {
	case errors.Is(err, ErrRateLimitExceeded):
		return "rate_limit_exceeded"
	case errors.As(err, &authErr):
		return "auth_error"
	case errors.Is(err, ErrTransport):
		return "transport_error"
	case errors.As(err, &upstreamErr):
		return "upstream_error"
	default:
		return "unknown"
	}
}
