package vatsim

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrServiceUnreachable is matched (via errors.Is) by every failure to obtain a
// usable response from a VATSIM endpoint: transport errors, non-2xx statuses,
// rate limiting and undecodable bodies.
var ErrServiceUnreachable = errors.New("vatsim service unreachable")

// ErrNotConnected is returned when the live data feed is queried before Connect.
var ErrNotConnected = errors.New("vatsim client not connected")

// StatusError is returned for a non-success HTTP status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("got status %d from %s endpoint: %s", e.StatusCode, e.Endpoint, e.Body)
	}
	return fmt.Sprintf("got status %d from %s endpoint", e.StatusCode, e.Endpoint)
}

func (e *StatusError) Unwrap() error { return ErrServiceUnreachable }

// DecodeError is returned when a response body cannot be decoded.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrServiceUnreachable, e.Err} }

// RateLimitError represents an HTTP 429 rate limit error with retry information.
type RateLimitError struct {
	Endpoint   string
	RetryAfter time.Duration
	Headers    RateLimitHeaders
}

// RateLimitHeaders contains rate limit information from response headers.
// Fields are -1 when the header was not present.
type RateLimitHeaders struct {
	Limit     int       // X-Rate-Limit-Limit: Maximum requests allowed
	Remaining int       // X-Rate-Limit-Remaining: Requests remaining in current window
	Reset     time.Time // X-Rate-Limit-Reset: When the rate limit resets
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limit exceeded on %s endpoint (retry after %v)", e.Endpoint, e.RetryAfter)
	}
	return fmt.Sprintf("rate limit exceeded on %s endpoint", e.Endpoint)
}

func (e *RateLimitError) Unwrap() error { return ErrServiceUnreachable }

// IsRateLimitError checks if an error is, or wraps, a rate limit error.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// parseRetryAfter extracts the Retry-After header value.
// Returns the duration to wait, or 0 if header is not present.
// Supports both delay-seconds (integer) and HTTP-date formats.
func parseRetryAfter(headers http.Header) time.Duration {
	retryAfter := headers.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if retryTime, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(retryTime); d > 0 {
			return d
		}
	}

	return 0
}

// extractRateLimitHeaders reads the X-Rate-Limit-* (or X-RateLimit-*) headers.
func extractRateLimitHeaders(headers http.Header) RateLimitHeaders {
	rlh := RateLimitHeaders{
		Limit:     -1,
		Remaining: -1,
	}

	if v, ok := headerInt(headers, "X-Rate-Limit-Limit", "X-RateLimit-Limit"); ok {
		rlh.Limit = int(v)
	}
	if v, ok := headerInt(headers, "X-Rate-Limit-Remaining", "X-RateLimit-Remaining"); ok {
		rlh.Remaining = int(v)
	}
	// Reset is a Unix timestamp
	if v, ok := headerInt(headers, "X-Rate-Limit-Reset", "X-RateLimit-Reset"); ok {
		rlh.Reset = time.Unix(v, 0)
	}

	return rlh
}

// headerInt returns the integer value of the first present header among names.
func headerInt(headers http.Header, names ...string) (int64, bool) {
	for _, name := range names {
		raw := headers.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		return v, err == nil
	}
	return 0, false
}
