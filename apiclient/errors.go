package apiclient

import (
	"errors"
	"fmt"
)

const noMessage = "N/A"

var (
	// ErrUnsupportedMethod matches any *UnsupportedMethodError via errors.Is.
	ErrUnsupportedMethod = errors.New("apiclient: unsupported method")

	// ErrTooManyRedirects is returned by the redirect policy once the hop limit is reached.
	ErrTooManyRedirects = errors.New("apiclient: too many redirects")
)

// UnsupportedMethodError is returned when Request is called with a method other
// than GET or POST. No network I/O happens in that case.
type UnsupportedMethodError struct {
	Method string
}

func (e *UnsupportedMethodError) Error() string {
	return fmt.Sprintf("apiclient: unsupported method: %s", e.Method)
}

// Is lets errors.Is match ErrUnsupportedMethod.
func (e *UnsupportedMethodError) Is(target error) bool {
	return target == ErrUnsupportedMethod
}

// NetworkError wraps a transport level failure (DNS, connection refused,
// timeout, TLS, redirect limit). It never carries an HTTP status code.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("apiclient: unable to execute request: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ServerError is returned for 5xx responses and for any response whose body
// cannot be decoded into a non-empty JSON object, whatever its status.
type ServerError struct {
	// Body is the raw response body.
	Body       string
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("apiclient: server error (status code: %d, message: %s)", e.StatusCode, e.Message)
}

// ClientError is returned for any other response outside the 2xx range.
type ClientError struct {
	Message    string
	StatusCode int
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("apiclient: client error (status code: %d, message: %s)", e.StatusCode, e.Message)
}
