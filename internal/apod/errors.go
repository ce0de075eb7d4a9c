package apod

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrInvalidDate indicates the requested date is outside the APOD archive.
// It is raised locally, before any request is made.
var ErrInvalidDate = errors.New("date outside APOD archive range")

// ErrUnauthorized indicates the API key was rejected by the service.
var ErrUnauthorized = errors.New("APOD API key rejected")

// TransportError wraps failures that happen before any response arrives.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("APOD request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the transport failure was a timeout.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// ServerError represents a non-2xx response other than 401.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("APOD server error: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("APOD server error: HTTP %d: %s", e.StatusCode, e.Body)
}

// DecodeError indicates the response body did not match the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode APOD response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether retrying the same request could succeed.
func IsRetryable(err error) bool {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return true
	}
	var serverErr *ServerError
	return errors.As(err, &serverErr)
}

// UserMessage turns a fetch error into text suitable for showing to a user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		transportErr *TransportError
		serverErr    *ServerError
		decodeErr    *DecodeError
	)

	switch {
	case errors.Is(err, ErrInvalidDate):
		return "Date must be between June 16, 1995 and today. Please pick another date."
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized access. Please check your NASA API key."
	case errors.As(err, &transportErr):
		if transportErr.Timeout() {
			return "Request timed out. Please try again."
		}
		return "No internet connection. Please check your network settings and try again."
	case errors.As(err, &serverErr):
		return fmt.Sprintf("Server error %d. Please try again later.", serverErr.StatusCode)
	case errors.As(err, &decodeErr):
		return "Received an unexpected response from the APOD service."
	default:
		return err.Error()
	}
}

// Code returns a stable machine-readable identifier for a fetch error.
func Code(err error) string {
	var (
		transportErr *TransportError
		serverErr    *ServerError
		decodeErr    *DecodeError
	)

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &serverErr):
		return "server_error"
	case errors.As(err, &decodeErr):
		return "decode_failed"
	default:
		return "unknown"
	}
}
