package loader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// ErrorType represents the category of a fetch failure
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (connection refused, timeout, etc.)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP indicates a non-2xx response
	ErrTypeHTTP
	// ErrTypeParse indicates a body that is not a JSON object
	ErrTypeParse
)

// NetworkErrorSubtype provides more specific network error classification
type NetworkErrorSubtype int

const (
	NetworkErrorGeneral NetworkErrorSubtype = iota
	NetworkErrorTimeout
	NetworkErrorConnectionRefused
	NetworkErrorDNS
	NetworkErrorCanceled
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// FetchError is returned by every Source when device data cannot be loaded
type FetchError struct {
	Type           ErrorType
	Message        string
	StatusCode     int    // HTTP status code (ErrTypeHTTP only)
	Source         string // Source description, e.g. the request URL
	NetworkSubtype NetworkErrorSubtype
	Err            error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyNetworkError picks the network subtype for a transport failure
func classifyNetworkError(err error) NetworkErrorSubtype {
	switch {
	case errors.Is(err, context.Canceled):
		return NetworkErrorCanceled
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded), os.IsTimeout(err):
		return NetworkErrorTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return NetworkErrorConnectionRefused
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return NetworkErrorDNS
	}

	return NetworkErrorGeneral
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(source string, err error) *FetchError {
	return &FetchError{
		Type:           ErrTypeNetwork,
		Message:        "request failed",
		Source:         source,
		NetworkSubtype: classifyNetworkError(err),
		Err:            err,
	}
}

// NewHTTPError creates an error for a non-2xx response
func NewHTTPError(source string, statusCode int) *FetchError {
	return &FetchError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("unexpected status %d", statusCode),
		StatusCode: statusCode,
		Source:     source,
	}
}

// NewParseError creates an error for a malformed body
func NewParseError(source string, err error) *FetchError {
	return &FetchError{
		Type:    ErrTypeParse,
		Message: "invalid device payload",
		Source:  source,
		Err:     err,
	}
}

func asFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	fe, ok := asFetchError(err)
	return ok && fe.Type == ErrTypeNetwork
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	fe, ok := asFetchError(err)
	return ok && fe.Type == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	fe, ok := asFetchError(err)
	return ok && fe.Type == ErrTypeParse
}

// ShortMessage returns a concise, user-facing description of err
func ShortMessage(err error) string {
	fe, ok := asFetchError(err)
	if !ok {
		return err.Error()
	}

	switch fe.Type {
	case ErrTypeNetwork:
		switch fe.NetworkSubtype {
		case NetworkErrorTimeout:
			return "Device API not responding (timeout)"
		case NetworkErrorConnectionRefused:
			return "Device API refused connection"
		case NetworkErrorDNS:
			return "Cannot resolve device API hostname"
		case NetworkErrorCanceled:
			return "Request canceled"
		default:
			return "Network error - check connection"
		}
	case ErrTypeHTTP:
		return fmt.Sprintf("Device API error (HTTP %d)", fe.StatusCode)
	case ErrTypeParse:
		return "Failed to parse device data"
	default:
		return fe.Message
	}
}
