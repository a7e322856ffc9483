package newznab

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid newznab configuration")
	// ErrMalformedResponse indicates a body that is not the XML the caller expected
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoNFO indicates the release has no NFO file
	ErrNoNFO = errors.New("release does not have an NFO file associated")
)

// APIError is an error reported by the indexer in an <error> document
type APIError struct {
	Code        string
	Description string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("newznab API error %s: %s", e.Code, e.Description)
}

// TransportError indicates the request could not be completed or the
// indexer answered with a non-2xx status
type TransportError struct {
	Endpoint   string
	StatusCode int // 0 when no response was received
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("request to %s failed with status %d", e.Endpoint, e.StatusCode)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedResponseError indicates a body that is not well-formed XML or is
// missing an element the caller requires
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedResponse
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func malformed(format string, args ...any) *MalformedResponseError {
	return &MalformedResponseError{Reason: fmt.Sprintf(format, args...)}
}
