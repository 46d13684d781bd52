package upstream

import (
	"errors"
	"fmt"
)

// Common upstream error types
var (
	ErrNetwork         = errors.New("network error")
	ErrUpstreamStatus  = errors.New("upstream returned non-success status")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// NetworkError means the request never produced a usable response
type NetworkError struct {
	Op  string // "request", "read"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is matches ErrNetwork so callers can test the class without errors.As
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// UpstreamError carries a non-2xx reply from CASAGATEWAY
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("CASAGATEWAY returned %d: %s", e.StatusCode, e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamStatus
}

// IsNetworkError returns true if err is a transport level failure
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsUpstreamError returns true if err is a non-success upstream reply
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr)
}
