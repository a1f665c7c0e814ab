package providers

import (
	"errors"
	"fmt"
)

// ErrTransportFailure matches every error raised while talking to the
// backing service: network errors, non-2xx statuses, unreadable bodies.
var ErrTransportFailure = errors.New("transport failure")

// ProviderError describes one failed exchange with the flight operations service.
type ProviderError struct {
	Code       string
	Message    string
	Details    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrTransportFailure
}

// IsTransportFailure reports whether err came from the transport layer.
func IsTransportFailure(err error) bool {
	return errors.Is(err, ErrTransportFailure)
}

// ErrorCode extracts the provider error code, or "" for foreign errors.
func ErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
