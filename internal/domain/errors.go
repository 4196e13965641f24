package domain

import (
	"errors"
	"fmt"
)

var ErrUpstreamTimeout = errors.New("seatsaero: timeout")

// ValidationError carries a message that is safe to show to API callers.
type ValidationError struct{ Message string }

func (e *ValidationError) Error() string { return e.Message }

func Invalid(msg string) error { return &ValidationError{Message: msg} }

// UpstreamStatusError reports a non-2xx answer from seats.aero.
type UpstreamStatusError struct {
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("seatsaero: bad status %d", e.StatusCode)
}
