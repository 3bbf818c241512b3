// ABOUTME: Error kinds produced by the resource controllers
// ABOUTME: Local validation failures, stale responses and declined confirmations

package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrStale is returned when a newer operation on the same resource was
	// issued while this one was in flight. Its response was discarded.
	ErrStale = errors.New("stale response discarded")

	// ErrCancelled is returned when the operator declines a confirmation.
	ErrCancelled = errors.New("cancelled by operator")
)

// ValidationError is a local input failure. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
