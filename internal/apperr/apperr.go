// Package apperr defines the error taxonomy shared by the ledger, roster,
// report, and auth components. Handlers map these to HTTP statuses; everything
// below the handlers matches with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing required input.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to a nonexistent student or record.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a storage-layer write rejection.
	ErrPersistence = errors.New("persistence failed")
	// ErrAuthentication marks a missing or invalid session / bad credentials.
	ErrAuthentication = errors.New("authentication failed")
)

// Validation wraps a descriptive message as a validation error.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// NotFound wraps a descriptive message as a not-found error.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Persistence wraps a storage failure, keeping the cause in the chain.
func Persistence(cause error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%w: %s: %w", ErrPersistence, msg, cause)
}

// Authentication wraps a descriptive message as an authentication error.
func Authentication(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrAuthentication}, args...)...)
}
