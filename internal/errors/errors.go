package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Run completed.
	ExitErrorGeneric  = 1   // Run failed (worker panic, I/O error, ...).
	ExitErrorTimeout  = 2   // The --timeout deadline expired.
	ExitErrorConfig   = 4   // Invalid flags, environment, config file or run request.
	ExitErrorCanceled = 130 // Interrupted by the user (SIGINT convention).
)

// ConfigError represents a user configuration error, such as an invalid flag
// value or an unreadable config file.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError reports a failed sampling run while preserving the
// original cause.
type CalculationError struct {
	// Cause is the underlying error that made the run fail.
	Cause error
}

func (e CalculationError) Error() string { return e.Cause.Error() }

// Unwrap returns the original cause.
func (e CalculationError) Unwrap() error { return e.Cause }

// PanicError records a panic recovered from a pool worker. Contract
// violations inside the number-theory engine surface this way.
type PanicError struct {
	// Worker is the index of the pool worker that panicked.
	Worker int
	// Value is the value passed to panic.
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("worker %d panicked: %v", e.Worker, e.Value)
}

// TimeoutError represents an exceeded run deadline.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an invalid run request. It identifies which
// field failed validation and why.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// It returns nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline
// exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
