package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ExitCode maps an error returned by a run to the process exit code.
//
// A nil error maps to ExitSuccess. Deadline expiry and TimeoutError map to
// ExitErrorTimeout; cancellation maps to ExitErrorCanceled; ConfigError and
// ValidationError map to ExitErrorConfig. Everything else is generic.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		timeoutErr    TimeoutError
		configErr     ConfigError
		validationErr ValidationError
	)
	switch {
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &configErr), errors.As(err, &validationErr):
		return ExitErrorConfig
	default:
		return ExitErrorGeneric
	}
}

// HandleRunError writes a one-line diagnostic for err to out and returns the
// matching exit code. duration is the time spent before the failure; it is
// omitted from the message when zero.
func HandleRunError(err error, duration time.Duration, out io.Writer) int {
	code := ExitCode(err)
	if code == ExitSuccess {
		return code
	}

	var msg string
	switch code {
	case ExitErrorTimeout:
		msg = "Run timed out"
	case ExitErrorCanceled:
		msg = "Run canceled"
	case ExitErrorConfig:
		msg = "Invalid configuration"
	default:
		msg = "Run failed"
	}

	if duration > 0 {
		fmt.Fprintf(out, "%s after %s: %v\n", msg, duration.Round(time.Millisecond), err)
	} else {
		fmt.Fprintf(out, "%s: %v\n", msg, err)
	}
	return code
}
