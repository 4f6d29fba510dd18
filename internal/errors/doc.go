// Package apperrors defines the typed errors of sqfree and maps them to
// process exit codes. Configuration problems, invalid run requests, failed
// runs and timeouts each have their own type so that callers can branch with
// errors.As instead of matching messages.
//
// All wrapping uses fmt.Errorf with %w; every type that carries a cause
// implements Unwrap.
package apperrors
