// Package logging provides the logging interface used across sqfree.
// It hides the backend behind a small Logger interface with structured
// fields; the default backend is zerolog, with a standard-library adapter
// for callers that already hold a *log.Logger.
package logging
