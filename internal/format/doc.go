// Package format holds pure string formatting helpers shared by the CLI and
// the dashboard: durations, ETAs, progress bars, densities and large
// integers.
package format
