// Package server serves the Prometheus registry on /metrics and a JSON
// liveness report on /healthz while a sweep runs.
package server
