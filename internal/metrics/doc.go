// Package metrics exposes sampling runs as Prometheus series and reads
// runtime memory statistics.
//
// A Recorder is an orchestration.Observer: plug it into a Coordinator with
// orchestration.WithObserver and serve its registry with internal/server.
// Every series lives in the sqfree namespace and is registered on a private
// registry, so several recorders can coexist in one process (tests do).
package metrics
