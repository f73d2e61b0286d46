// Package control
// Author: momentics <momentics@gmail.com>
//
// Run-wide counters, progress reporting, metrics and debug introspection for
// hioload-connscale.
//
// Provides concurrent-safe state handling primitives including:
//   - outcome counters readable as one consistent snapshot
//   - a periodic reporter with a pluggable sink
//   - Prometheus collectors and JSON debug probes over HTTP
//   - file-descriptor ceiling management
//
// This package is cross-platform and build-tag-partitioned as needed.
package control
