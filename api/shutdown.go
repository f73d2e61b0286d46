// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that hold sockets past the launch phase.
type GracefulShutdown interface {
	// Shutdown releases every held resource. Individual failures are tolerated
	// and only counted; Shutdown itself reports how many resources it released.
	Shutdown() (closed, failed int)
}
