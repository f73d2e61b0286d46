// Package api
// Author: momentics@gmail.com
//
// Attempt outcome and run summary values.

package api

import (
	"net"
	"time"
)

// Outcome is the terminal classification of one connection attempt.
// Conn is non-nil only when Kind is FailureNone; ownership moves to the caller.
// Phase is the last non-terminal state reached before State.
type Outcome struct {
	Index  int
	Source net.IP
	State  AttemptState
	Phase  AttemptState
	Kind   FailureKind
	Err    error
	Conn   net.Conn
}

// Upgraded reports whether the attempt completed the handshake.
func (o Outcome) Upgraded() bool {
	return o.Kind == FailureNone && o.Conn != nil
}

// Snapshot is one periodic reading of the run counters.
type Snapshot struct {
	Elapsed   time.Duration
	Connected int64
	Failed    int64
}

// Done reports whether every one of total attempts has been classified.
func (s Snapshot) Done(total int) bool {
	return s.Connected+s.Failed >= int64(total)
}

// Summary is produced when the launch phase finishes and completed at teardown.
type Summary struct {
	Requested   int
	Established int
	Failed      int
	Failures    map[FailureKind]int64
	Closed      int
	CloseErrors int
	LaunchTime  time.Duration
	Interrupted bool
}
