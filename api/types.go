// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and contracts.

package api

// AttemptState enumerates the stages of a connection attempt.
type AttemptState int

const (
	StateInit AttemptState = iota
	StateBound
	StateConnecting
	StateConnected
	StateRequestSent
	StateAwaitingResponse
	StateUpgraded
	StateFailed
)

func (s AttemptState) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateBound:
		return "bound"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateRequestSent:
		return "request_sent"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateUpgraded:
		return "upgraded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s AttemptState) Terminal() bool {
	return s == StateUpgraded || s == StateFailed
}

// OutcomeRecorder receives exactly one classification per attempt.
type OutcomeRecorder interface {
	RecordSuccess()
	RecordFailure(kind FailureKind)
}

// ProgressSink consumes periodic snapshots for display.
type ProgressSink interface {
	Report(s Snapshot)
}

// ProgressSinkFunc adapts a function to ProgressSink.
type ProgressSinkFunc func(s Snapshot)

// Report calls f(s).
func (f ProgressSinkFunc) Report(s Snapshot) { f(s) }
