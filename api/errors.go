// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types, the attempt failure taxonomy and error helpers for hioload-connscale.

package api

import "fmt"

// Common errors used across the module.
var (
	ErrNoSourceAddresses = fmt.Errorf("no usable source addresses")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrNotSupported      = fmt.Errorf("operation not supported")
	ErrHandshakeRejected = fmt.Errorf("upgrade response lacks 101 Switching Protocols")
	ErrAborted           = fmt.Errorf("attempt aborted by run cancellation")
)

// FailureKind classifies why an attempt ended in the Failed state.
type FailureKind int

const (
	// FailureNone marks an upgraded attempt.
	FailureNone FailureKind = iota
	FailureBindExhaustion
	FailureConnectTimeout
	FailureConnectRefused
	FailureHandshakeTimeout
	FailureHandshakeRejected
	FailureUnexpectedIO
	FailureAborted
)

// NumFailureKinds bounds per-kind counter arrays.
const NumFailureKinds = int(FailureAborted) + 1

// FailureKinds lists every failure kind in declaration order, FailureNone excluded.
var FailureKinds = []FailureKind{
	FailureBindExhaustion,
	FailureConnectTimeout,
	FailureConnectRefused,
	FailureHandshakeTimeout,
	FailureHandshakeRejected,
	FailureUnexpectedIO,
	FailureAborted,
}

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureBindExhaustion:
		return "bind_exhaustion"
	case FailureConnectTimeout:
		return "connect_timeout"
	case FailureConnectRefused:
		return "connect_refused"
	case FailureHandshakeTimeout:
		return "handshake_timeout"
	case FailureHandshakeRejected:
		return "handshake_rejected"
	case FailureUnexpectedIO:
		return "unexpected_io"
	case FailureAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ErrorCode represents specific error conditions in the module.
type ErrorCode int

const (
	ErrCodeInvalidArgument ErrorCode = iota + 1
	ErrCodeNotSupported
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap lets errors.Is match the sentinel for the error's code.
func (e *Error) Unwrap() error {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return ErrInvalidArgument
	case ErrCodeNotSupported:
		return ErrNotSupported
	}
	return nil
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
