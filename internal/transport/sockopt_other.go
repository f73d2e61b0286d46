//go:build !(linux || darwin || freebsd || netbsd || openbsd)
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd

// File: internal/transport/sockopt_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import "syscall"

// ReuseControl is a no-op where unix socket options are unavailable.
func ReuseControl(network, address string, c syscall.RawConn) error {
	return nil
}
