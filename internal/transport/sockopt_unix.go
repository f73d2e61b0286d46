//go:build linux || darwin || freebsd || netbsd || openbsd
// +build linux darwin freebsd netbsd openbsd

// File: internal/transport/sockopt_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket options applied to outgoing sockets before bind.

package transport

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// ReuseControl is a net.Dialer Control hook enabling address and port reuse.
// It runs after the socket is created and before it is bound.
func ReuseControl(network, address string, c syscall.RawConn) error {
	var serr error
	err := c.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if serr != nil {
			return
		}
		// Best effort: not every kernel allows SO_REUSEPORT on client sockets.
		_ = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
	})
	if err != nil {
		return err
	}
	return serr
}
