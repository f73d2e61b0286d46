//go:build linux || darwin || freebsd || netbsd || openbsd
// +build linux darwin freebsd netbsd openbsd

// control/limits_unix.go
// Author: momentics <momentics@gmail.com>
//
// File-descriptor ceiling management.

package control

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// NoFileLimit reports the RLIMIT_NOFILE soft and hard values.
func NoFileLimit() (soft, hard uint64, err error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, 0, errors.Wrap(err, "getrlimit nofile")
	}
	return uint64(rl.Cur), uint64(rl.Max), nil
}

// RaiseNoFileLimit lifts the soft RLIMIT_NOFILE to the hard limit and returns
// the resulting soft limit.
func RaiseNoFileLimit() (uint64, error) {
	var rl unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, errors.Wrap(err, "getrlimit nofile")
	}
	if rl.Cur == rl.Max {
		return uint64(rl.Cur), nil
	}
	rl.Cur = rl.Max
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return 0, errors.Wrap(err, "setrlimit nofile")
	}
	return uint64(rl.Cur), nil
}
