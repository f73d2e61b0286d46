//go:build !(linux || darwin || freebsd || netbsd || openbsd)
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd

// control/limits_other.go
// Author: momentics <momentics@gmail.com>

package control

import "github.com/momentics/hioload-connscale/api"

func errNoRlimit(op string) error {
	return api.NewError(api.ErrCodeNotSupported, "rlimit nofile unavailable on this platform").WithContext("op", op)
}

// NoFileLimit is unavailable on this platform.
func NoFileLimit() (soft, hard uint64, err error) {
	return 0, 0, errNoRlimit("get")
}

// RaiseNoFileLimit is unavailable on this platform.
func RaiseNoFileLimit() (uint64, error) {
	return 0, errNoRlimit("raise")
}
