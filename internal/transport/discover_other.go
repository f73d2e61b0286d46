//go:build !linux
// +build !linux

// File: internal/transport/discover_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package transport

import (
	"net"

	"github.com/pkg/errors"
)

func discoverLink(linkName string) ([]net.IP, error) {
	inf, err := net.InterfaceByName(linkName)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup interface %q", linkName)
	}
	addrs, err := inf.Addrs()
	if err != nil {
		return nil, errors.Wrapf(err, "list addresses of %q", linkName)
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if v, ok := a.(*net.IPNet); ok {
			ips = append(ips, v.IP)
		}
	}
	return ipv4Only(ips), nil
}
