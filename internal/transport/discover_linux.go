//go:build linux
// +build linux

// File: internal/transport/discover_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Link address discovery over rtnetlink.

package transport

import (
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
)

func discoverLink(linkName string) ([]net.IP, error) {
	link, err := netlink.LinkByName(linkName)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup link %q", linkName)
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, errors.Wrapf(err, "list addresses of %q", linkName)
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		if a.IPNet != nil {
			ips = append(ips, a.IPNet.IP)
		}
	}
	return ipv4Only(ips), nil
}
