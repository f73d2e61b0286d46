// File: internal/transport/discover.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Discovery of local addresses that can actually be bound.

package transport

import (
	"net"
	"strings"
)

// PortsPerSource is the usable ephemeral-port budget assumed per source address.
const PortsPerSource = 64000

// LoopbackAliases returns n consecutive IPv4 addresses starting at base,
// e.g. 127.0.0.1 .. 127.0.0.5 for base=127.0.0.1, n=5. The last octet wraps
// within 1..254 like the alias scheme used by the stress client.
func LoopbackAliases(base net.IP, n int) []net.IP {
	b := base.To4()
	if b == nil || n <= 0 {
		return nil
	}
	start := int(b[3])
	if start < 1 || start > 254 {
		start = 1
	}
	out := make([]net.IP, n)
	for i := 0; i < n; i++ {
		ip := make(net.IP, 4)
		copy(ip, b)
		ip[3] = byte(1 + (start-1+i)%254)
		out[i] = ip
	}
	return out
}

// ParseSources parses a comma separated list of IPs, skipping blanks.
// Entries that fail to parse are returned in bad.
func ParseSources(list string) (ips []net.IP, bad []string) {
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		ip := net.ParseIP(f)
		if ip == nil {
			bad = append(bad, f)
			continue
		}
		ips = append(ips, ip)
	}
	return ips, bad
}

// ProbeBindable keeps the candidates that accept a bind with port 0, in order.
// A candidate not assigned to any interface fails with EADDRNOTAVAIL.
func ProbeBindable(candidates []net.IP) []net.IP {
	var ok []net.IP
	for _, ip := range candidates {
		ln, err := net.ListenTCP("tcp", &net.TCPAddr{IP: ip})
		if err != nil {
			continue
		}
		ln.Close()
		ok = append(ok, ip)
	}
	return ok
}

// PortBudgetShortfall reports whether sources addresses cannot cover target connections.
func PortBudgetShortfall(sources, target int) bool {
	return sources*PortsPerSource < target
}

// Discover returns the IPv4 addresses assigned to the named link.
func Discover(linkName string) ([]net.IP, error) {
	return discoverLink(linkName)
}

func ipv4Only(ips []net.IP) []net.IP {
	out := ips[:0]
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			out = append(out, v4)
		}
	}
	return out
}
