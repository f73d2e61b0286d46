// File: internal/transport/source_pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SourcePool spreads outgoing connections over several local addresses so the
// run is not capped by the ephemeral-port budget of a single address.

package transport

import (
	"net"

	"github.com/momentics/hioload-connscale/api"
)

// SourcePool maps attempt indices to local bind addresses in round-robin order.
// It is immutable after construction and safe for concurrent use.
type SourcePool struct {
	addrs []*net.TCPAddr
}

// NewSourcePool builds a pool over ips. An empty list is a fatal startup condition.
func NewSourcePool(ips []net.IP) (*SourcePool, error) {
	if len(ips) == 0 {
		return nil, api.ErrNoSourceAddresses
	}
	p := &SourcePool{addrs: make([]*net.TCPAddr, len(ips))}
	for i, ip := range ips {
		cp := make(net.IP, len(ip))
		copy(cp, ip)
		p.addrs[i] = &net.TCPAddr{IP: cp}
	}
	return p, nil
}

// Select returns the bind address for attempt index, addrs[index mod len].
// The returned address is shared and must not be modified.
func (p *SourcePool) Select(index int) *net.TCPAddr {
	i := index % len(p.addrs)
	if i < 0 {
		i += len(p.addrs)
	}
	return p.addrs[i]
}

// Len returns the number of source addresses.
func (p *SourcePool) Len() int {
	return len(p.addrs)
}

// Addrs returns a copy of the source IPs in selection order.
func (p *SourcePool) Addrs() []net.IP {
	out := make([]net.IP, len(p.addrs))
	for i, a := range p.addrs {
		out[i] = a.IP
	}
	return out
}
