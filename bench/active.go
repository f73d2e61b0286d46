// File: bench/active.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package bench

import (
	"net"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-connscale/api"
)

var _ api.GracefulShutdown = (*ActiveSet)(nil)

// ActiveSet owns every upgraded connection until teardown.
// Add is safe from many workers; Shutdown drains the set exactly once.
type ActiveSet struct {
	mu     sync.Mutex
	conns  *queue.Queue
	closed bool
}

// NewActiveSet creates an empty set.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{conns: queue.New()}
}

// Add takes ownership of c. After Shutdown, c is closed immediately and
// false is returned.
func (s *ActiveSet) Add(c net.Conn) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = c.Close()
		return false
	}
	s.conns.Add(c)
	s.mu.Unlock()
	return true
}

// Len returns the number of held connections.
func (s *ActiveSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns.Length()
}

// Shutdown closes every held connection. Close errors (typically peers that
// already hung up) are counted, never returned. Every connection is
// released whether or not its Close failed.
func (s *ActiveSet) Shutdown() (closed, failed int) {
	s.mu.Lock()
	s.closed = true
	held := make([]net.Conn, 0, s.conns.Length())
	for s.conns.Length() > 0 {
		held = append(held, s.conns.Remove().(net.Conn))
	}
	s.mu.Unlock()

	for _, c := range held {
		if err := c.Close(); err != nil {
			failed++
		}
		closed++
	}
	return closed, failed
}
