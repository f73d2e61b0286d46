// File: internal/concurrency/gate.go
// Package concurrency implements admission control and paced launching for connection attempts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Gate bounds how many attempts may be mid-handshake at once, independently of
// how many have been scheduled.

package concurrency

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultGateCapacity is the default number of concurrent handshakes.
const DefaultGateCapacity = 5000

// Gate is a counting admission token with FIFO wakeups.
type Gate struct {
	sem      *semaphore.Weighted
	capacity int64
	inflight atomic.Int64
	peak     atomic.Int64
	admitted atomic.Int64
}

// NewGate creates a gate with capacity slots. capacity <= 0 selects DefaultGateCapacity.
func NewGate(capacity int) *Gate {
	if capacity <= 0 {
		capacity = DefaultGateCapacity
	}
	return &Gate{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// Acquire blocks until a slot is free and returns its release func.
// It fails only when ctx is done first. release may be called more than once;
// only the first call frees the slot.
func (g *Gate) Acquire(ctx context.Context) (release func(), err error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	n := g.inflight.Add(1)
	g.admitted.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	var released atomic.Bool
	return func() {
		if released.CompareAndSwap(false, true) {
			g.inflight.Add(-1)
			g.sem.Release(1)
		}
	}, nil
}

// Cap returns the gate capacity.
func (g *Gate) Cap() int { return int(g.capacity) }

// InFlight returns the number of holders currently past admission.
func (g *Gate) InFlight() int { return int(g.inflight.Load()) }

// Peak returns the highest InFlight value observed.
func (g *Gate) Peak() int { return int(g.peak.Load()) }

// Admitted returns the total number of successful acquisitions.
func (g *Gate) Admitted() int64 { return g.admitted.Load() }
