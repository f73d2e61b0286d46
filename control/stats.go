// control/stats.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide outcome counters shared by every attempt.

package control

import (
	"sync/atomic"

	"github.com/momentics/hioload-connscale/api"
)

const failedMask = 1<<32 - 1

// Stats counts connected and failed attempts. Both counters live in one
// 64-bit word (connected high, failed low) so Snapshot is a single load and
// always returns a pair that existed at one instant. Each counter holds up
// to 2^32-1 attempts.
type Stats struct {
	word    atomic.Uint64
	kinds   [api.NumFailureKinds]atomic.Int64
	metrics *MetricsRegistry
}

// NewStats creates zeroed counters. metrics may be nil.
func NewStats(metrics *MetricsRegistry) *Stats {
	return &Stats{metrics: metrics}
}

// RecordSuccess counts one upgraded attempt.
func (s *Stats) RecordSuccess() {
	s.word.Add(1 << 32)
	if s.metrics != nil {
		s.metrics.incEstablished()
	}
}

// RecordFailure counts one failed attempt of the given kind.
func (s *Stats) RecordFailure(kind api.FailureKind) {
	s.word.Add(1)
	if kind > api.FailureNone && int(kind) < api.NumFailureKinds {
		s.kinds[kind].Add(1)
	}
	if s.metrics != nil {
		s.metrics.incFailed(kind)
	}
}

// Snapshot returns (connected, failed) at one point in time.
func (s *Stats) Snapshot() (connected, failed int64) {
	w := s.word.Load()
	return int64(w >> 32), int64(w & failedMask)
}

// Failures returns the failure count for one kind.
func (s *Stats) Failures(kind api.FailureKind) int64 {
	if kind <= api.FailureNone || int(kind) >= api.NumFailureKinds {
		return 0
	}
	return s.kinds[kind].Load()
}

// FailureBreakdown returns the non-zero per-kind failure counts.
func (s *Stats) FailureBreakdown() map[api.FailureKind]int64 {
	out := make(map[api.FailureKind]int64)
	for _, k := range api.FailureKinds {
		if n := s.kinds[k].Load(); n > 0 {
			out[k] = n
		}
	}
	return out
}
