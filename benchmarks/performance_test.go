// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for hioload-connscale hot paths.

package benchmarks

import (
	"context"
	"net"
	"testing"

	"github.com/momentics/hioload-connscale/api"
	"github.com/momentics/hioload-connscale/control"
	"github.com/momentics/hioload-connscale/internal/concurrency"
	"github.com/momentics/hioload-connscale/internal/transport"
	"github.com/momentics/hioload-connscale/pool"
	"github.com/momentics/hioload-connscale/protocol"
)

// BenchmarkSourcePoolSelect measures per-attempt source selection.
func BenchmarkSourcePoolSelect(b *testing.B) {
	p, err := transport.NewSourcePool(transport.LoopbackAliases(net.IPv4(127, 0, 0, 1), 5))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Select(i)
	}
}

// BenchmarkStatsRecord measures contended outcome recording.
func BenchmarkStatsRecord(b *testing.B) {
	s := control.NewStats(nil)
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			if i&1 == 0 {
				s.RecordSuccess()
			} else {
				s.RecordFailure(api.FailureConnectTimeout)
			}
			i++
		}
	})
}

// BenchmarkStatsRecordWithMetrics includes the Prometheus counters.
func BenchmarkStatsRecordWithMetrics(b *testing.B) {
	s := control.NewStats(control.NewMetricsRegistry())
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			s.RecordSuccess()
		}
	})
}

// BenchmarkGateAcquireRelease measures uncontended admission.
func BenchmarkGateAcquireRelease(b *testing.B) {
	g := concurrency.NewGate(1024)
	ctx := context.Background()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			release, err := g.Acquire(ctx)
			if err != nil {
				b.Fatal(err)
			}
			release()
		}
	})
}

// BenchmarkAppendUpgradeRequest measures request encoding into a pooled buffer.
func BenchmarkAppendUpgradeRequest(b *testing.B) {
	bufs := pool.NewBytePool(512)
	key, err := protocol.NewHandshakeKey()
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := bufs.Get()
		*buf = protocol.AppendUpgradeRequest((*buf)[:0], "127.0.0.1", 8081, "/", key)
		bufs.Put(buf)
	}
}

// BenchmarkIsSwitchingProtocols measures response classification.
func BenchmarkIsSwitchingProtocols(b *testing.B) {
	resp := []byte("HTTP/1.1 101 Switching Protocols\r\nUpgrade: websocket\r\nConnection: Upgrade\r\n\r\n")
	for i := 0; i < b.N; i++ {
		if !protocol.IsSwitchingProtocols(resp) {
			b.Fatal("not matched")
		}
	}
}
