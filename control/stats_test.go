package control_test

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-connscale/api"
	"github.com/momentics/hioload-connscale/control"
)

// counterValue sums a counter family, optionally filtered by its kind label.
func counterValue(t *testing.T, reg *prometheus.Registry, name, kind string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			if kind != "" {
				match := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == "kind" && lp.GetValue() == kind {
						match = true
					}
				}
				if !match {
					continue
				}
			}
			if c := m.GetCounter(); c != nil {
				sum += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				sum += g.GetValue()
			}
		}
		return sum
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestStats_ConcurrentRecording(t *testing.T) {
	m := control.NewMetricsRegistry()
	s := control.NewStats(m)

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if (w+i)%3 == 0 {
					s.RecordSuccess()
				} else {
					s.RecordFailure(api.FailureConnectRefused)
				}
			}
		}(w)
	}
	wg.Wait()

	c, f := s.Snapshot()
	assert.EqualValues(t, 16000, c+f)
	assert.Equal(t, f, s.Failures(api.FailureConnectRefused))
	assert.Equal(t, float64(c), counterValue(t, m.Registry(), "connscale_connections_established_total", ""))
	assert.Equal(t, float64(f), counterValue(t, m.Registry(), "connscale_connections_failed_total", "connect_refused"))
	assert.Zero(t, counterValue(t, m.Registry(), "connscale_connections_failed_total", "bind_exhaustion"))
}

func TestStats_SnapshotMonotonic(t *testing.T) {
	s := control.NewStats(nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20000; i++ {
			if i%2 == 0 {
				s.RecordSuccess()
			} else {
				s.RecordFailure(api.FailureHandshakeTimeout)
			}
		}
	}()

	var lastC, lastF int64
	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
		}
		c, f := s.Snapshot()
		require.GreaterOrEqual(t, c, lastC)
		require.GreaterOrEqual(t, f, lastF)
		require.GreaterOrEqual(t, c+f, lastC+lastF)
		lastC, lastF = c, f
	}
	c, f := s.Snapshot()
	assert.EqualValues(t, 10000, c)
	assert.EqualValues(t, 10000, f)
}

func TestStats_Breakdown(t *testing.T) {
	s := control.NewStats(nil)
	s.RecordFailure(api.FailureBindExhaustion)
	s.RecordFailure(api.FailureBindExhaustion)
	s.RecordFailure(api.FailureAborted)
	s.RecordSuccess()

	assert.Equal(t, map[api.FailureKind]int64{
		api.FailureBindExhaustion: 2,
		api.FailureAborted:        1,
	}, s.FailureBreakdown())
	assert.Zero(t, s.Failures(api.FailureNone))
	assert.Zero(t, s.Failures(api.FailureKind(99)))

	c, f := s.Snapshot()
	assert.EqualValues(t, 1, c)
	assert.EqualValues(t, 3, f)
}

func TestMetricsRegistry_ActiveAndClosed(t *testing.T) {
	m := control.NewMetricsRegistry()
	m.SetActive(42)
	m.AddClosed(40)
	assert.Zero(t, counterValue(t, m.Registry(), "connscale_gate_inflight", ""))
	m.SetGateSource(func() float64 { return 7 })
	m.SetGateSource(func() float64 { return 3 })

	assert.Equal(t, 42.0, counterValue(t, m.Registry(), "connscale_active_connections", ""))
	assert.Equal(t, 40.0, counterValue(t, m.Registry(), "connscale_connections_closed_total", ""))
	assert.Equal(t, 3.0, counterValue(t, m.Registry(), "connscale_gate_inflight", ""))
}
