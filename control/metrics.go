// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Prometheus collectors for run counters and live gauges.
// Every MetricsRegistry owns a private registry so parallel runs and tests
// never collide on the default one.

package control

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/momentics/hioload-connscale/api"
)

const namespace = "connscale"

// MetricsRegistry holds the collectors updated by Stats and the Orchestrator.
type MetricsRegistry struct {
	reg         *prometheus.Registry
	established prometheus.Counter
	failed      *prometheus.CounterVec
	active      prometheus.Gauge
	closed      prometheus.Counter
	gateSource  atomic.Pointer[func() float64]
}

// NewMetricsRegistry creates the collectors and registers them.
func NewMetricsRegistry() *MetricsRegistry {
	mr := &MetricsRegistry{
		reg: prometheus.NewRegistry(),
		established: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_established_total",
			Help:      "Attempts that completed the upgrade handshake.",
		}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_failed_total",
			Help:      "Attempts that failed, by failure kind.",
		}, []string{"kind"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_connections",
			Help:      "Upgraded connections currently held open.",
		}),
		closed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_closed_total",
			Help:      "Held connections closed at teardown.",
		}),
	}
	for _, k := range api.FailureKinds {
		mr.failed.WithLabelValues(k.String())
	}
	gateInflight := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "gate_inflight",
		Help:      "Attempts currently holding a gate slot.",
	}, func() float64 {
		if fn := mr.gateSource.Load(); fn != nil {
			return (*fn)()
		}
		return 0
	})
	mr.reg.MustRegister(mr.established, mr.failed, mr.active, mr.closed, gateInflight)
	return mr
}

// Registry exposes the underlying registry.
func (mr *MetricsRegistry) Registry() *prometheus.Registry { return mr.reg }

// Handler serves the registry in the Prometheus exposition format.
func (mr *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(mr.reg, promhttp.HandlerOpts{})
}

// SetGateSource points the gate_inflight gauge at fn, replacing any earlier
// source. Each run on a shared registry takes over the gauge.
func (mr *MetricsRegistry) SetGateSource(fn func() float64) {
	mr.gateSource.Store(&fn)
}

// SetActive sets the held-connection gauge.
func (mr *MetricsRegistry) SetActive(n int) { mr.active.Set(float64(n)) }

// AddClosed counts n connections closed at teardown.
func (mr *MetricsRegistry) AddClosed(n int) { mr.closed.Add(float64(n)) }

func (mr *MetricsRegistry) incEstablished() { mr.established.Inc() }

func (mr *MetricsRegistry) incFailed(kind api.FailureKind) {
	mr.failed.WithLabelValues(kind.String()).Inc()
}
