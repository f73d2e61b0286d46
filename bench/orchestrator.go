// File: bench/orchestrator.go
// Package bench runs one connection-scale benchmark from launch to teardown.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A run launches N upgrade attempts through the paced launcher, classifies
// each exactly once, holds the upgraded sockets open for the hold period and
// then closes them all. Interrupting the context at any point skips straight
// to teardown of whatever was established.

package bench

import (
	"context"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/hioload-connscale/api"
	"github.com/momentics/hioload-connscale/client"
	"github.com/momentics/hioload-connscale/control"
	"github.com/momentics/hioload-connscale/internal/concurrency"
	"github.com/momentics/hioload-connscale/internal/transport"
)

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics publishes run counters into m instead of a private registry.
func WithMetrics(m *control.MetricsRegistry) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithProbes registers the run's debug probes on dp.
func WithProbes(dp *control.DebugProbes) Option {
	return func(o *Orchestrator) { o.probes = dp }
}

// WithProgressSink routes periodic snapshots to sink instead of the log.
func WithProgressSink(sink api.ProgressSink) Option {
	return func(o *Orchestrator) { o.sink = sink }
}

// Orchestrator owns the shared state of one run.
type Orchestrator struct {
	cfg      Config
	sources  *transport.SourcePool
	metrics  *control.MetricsRegistry
	probes   *control.DebugProbes
	sink     api.ProgressSink
	stats    *control.Stats
	gate     *concurrency.Gate
	launcher *concurrency.Launcher
	client   *client.Client
	active   *ActiveSet
	log      *log.Entry
}

// NewOrchestrator validates cfg and wires the run components.
func NewOrchestrator(cfg Config, sources *transport.SourcePool, opts ...Option) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sources == nil || sources.Len() == 0 {
		return nil, api.ErrNoSourceAddresses
	}
	o := &Orchestrator{
		cfg:     cfg,
		sources: sources,
		active:  NewActiveSet(),
		log:     log.WithField("component", "orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = control.NewMetricsRegistry()
	}
	if o.probes == nil {
		o.probes = control.NewDebugProbes()
	}
	o.stats = control.NewStats(o.metrics)
	o.gate = concurrency.NewGate(cfg.GateCapacity)
	o.launcher = concurrency.NewLauncher(cfg.launcherConfig())
	o.client = client.NewClient(cfg.clientConfig(), sources, o.gate, o.stats)

	o.metrics.SetGateSource(func() float64 { return float64(o.gate.InFlight()) })
	o.probes.RegisterProbe("gate.capacity", func() any { return o.gate.Cap() })
	o.probes.RegisterProbe("gate.inflight", func() any { return o.gate.InFlight() })
	o.probes.RegisterProbe("gate.peak", func() any { return o.gate.Peak() })
	o.probes.RegisterProbe("active.len", func() any { return o.active.Len() })
	o.probes.RegisterProbe("stats.failures", func() any {
		out := make(map[string]int64)
		for k, n := range o.stats.FailureBreakdown() {
			out[k.String()] = n
		}
		return out
	})
	return o, nil
}

// Stats exposes the run counters.
func (o *Orchestrator) Stats() *control.Stats { return o.stats }

// Gate exposes the admission gate.
func (o *Orchestrator) Gate() *concurrency.Gate { return o.gate }

// Active exposes the held connections.
func (o *Orchestrator) Active() *ActiveSet { return o.active }

// Metrics exposes the metrics registry in use.
func (o *Orchestrator) Metrics() *control.MetricsRegistry { return o.metrics }

// Run executes the whole benchmark. The returned summary is always filled in;
// the error is non-nil only when ctx ended the run early.
func (o *Orchestrator) Run(ctx context.Context) (api.Summary, error) {
	o.log.WithFields(log.Fields{
		"target":      o.cfg.Target(),
		"connections": humanize.Comma(int64(o.cfg.Connections)),
		"concurrency": o.cfg.GateCapacity,
		"sources":     o.sources.Len(),
	}).Info("starting launch phase")

	sum := o.launch(ctx)
	o.log.WithFields(log.Fields{
		"established": sum.Established,
		"failed":      sum.Failed,
		"elapsed":     sum.LaunchTime.Round(time.Millisecond),
	}).Infof("Total established: %s", humanize.Comma(int64(sum.Established)))
	for k, n := range sum.Failures {
		o.log.WithField("kind", k).Infof("failed: %s", humanize.Comma(n))
	}

	o.hold(ctx)

	sum.Closed, sum.CloseErrors = o.active.Shutdown()
	o.metrics.AddClosed(sum.Closed)
	o.metrics.SetActive(0)
	o.log.WithFields(log.Fields{
		"closed":       sum.Closed,
		"close_errors": sum.CloseErrors,
	}).Info("teardown complete")

	if err := ctx.Err(); err != nil {
		sum.Interrupted = true
		return sum, errors.Wrap(err, "run interrupted")
	}
	return sum, nil
}

// launch runs every attempt to a terminal state with the reporter alongside.
func (o *Orchestrator) launch(ctx context.Context) api.Summary {
	start := time.Now()
	reporter := control.NewReporter(o.stats, o.cfg.Connections, o.cfg.ReportInterval, o.sink)

	repCtx, stopReporter := context.WithCancel(context.Background())
	var g errgroup.Group
	g.Go(func() error {
		reporter.Run(repCtx)
		return nil
	})

	res := o.launcher.Run(ctx, func(ctx context.Context, index int) {
		out := o.client.Run(ctx, index)
		if out.Upgraded() && o.active.Add(out.Conn) {
			o.metrics.SetActive(o.active.Len())
		}
	})
	o.metrics.SetActive(o.active.Len())
	// Attempts the producer never created still count, so the totals add up to N.
	for i := 0; i < res.Skipped; i++ {
		o.stats.RecordFailure(api.FailureAborted)
	}
	if res.Skipped > 0 {
		o.log.WithField("skipped", res.Skipped).Warn("launch interrupted")
	}

	stopReporter()
	_ = g.Wait()

	connected, failed := o.stats.Snapshot()
	return api.Summary{
		Requested:   o.cfg.Connections,
		Established: int(connected),
		Failed:      int(failed),
		Failures:    o.stats.FailureBreakdown(),
		LaunchTime:  time.Since(start),
		Interrupted: ctx.Err() != nil,
	}
}

// hold keeps the set open for the hold period or until ctx is done.
func (o *Orchestrator) hold(ctx context.Context) {
	if o.cfg.Hold <= 0 || ctx.Err() != nil {
		return
	}
	o.log.WithFields(log.Fields{
		"active": o.active.Len(),
		"hold":   o.cfg.Hold,
	}).Info("holding connections")
	t := time.NewTimer(o.cfg.Hold)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
		o.log.Info("hold interrupted")
	}
}
