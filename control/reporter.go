// control/reporter.go
// Author: momentics <momentics@gmail.com>
//
// Periodic progress reporting over Stats.

package control

import (
	"context"
	"fmt"
	"time"

	humanize "github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"github.com/momentics/hioload-connscale/api"
)

// DefaultReportInterval is the default period between snapshots.
const DefaultReportInterval = time.Second

// Reporter publishes a Snapshot every interval until its context is cancelled.
// It only reads Stats and never blocks attempts.
type Reporter struct {
	stats    *Stats
	total    int
	interval time.Duration
	sink     api.ProgressSink
	log      *log.Entry
}

// NewReporter creates a reporter for a run of total attempts.
// interval <= 0 selects DefaultReportInterval; a nil sink selects NewLogSink.
func NewReporter(stats *Stats, total int, interval time.Duration, sink api.ProgressSink) *Reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	entry := log.WithField("component", "reporter")
	if sink == nil {
		sink = NewLogSink(entry)
	}
	return &Reporter{stats: stats, total: total, interval: interval, sink: sink, log: entry}
}

// Run reports until ctx is done, then emits one final snapshot.
// Reaching connected+failed >= total is announced once; it does not stop the loop.
func (r *Reporter) Run(ctx context.Context) {
	start := time.Now()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	announced := false
	for {
		select {
		case <-ctx.Done():
			r.sink.Report(r.snapshot(start))
			return
		case <-ticker.C:
			s := r.snapshot(start)
			r.sink.Report(s)
			if !announced && s.Done(r.total) {
				announced = true
				r.log.WithField("elapsed", s.Elapsed.Round(time.Millisecond)).Info("launch phase complete")
			}
		}
	}
}

func (r *Reporter) snapshot(start time.Time) api.Snapshot {
	c, f := r.stats.Snapshot()
	return api.Snapshot{Elapsed: time.Since(start), Connected: c, Failed: f}
}

// FormatSnapshot renders a snapshot as one console line.
func FormatSnapshot(s api.Snapshot) string {
	return fmt.Sprintf("Time: %.1fs | Connected: %s | Failed: %s",
		s.Elapsed.Seconds(), humanize.Comma(s.Connected), humanize.Comma(s.Failed))
}

// NewLogSink writes each snapshot through entry at info level.
func NewLogSink(entry *log.Entry) api.ProgressSink {
	return api.ProgressSinkFunc(func(s api.Snapshot) {
		entry.Info(FormatSnapshot(s))
	})
}
