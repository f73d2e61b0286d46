// File: internal/concurrency/launcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Launcher creates the attempt population in fixed-size batches with a pause
// between batches, and executes it on a fixed pool of worker goroutines that
// draw indices from a shared queue. Batching paces creation; the Gate paces
// execution.

package concurrency

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Defaults for attempt creation pacing.
const (
	DefaultBatchSize  = 10000
	DefaultBatchPause = 50 * time.Millisecond
)

// TaskFunc runs one attempt. It must classify the attempt even when ctx is done.
type TaskFunc func(ctx context.Context, index int)

// LauncherConfig controls population size, pacing and pool width.
type LauncherConfig struct {
	Total     int           // attempts to create
	BatchSize int           // attempts per batch (<= 0: DefaultBatchSize)
	Pause     time.Duration // pause after each full batch (< 0: none)
	Workers   int           // worker goroutines (<= 0: runtime.NumCPU())
}

// LaunchResult describes what the producer handed out.
type LaunchResult struct {
	Launched int // indices delivered to workers, [0, Launched)
	Batches  int // full or partial batches created
	Skipped  int // indices never created because ctx was done
}

// Launcher runs the attempt population.
type Launcher struct {
	cfg LauncherConfig
}

// NewLauncher normalizes cfg and returns a launcher.
func NewLauncher(cfg LauncherConfig) *Launcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Total > 0 && cfg.Workers > cfg.Total {
		cfg.Workers = cfg.Total
	}
	return &Launcher{cfg: cfg}
}

// Config returns the normalized configuration.
func (l *Launcher) Config() LauncherConfig { return l.cfg }

// Run creates indices 0..Total-1 and blocks until every delivered index has
// been executed by task. When ctx is done the producer stops creating; indices
// already delivered still run (and observe ctx themselves).
func (l *Launcher) Run(ctx context.Context, task TaskFunc) LaunchResult {
	var res LaunchResult
	if l.cfg.Total <= 0 {
		return res
	}
	queue := make(chan int, l.cfg.BatchSize)
	var wg sync.WaitGroup
	wg.Add(l.cfg.Workers)
	for w := 0; w < l.cfg.Workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range queue {
				task(ctx, idx)
			}
		}()
	}

	res.Launched, res.Batches = l.produce(ctx, queue)
	close(queue)
	wg.Wait()
	res.Skipped = l.cfg.Total - res.Launched
	return res
}

// produce feeds queue batch by batch and returns how many indices it delivered.
func (l *Launcher) produce(ctx context.Context, queue chan<- int) (launched, batches int) {
	var pause *time.Timer
	defer func() {
		if pause != nil {
			pause.Stop()
		}
	}()
	for i := 0; i < l.cfg.Total; i++ {
		select {
		case <-ctx.Done():
			return launched, batches
		default:
		}
		select {
		case queue <- i:
			launched++
			if i%l.cfg.BatchSize == 0 {
				batches++
			}
		case <-ctx.Done():
			return launched, batches
		}
		if launched%l.cfg.BatchSize == 0 && launched < l.cfg.Total && l.cfg.Pause > 0 {
			if pause == nil {
				pause = time.NewTimer(l.cfg.Pause)
			} else {
				pause.Reset(l.cfg.Pause)
			}
			select {
			case <-pause.C:
			case <-ctx.Done():
				return launched, batches
			}
		}
	}
	return launched, batches
}
