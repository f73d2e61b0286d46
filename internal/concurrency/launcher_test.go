package concurrency_test

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-connscale/internal/concurrency"
)

func TestLauncher_RunsEveryIndexOnce(t *testing.T) {
	l := concurrency.NewLauncher(concurrency.LauncherConfig{Total: 1000, BatchSize: 64, Workers: 8})

	var mu sync.Mutex
	seen := make([]int, 0, 1000)
	res := l.Run(context.Background(), func(_ context.Context, idx int) {
		mu.Lock()
		seen = append(seen, idx)
		mu.Unlock()
	})

	assert.Equal(t, 1000, res.Launched)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 16, res.Batches) // ceil(1000/64)
	require.Len(t, seen, 1000)
	sort.Ints(seen)
	for i, v := range seen {
		require.Equal(t, i, v)
	}
}

func TestLauncher_Defaults(t *testing.T) {
	cfg := concurrency.NewLauncher(concurrency.LauncherConfig{Total: 3}).Config()
	assert.Equal(t, concurrency.DefaultBatchSize, cfg.BatchSize)
	assert.LessOrEqual(t, cfg.Workers, 3)
	assert.Greater(t, cfg.Workers, 0)
}

func TestLauncher_PausesBetweenFullBatches(t *testing.T) {
	l := concurrency.NewLauncher(concurrency.LauncherConfig{
		Total: 40, BatchSize: 10, Pause: 30 * time.Millisecond, Workers: 4,
	})
	start := time.Now()
	res := l.Run(context.Background(), func(context.Context, int) {})
	elapsed := time.Since(start)

	assert.Equal(t, 4, res.Batches)
	// Three pauses between four batches; none after the last.
	assert.GreaterOrEqual(t, elapsed, 90*time.Millisecond)
	assert.Less(t, elapsed, 2*time.Second)
}

func TestLauncher_ZeroTotal(t *testing.T) {
	l := concurrency.NewLauncher(concurrency.LauncherConfig{Total: 0})
	res := l.Run(context.Background(), func(context.Context, int) { t.Fatal("task ran") })
	assert.Equal(t, concurrency.LaunchResult{}, res)
}

func TestLauncher_CancelStopsCreation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := concurrency.NewLauncher(concurrency.LauncherConfig{
		Total: 1000, BatchSize: 10, Pause: time.Hour, Workers: 2,
	})

	var ran atomic.Int64
	done := make(chan concurrency.LaunchResult)
	go func() {
		done <- l.Run(ctx, func(context.Context, int) { ran.Add(1) })
	}()

	// The producer parks in the first inter-batch pause.
	require.Eventually(t, func() bool { return ran.Load() == 10 }, time.Second, time.Millisecond)
	cancel()

	select {
	case res := <-done:
		assert.Equal(t, 10, res.Launched)
		assert.Equal(t, 990, res.Skipped)
		assert.EqualValues(t, res.Launched, ran.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("launcher did not stop after cancel")
	}
}

func TestLauncher_WithGateBoundsExecution(t *testing.T) {
	g := concurrency.NewGate(2)
	l := concurrency.NewLauncher(concurrency.LauncherConfig{Total: 30, BatchSize: 5, Workers: 10})

	var over atomic.Bool
	res := l.Run(context.Background(), func(ctx context.Context, _ int) {
		release, err := g.Acquire(ctx)
		if err != nil {
			return
		}
		defer release()
		if g.InFlight() > 2 {
			over.Store(true)
		}
		time.Sleep(2 * time.Millisecond)
	})

	assert.Equal(t, 30, res.Launched)
	assert.False(t, over.Load())
	assert.LessOrEqual(t, g.Peak(), 2)
	assert.EqualValues(t, 30, g.Admitted())
}
