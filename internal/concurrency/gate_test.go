package concurrency_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-connscale/internal/concurrency"
)

func TestGate_DefaultCapacity(t *testing.T) {
	assert.Equal(t, concurrency.DefaultGateCapacity, concurrency.NewGate(0).Cap())
	assert.Equal(t, 7, concurrency.NewGate(7).Cap())
}

func TestGate_NeverExceedsCapacity(t *testing.T) {
	const capacity = 3
	g := concurrency.NewGate(capacity)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := g.Acquire(context.Background())
			require.NoError(t, err)
			defer release()
			assert.LessOrEqual(t, g.InFlight(), capacity)
			time.Sleep(time.Millisecond)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, g.Peak(), capacity)
	assert.Equal(t, 0, g.InFlight())
	assert.EqualValues(t, 40, g.Admitted())
}

func TestGate_ReleaseIsIdempotent(t *testing.T) {
	g := concurrency.NewGate(1)
	release, err := g.Acquire(context.Background())
	require.NoError(t, err)
	release()
	release()
	assert.Equal(t, 0, g.InFlight())

	// A double release must not have freed a phantom second slot.
	r1, err := g.Acquire(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	r1()
}

func TestGate_BlocksUntilRelease(t *testing.T) {
	g := concurrency.NewGate(1)
	r1, err := g.Acquire(context.Background())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r2, err := g.Acquire(context.Background())
		if err == nil {
			close(acquired)
			r2()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire passed a full gate")
	case <-time.After(20 * time.Millisecond):
	}
	r1()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire not admitted after release")
	}
}

func TestGate_CancelledAcquire(t *testing.T) {
	g := concurrency.NewGate(1)
	r, err := g.Acquire(context.Background())
	require.NoError(t, err)
	defer r()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, g.InFlight())
}
