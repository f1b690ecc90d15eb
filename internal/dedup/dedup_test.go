package dedup

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"
)

// TestIsDuplicate_Window checks both sides of the window boundary on the fake clock.
func TestIsDuplicate_Window(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		d := New(500 * time.Millisecond)

		require.False(t, d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE"))

		time.Sleep(499 * time.Millisecond)
		require.True(t, d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE"))

		// The duplicate must not refresh the remembered time: 500ms after the original passes.
		time.Sleep(time.Millisecond)
		require.False(t, d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE"))
	})
}

// TestIsDuplicate_DistinctKeys ensures every key component separates triggers.
func TestIsDuplicate_DistinctKeys(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		d := New(500 * time.Millisecond)

		require.False(t, d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE"))
		require.False(t, d.IsDuplicate("t-2", "building-a", "room-2", "AUDIBLE"))
		require.False(t, d.IsDuplicate("t-1", "building-b", "room-2", "AUDIBLE"))
		require.False(t, d.IsDuplicate("t-1", "building-a", "room-3", "AUDIBLE"))
		require.False(t, d.IsDuplicate("t-1", "building-a", "room-2", "SILENT"))
		require.True(t, d.IsDuplicate("t-1", "building-a", "room-2", "audible"))
		require.Equal(t, 5, d.Len())
	})
}

// TestIsDuplicate_ConcurrentIdenticalTriggers lets exactly one of many racing triggers pass.
func TestIsDuplicate_ConcurrentIdenticalTriggers(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		var (
			d      = New(500 * time.Millisecond)
			passed atomic.Int32
			wg     sync.WaitGroup
		)

		for range 64 {
			wg.Go(func() {
				if !d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE") {
					passed.Add(1)
				}
			})
		}

		wg.Wait()
		require.EqualValues(t, 1, passed.Load())
	})
}

// TestSweep_EvictsOnlyExpiredEntries keeps entries younger than twice the window.
func TestSweep_EvictsOnlyExpiredEntries(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		d := New(500 * time.Millisecond)

		d.IsDuplicate("t-1", "building-a", "room-1", "AUDIBLE")
		time.Sleep(600 * time.Millisecond)
		d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE")
		time.Sleep(401 * time.Millisecond)

		require.Equal(t, 1, d.Sweep())
		require.Equal(t, 1, d.Len())
	})
}

// TestRun_SweepsUntilCanceled runs the background loop and stops it via context.
func TestRun_SweepsUntilCanceled(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		d := New(300*time.Millisecond, WithSweepInterval(time.Second))
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})

		go func() {
			d.Run(ctx)
			close(done)
		}()

		d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE")
		require.Equal(t, 1, d.Len())

		time.Sleep(time.Second)
		synctest.Wait()
		require.Equal(t, 0, d.Len())

		cancel()
		<-done
	})
}

// TestWithClock uses an injected time source instead of the wall clock.
func TestWithClock(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 11, 2, 10, 0, 0, 0, time.UTC)
	d := New(0, WithClock(func() time.Time { return now }))

	require.Equal(t, DefaultWindow, d.Window())
	require.False(t, d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE"))

	now = now.Add(DefaultWindow)
	require.False(t, d.IsDuplicate("t-1", "building-a", "room-2", "AUDIBLE"))
}
