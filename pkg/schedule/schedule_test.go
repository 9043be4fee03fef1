package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEvery_RunsRepeatedly(t *testing.T) {
	var runs atomic.Int32
	s := New().WithTick(5 * time.Millisecond)
	s.Every("count", 10*time.Millisecond, func(context.Context) { runs.Add(1) })

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestWithoutOverlapping(t *testing.T) {
	var running, maxRunning atomic.Int32
	s := New().WithTick(2 * time.Millisecond)
	s.Every("slow", time.Millisecond, func(ctx context.Context) {
		n := running.Add(1)
		for {
			m := maxRunning.Load()
			if n <= m || maxRunning.CompareAndSwap(m, n) {
				break
			}
		}
		select {
		case <-time.After(30 * time.Millisecond):
		case <-ctx.Done():
		}
		running.Add(-1)
	}).WithoutOverlapping()

	s.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	s.Stop()

	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestPanickingTaskIsRecovered(t *testing.T) {
	var after atomic.Bool
	s := New().WithTick(2 * time.Millisecond)
	s.Every("boom", time.Hour, func(context.Context) { panic("boom") })
	s.Every("ok", time.Hour, func(context.Context) { after.Store(true) })

	s.Start(context.Background())
	assert.Eventually(t, after.Load, time.Second, 2*time.Millisecond)
	s.Stop()
	assert.Equal(t, []string{"boom [1h0m0s]", "ok [1h0m0s]"}, s.List())
}
