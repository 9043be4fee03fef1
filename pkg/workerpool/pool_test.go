package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sadekstore/storefront/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New("test", 4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := pool.SubmitWait(context.Background(), func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("SubmitWait returned unexpected error: %v", err)
		}
	}

	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	// Size-1 pool whose only worker is blocked.
	pool := workerpool.New("test", 1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})

	_ = pool.SubmitWait(context.Background(), func() {
		close(started)
		<-blocker
	})
	<-started

	// Fill the 2-slot queue (buffer = 2× worker count = 2).
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	err := pool.Submit(func() {})
	if !errors.Is(err, workerpool.ErrPoolFull) {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}

	// SubmitWait honours its context while the queue stays full.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := pool.SubmitWait(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}

	close(blocker)
}

func TestPool_ErrPoolClosed(t *testing.T) {
	pool := workerpool.New("test", 2)
	pool.Shutdown()
	pool.Shutdown()

	if err := pool.Submit(func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
	if err := pool.SubmitWait(context.Background(), func() {}); !errors.Is(err, workerpool.ErrPoolClosed) {
		t.Errorf("expected ErrPoolClosed after Shutdown, got %v", err)
	}
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	pool := workerpool.New("test", 1)

	var ran atomic.Int32
	for i := 0; i < 2; i++ {
		if err := pool.SubmitWait(context.Background(), func() {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		}); err != nil {
			t.Fatal(err)
		}
	}
	pool.Shutdown()

	if got := ran.Load(); got != 2 {
		t.Errorf("expected queued tasks to finish before Shutdown returns, got %d", got)
	}
}

func TestPool_PanicRecovery(t *testing.T) {
	pool := workerpool.New("test", 2)
	defer pool.Shutdown()

	var wg sync.WaitGroup
	wg.Add(1)

	_ = pool.SubmitWait(context.Background(), func() {
		defer wg.Done()
		panic("intentional panic")
	})

	wg.Wait()

	normal := make(chan struct{})
	_ = pool.SubmitWait(context.Background(), func() { close(normal) })

	select {
	case <-normal:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not recover from panic, subsequent task never ran")
	}
}
