// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The storefront uses it for work that must not hold up a response, such as
// deleting the stored images of a removed product. When every worker is busy
// and the queue is full, Submit returns ErrPoolFull immediately so the caller
// can decide to drop, retry, or run the task inline.
//
//	pool := workerpool.New("cleanup", 4)
//	defer pool.Shutdown()
//
//	if err := pool.Submit(func() { disk.Delete(ctx, path) }); err != nil {
//	    log.Warn("cleanup skipped", "error", err)
//	}
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sadekstore/storefront/pkg/logger"
)

// ErrPoolFull is returned by Submit when all workers are busy and the task
// queue is at capacity.
var ErrPoolFull = errors.New("workerpool: pool is full")

// ErrPoolClosed is returned by Submit after Shutdown has been called.
var ErrPoolClosed = errors.New("workerpool: pool is closed")

// Pool is a bounded goroutine pool.
type Pool struct {
	name  string
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex // guards closed and the close of tasks
	closed bool
}

// New creates a Pool with the given number of workers. size <= 0 means 1.
func New(name string, size int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		name: name,
		// Buffer equal to 2× the worker count so bursts can be absorbed.
		tasks: make(chan func(), size*2),
	}

	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	return p
}

// Submit enqueues task for execution. It never blocks.
//   - Returns ErrPoolFull if the task queue is at capacity.
//   - Returns ErrPoolClosed if Shutdown has been called.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrPoolFull
	}
}

// SubmitWait is like Submit but blocks until a slot is available, ctx is
// done, or the pool is closed.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting new tasks, runs everything already queued and
// waits for the workers to exit. It is safe to call multiple times.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	p.wg.Wait()
}

// worker drains the task channel until it is closed.
func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		p.safeRun(task)
	}
}

// safeRun executes task, recovering from panics so a bad task doesn't kill
// the worker goroutine.
func (p *Pool) safeRun(task func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Component("workerpool").Error("task panicked", "pool", p.name, "panic", fmt.Sprint(r))
		}
	}()
	task()
}
