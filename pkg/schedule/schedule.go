// Package schedule runs recurring maintenance tasks inside the server
// process.
//
//	s := schedule.New()
//	s.Every("analytics.reconcile", time.Hour, reconcile).WithoutOverlapping()
//	s.Start(ctx)
//	defer s.Stop()
package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sadekstore/storefront/pkg/logger"
)

// Task is a scheduled unit of work. ctx is cancelled when the scheduler stops.
type Task func(ctx context.Context)

type entry struct {
	id        string
	interval  time.Duration
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// Entry is returned by Every for chained options.
type Entry struct{ e *entry }

// WithoutOverlapping skips a tick while the previous run is still going.
func (en Entry) WithoutOverlapping() Entry {
	en.e.noOverlap = true
	return en
}

// Scheduler dispatches due entries once per tick.
type Scheduler struct {
	tick time.Duration

	mu      sync.Mutex
	entries []*entry

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{tick: time.Second}
}

// WithTick changes how often due entries are checked.
func (s *Scheduler) WithTick(d time.Duration) *Scheduler {
	s.tick = d
	return s
}

// Every registers task to run each interval. The first run happens on the
// first tick after Start.
func (s *Scheduler) Every(id string, interval time.Duration, task Task) Entry {
	e := &entry{id: id, interval: interval, task: task}
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return Entry{e: e}
}

// Start begins the dispatch loop in the background.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	logger.Component("schedule").Info("scheduler started", "entries", len(s.List()))
}

// Stop cancels the loop and waits for running tasks to return.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// List describes the registered entries, e.g. "analytics.reconcile [1h0m0s]".
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, fmt.Sprintf("%s [%s]", e.id, e.interval))
	}
	return out
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.mu.Lock()
			current := append([]*entry(nil), s.entries...)
			s.mu.Unlock()

			for _, e := range current {
				if e.due(now) {
					s.dispatch(ctx, e)
				}
			}
		}
	}
}

func (e *entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *entry) {
	log := logger.Component("schedule")

	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		log.Warn("skipping overlapping task", "id", e.id)
		return
	}
	e.running = true
	e.lastRun = time.Now()
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
			if r := recover(); r != nil {
				log.Error("task panicked", "id", e.id, "panic", fmt.Sprint(r))
			}
		}()

		log.Debug("running task", "id", e.id)
		e.task(ctx)
	}()
}
