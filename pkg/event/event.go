// Package event provides a simple synchronous/async event dispatcher.
//
//	bus := event.New()
//	bus.Listen("order.created", func(ctx context.Context, p any) { ... })
//	bus.Fire(ctx, "order.created", order)
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/sadekstore/storefront/pkg/logger"
)

// Handler is a function that receives an event payload.
type Handler func(ctx context.Context, payload any)

// Bus routes named events to their listeners.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
}

func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) listeners(event string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	return hs
}

// Fire dispatches an event synchronously to all registered listeners. A
// panicking listener is logged and does not stop the others.
func (b *Bus) Fire(ctx context.Context, event string, payload any) {
	for _, h := range b.listeners(event) {
		b.call(ctx, event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately. Wait blocks until they are done.
func (b *Bus) FireAsync(ctx context.Context, event string, payload any) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range b.listeners(event) {
		b.inflight.Add(1)
		go func(h Handler) {
			defer b.inflight.Done()
			b.call(ctx, event, h, payload)
		}(h)
	}
}

// Wait blocks until every FireAsync listener has returned.
func (b *Bus) Wait() { b.inflight.Wait() }

func (b *Bus) call(ctx context.Context, event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", fmt.Sprint(r))
		}
	}()
	h(ctx, payload)
}
