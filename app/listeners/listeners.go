// Package listeners binds the domain events to their side effects.
package listeners

import (
	"context"

	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/cache"
	"github.com/sadekstore/storefront/pkg/event"
	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/metrics"
)

// Register attaches every listener to bus.
func Register(bus *event.Bus, c *cache.Cache) {
	bus.Listen(repositories.EventDocumentSaved, FlushCatalog(c))
	bus.Listen(services.EventOrderCreated, CountOrder)
	bus.Listen(services.EventOrderStatusChanged, CountTransition)
}

// Flusher drops cached catalog reads. *cache.Cache implements it.
type Flusher interface {
	Flush(ctx context.Context) error
}

// FlushCatalog drops the cached catalog reads after a write that touched
// settings, categories or products. Order, visitor and user writes leave the
// cache alone.
func FlushCatalog(c Flusher) event.Handler {
	return func(ctx context.Context, payload any) {
		saved, ok := payload.(repositories.DocumentSaved)
		if !ok || !saved.Change.Catalog() {
			return
		}
		if err := c.Flush(ctx); err != nil {
			logger.WithCtx(ctx).Warn("catalog cache flush failed", "error", err)
		}
	}
}

func CountOrder(_ context.Context, _ any) {
	metrics.OrdersCreated.Inc()
}

func CountTransition(_ context.Context, payload any) {
	change, ok := payload.(services.StatusChange)
	if !ok {
		return
	}
	metrics.OrderTransitions.WithLabelValues(string(change.From), string(change.To)).Inc()
}
