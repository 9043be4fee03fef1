package app

import (
	"context"

	"github.com/sadekstore/storefront/config"
	"github.com/sadekstore/storefront/internal/server"
	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/schedule"
)

// Serve listens on APP_PORT until ctx is cancelled or SIGINT/SIGTERM
// arrives, then shuts down gracefully. Maintenance jobs run alongside.
func (a *Application) Serve(ctx context.Context) error {
	s := a.Scheduler()
	s.Start(ctx)
	defer s.Stop()

	return server.Start(ctx, ":"+config.AppPort(), a.Handler())
}

// Scheduler returns the maintenance jobs enabled by config.
func (a *Application) Scheduler() *schedule.Scheduler {
	s := schedule.New()
	if every := config.ReconcileInterval(); every > 0 {
		s.Every("analytics.reconcile", every, a.reconcileJob).WithoutOverlapping()
	}
	return s
}

func (a *Application) reconcileJob(ctx context.Context) {
	before, after, err := a.Reconcile(ctx)
	log := logger.Component("schedule")
	if err != nil {
		log.Error("analytics reconcile failed", "error", err)
		return
	}
	if before.OrdersCount != after.OrdersCount || before.Revenue != after.Revenue {
		log.Warn("analytics drift repaired",
			"orders_before", before.OrdersCount, "orders_after", after.OrdersCount,
			"revenue_before", before.Revenue, "revenue_after", after.Revenue)
	}
}
