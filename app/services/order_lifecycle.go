package services

import "github.com/sadekstore/storefront/app/models"

// ApplyTransition applies the analytics side effect of moving order o from
// its current status to next:
//
//	entering completed  ordersCount +1, revenue +total
//	leaving completed   ordersCount -1, revenue -total (both floored at 0)
//	anything else       no effect
//
// It reports whether the counters changed. It does not modify o.
func ApplyTransition(a *models.Analytics, o models.Order, next models.OrderStatus) bool {
	prev := o.Status
	switch {
	case prev == next:
		return false
	case next == models.StatusCompleted:
		a.OrdersCount++
		a.Revenue = max(0, a.Revenue+o.Total)
		return true
	case prev == models.StatusCompleted:
		a.OrdersCount = max(0, a.OrdersCount-1)
		a.Revenue = max(0, a.Revenue-o.Total)
		return true
	default:
		return false
	}
}
